// internal/browser/context.go
package browser

import "context"

// CombineContext derives a context that is canceled when either input
// context is done. The session context carries the CDP target values, so
// it must be the parent; the secondary context contributes the per-step
// deadline.
func CombineContext(parentCtx, secondaryCtx context.Context) (context.Context, context.CancelFunc) {
	combinedCtx, cancel := context.WithCancel(parentCtx)

	go func() {
		select {
		case <-secondaryCtx.Done():
			cancel()
		case <-combinedCtx.Done():
			// Already canceled through the parent or a direct call.
		}
	}()

	return combinedCtx, cancel
}
