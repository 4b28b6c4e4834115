// internal/steps/scope.go
package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/xkilldash9x/webdog/internal/browser/dom"
)

// resolveTarget turns a (selector, parentSelector, childSelector) triple
// into a driver-ready selector. Without a parent selector the target
// selector passes through untouched. With one, the current page is
// snapshotted and the scope pipeline runs: locate the base element
// (the child selector when given, the target selector otherwise), walk
// up to its closest ancestor matching the parent class, then locate the
// target within that ancestor. A failed ancestor walk aborts the step;
// there is no fallback to a document-wide search.
func (s *Steps) resolveTarget(ctx context.Context, selector, parentSelector, childSelector string) (string, error) {
	if parentSelector == "" {
		return selector, nil
	}

	source, err := s.drv.PageSource(ctx)
	if err != nil {
		return "", err
	}
	snapshot, err := dom.NewSnapshot(strings.NewReader(source))
	if err != nil {
		return "", err
	}

	base := childSelector
	if base == "" {
		base = selector
	}
	baseElement, err := snapshot.First(base)
	if err != nil {
		return "", fmt.Errorf("cannot resolve closest parent %q: %w", parentSelector, err)
	}

	ancestor, err := baseElement.Closest(parentSelector)
	if err != nil {
		return "", fmt.Errorf("element %q: %w", base, err)
	}

	target, err := ancestor.First(selector)
	if err != nil {
		return "", fmt.Errorf("within closest parent %q of %q: %w", parentSelector, base, err)
	}

	return target.XPath(), nil
}
