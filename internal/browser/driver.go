// internal/browser/driver.go

// Package browser owns the Chrome session driven over the DevTools
// protocol. The step catalog talks to it exclusively through the Driver
// interface so step logic can be tested against a fake.
package browser

import (
	"context"
	"time"
)

// Driver is the browser automation surface consumed by the step catalog.
// Selectors are CSS by default; expressions starting with "/" or "(" are
// treated as XPath, which is how snapshot-resolved elements are addressed.
type Driver interface {
	// Navigate loads the URL and waits for the page to become ready.
	Navigate(ctx context.Context, url string) error
	// Location returns the current page URL.
	Location(ctx context.Context) (string, error)
	// PageSource returns the serialized markup of the current page.
	PageSource(ctx context.Context) (string, error)

	// WaitDisplayed blocks until the element is visible or the timeout
	// elapses, in which case it returns an error.
	WaitDisplayed(ctx context.Context, selector string, timeout time.Duration) error
	// WaitClickable blocks until the element is visible and enabled.
	WaitClickable(ctx context.Context, selector string, timeout time.Duration) error

	// Click clicks the first element matching the selector.
	Click(ctx context.Context, selector string) error
	// ClearInput focuses the element and erases its value with a
	// select-all plus delete key sequence.
	ClearInput(ctx context.Context, selector string) error
	// SendKeys types the literal text into the element, character by
	// character, firing the input events a real keyboard would.
	SendKeys(ctx context.Context, selector, text string) error
	// PressKey dispatches a single key code to the focused element.
	PressKey(ctx context.Context, code string) error

	// Text returns the element's visible text.
	Text(ctx context.Context, selector string) (string, error)
	// Attribute returns the named attribute value and whether it exists.
	Attribute(ctx context.Context, selector, name string) (string, bool, error)

	// Screenshot captures the current viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)
}
