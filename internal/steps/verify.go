// internal/steps/verify.go
package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/xkilldash9x/webdog/internal/poll"
)

// MismatchError reports a value that regressed between the last
// successful poll tick and the final re-check. It is deliberately
// distinct from poll.TimeoutError: "observed then regressed" and "never
// observed" need different debugging.
type MismatchError struct {
	Subject  string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s regressed after the condition was observed: expected %q, got %q", e.Subject, e.Expected, e.Actual)
}

// shouldBeOnPage polls until the page URL equals the expected literal,
// then re-reads and compares once more.
func (s *Steps) shouldBeOnPage(ctx context.Context, expected string) error {
	budget := s.budget(fmt.Sprintf("expected page URL to be %q", expected))

	err := poll.Until(ctx, func(tick context.Context) (bool, error) {
		url, err := s.readLocation(tick)
		if err != nil {
			return false, err
		}
		return url == expected, nil
	}, budget)
	if err != nil {
		return err
	}

	url, err := s.readLocation(ctx)
	if err != nil {
		return err
	}
	if url != expected {
		return &MismatchError{Subject: "page URL", Expected: expected, Actual: url}
	}
	return nil
}

func (s *Steps) shouldSeeText(ctx context.Context, expected, selector string) error {
	return s.textScoped(ctx, expected, selector, "", "")
}

func (s *Steps) shouldSeeTextInParent(ctx context.Context, expected, selector, parentSelector string) error {
	return s.textScoped(ctx, expected, selector, parentSelector, "")
}

func (s *Steps) shouldSeeTextInParentWithChild(ctx context.Context, expected, selector, parentSelector, childSelector string) error {
	return s.textScoped(ctx, expected, selector, parentSelector, childSelector)
}

// textScoped polls until the target's visible text contains the expected
// substring, then re-reads and performs one final containment check.
func (s *Steps) textScoped(ctx context.Context, expected, selector, parentSelector, childSelector string) error {
	target, err := s.resolveTarget(ctx, selector, parentSelector, childSelector)
	if err != nil {
		return err
	}

	budget := s.budget(fmt.Sprintf("expected text %q in element %q", expected, selector))

	err = poll.Until(ctx, func(tick context.Context) (bool, error) {
		text, err := s.readText(tick, target)
		if err != nil {
			return false, err
		}
		return strings.Contains(text, expected), nil
	}, budget)
	if err != nil {
		return err
	}

	text, err := s.readText(ctx, target)
	if err != nil {
		return err
	}
	if !strings.Contains(text, expected) {
		return &MismatchError{
			Subject:  fmt.Sprintf("text of element %q", selector),
			Expected: expected,
			Actual:   text,
		}
	}
	return nil
}

// shouldSeeAttribute polls until the named attribute of the element
// contains the expected substring, then re-checks once.
func (s *Steps) shouldSeeAttribute(ctx context.Context, expected, name, selector string) error {
	budget := s.budget(fmt.Sprintf("expected value %q in attribute %q of element %q", expected, name, selector))

	err := poll.Until(ctx, func(tick context.Context) (bool, error) {
		value, ok, err := s.readAttribute(tick, selector, name)
		if err != nil {
			return false, err
		}
		return ok && strings.Contains(value, expected), nil
	}, budget)
	if err != nil {
		return err
	}

	value, ok, err := s.readAttribute(ctx, selector, name)
	if err != nil {
		return err
	}
	if !ok || !strings.Contains(value, expected) {
		return &MismatchError{
			Subject:  fmt.Sprintf("attribute %q of element %q", name, selector),
			Expected: expected,
			Actual:   value,
		}
	}
	return nil
}

// budget builds the polling budget for a verification step. The message
// carries the expected value and the selector or URL under test; the
// timeout is appended by poll.TimeoutError itself.
func (s *Steps) budget(message string) poll.Budget {
	return poll.Budget{
		Timeout:  s.cfg.Wait.AssertionTimeout,
		Interval: s.cfg.Wait.PollInterval,
		Message:  message,
	}
}

// Reads inside a poll tick are individually bounded so a not-yet-present
// element fails the tick, not the whole budget.

func (s *Steps) readLocation(ctx context.Context) (string, error) {
	readCtx, cancel := context.WithTimeout(ctx, s.cfg.Wait.ReadTimeout)
	defer cancel()
	return s.drv.Location(readCtx)
}

func (s *Steps) readText(ctx context.Context, selector string) (string, error) {
	readCtx, cancel := context.WithTimeout(ctx, s.cfg.Wait.ReadTimeout)
	defer cancel()
	return s.drv.Text(readCtx, selector)
}

func (s *Steps) readAttribute(ctx context.Context, selector, name string) (string, bool, error) {
	readCtx, cancel := context.WithTimeout(ctx, s.cfg.Wait.ReadTimeout)
	defer cancel()
	return s.drv.Attribute(readCtx, selector, name)
}
