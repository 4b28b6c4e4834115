// internal/steps/actions.go
package steps

import (
	"context"

	"github.com/xkilldash9x/webdog/internal/keys"
)

// pressKey dispatches a named key to the focused element. Unsupported
// names fail before any driver interaction.
func (s *Steps) pressKey(ctx context.Context, name string) error {
	code, err := keys.Code(name)
	if err != nil {
		return err
	}
	return s.drv.PressKey(ctx, code)
}

func (s *Steps) clickElement(ctx context.Context, selector string) error {
	return s.clickScoped(ctx, selector, "", "")
}

func (s *Steps) clickElementInParent(ctx context.Context, selector, parentSelector string) error {
	return s.clickScoped(ctx, selector, parentSelector, "")
}

func (s *Steps) clickElementInParentWithChild(ctx context.Context, selector, parentSelector, childSelector string) error {
	return s.clickScoped(ctx, selector, parentSelector, childSelector)
}

func (s *Steps) clearElement(ctx context.Context, selector string) error {
	return s.clearScoped(ctx, selector, "", "")
}

func (s *Steps) clearElementInParent(ctx context.Context, selector, parentSelector string) error {
	return s.clearScoped(ctx, selector, parentSelector, "")
}

func (s *Steps) clearElementInParentWithChild(ctx context.Context, selector, parentSelector, childSelector string) error {
	return s.clearScoped(ctx, selector, parentSelector, childSelector)
}

func (s *Steps) enterText(ctx context.Context, text, selector string) error {
	return s.enterScoped(ctx, text, selector, "", "")
}

func (s *Steps) enterTextInParent(ctx context.Context, text, selector, parentSelector string) error {
	return s.enterScoped(ctx, text, selector, parentSelector, "")
}

func (s *Steps) enterTextInParentWithChild(ctx context.Context, text, selector, parentSelector, childSelector string) error {
	return s.enterScoped(ctx, text, selector, parentSelector, childSelector)
}

// clickScoped waits for the target to be displayed and clickable, then
// clicks. Acting on a non-displayed element is never attempted.
func (s *Steps) clickScoped(ctx context.Context, selector, parentSelector, childSelector string) error {
	target, err := s.resolveTarget(ctx, selector, parentSelector, childSelector)
	if err != nil {
		return err
	}
	if err := s.drv.WaitDisplayed(ctx, target, s.cfg.Wait.DisplayTimeout); err != nil {
		return err
	}
	if err := s.drv.WaitClickable(ctx, target, s.cfg.Wait.ClickableTimeout); err != nil {
		return err
	}
	return s.drv.Click(ctx, target)
}

// clearScoped waits for the target to be displayed, then erases its
// value through the driver's select-all/delete key sequence.
func (s *Steps) clearScoped(ctx context.Context, selector, parentSelector, childSelector string) error {
	target, err := s.resolveTarget(ctx, selector, parentSelector, childSelector)
	if err != nil {
		return err
	}
	if err := s.drv.WaitDisplayed(ctx, target, s.cfg.Wait.DisplayTimeout); err != nil {
		return err
	}
	return s.drv.ClearInput(ctx, target)
}

// enterScoped clears the target and types the literal text. All variants
// simulate keystrokes; per-character input events fire the way a real
// keyboard would, which direct value assignment would not guarantee.
func (s *Steps) enterScoped(ctx context.Context, text, selector, parentSelector, childSelector string) error {
	target, err := s.resolveTarget(ctx, selector, parentSelector, childSelector)
	if err != nil {
		return err
	}
	if err := s.drv.WaitDisplayed(ctx, target, s.cfg.Wait.DisplayTimeout); err != nil {
		return err
	}
	if err := s.drv.ClearInput(ctx, target); err != nil {
		return err
	}
	return s.drv.SendKeys(ctx, target, text)
}
