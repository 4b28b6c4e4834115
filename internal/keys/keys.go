// internal/keys/keys.go

// Package keys maps the key names allowed in feature files onto the DOM
// key codes dispatched through the DevTools protocol. The mapping is a
// closed set: a name outside it fails before any browser call is made.
package keys

import (
	"errors"
	"fmt"

	"github.com/chromedp/chromedp/kb"
)

// Name identifies a supported key in a feature file phrase.
type Name string

const (
	Enter     Name = "Enter"
	Esc       Name = "Esc"
	Escape    Name = "Escape"
	Tab       Name = "Tab"
	ArrowDown Name = "ArrowDown"
	ArrowUp   Name = "ArrowUp"
)

// ErrUnsupportedKey is returned for key names outside the supported set.
var ErrUnsupportedKey = errors.New("unsupported key")

// supported lists the accepted names for error messages, in phrase order.
var supported = []Name{Enter, Esc, Escape, Tab, ArrowDown, ArrowUp}

// Code resolves a key name from a feature file to the control code the
// browser driver dispatches. Esc and Escape are aliases.
func Code(name string) (string, error) {
	switch Name(name) {
	case Enter:
		return kb.Enter, nil
	case Esc, Escape:
		return kb.Escape, nil
	case Tab:
		return kb.Tab, nil
	case ArrowDown:
		return kb.ArrowDown, nil
	case ArrowUp:
		return kb.ArrowUp, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedKey, name, supported)
	}
}
