// internal/browser/dom/element.go

// Package dom resolves step targets against a parsed snapshot of the
// page. A snapshot is parsed once at the start of a step, elements are
// borrowed from it for the duration of that step, and nothing is cached
// across steps. Handles can go stale if the page mutates mid-step; the
// resolver does not re-resolve on staleness.
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

var (
	// ErrAncestorNotFound means the upward class walk reached the document
	// root (or a detached node) without a match.
	ErrAncestorNotFound = errors.New("no matching ancestor")
	// ErrElementNotFound means a selector matched nothing in its scope.
	ErrElementNotFound = errors.New("no matching element")
)

// Snapshot is a parsed copy of the page markup, valid for one step.
type Snapshot struct {
	root *html.Node
}

// NewSnapshot parses page markup into a Snapshot.
func NewSnapshot(r io.Reader) (*Snapshot, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page snapshot: %w", err)
	}
	return &Snapshot{root: root}, nil
}

// Element is a handle to a single node within a Snapshot.
type Element struct {
	node *html.Node
}

// TagName returns the element's tag name in lower case.
func (e *Element) TagName() string {
	return strings.ToLower(e.node.Data)
}

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	return htmlquery.SelectAttr(e.node, name)
}

// Closest walks upward from e's immediate parent and returns the nearest
// ancestor whose class token list contains classSelector (leading "."
// stripped). The walk terminates at the html root element; an ancestor
// chain that leaves the document (detached node) terminates early. An
// empty, absent or whitespace-only class attribute never matches.
func (e *Element) Closest(classSelector string) (*Element, error) {
	className := strings.TrimPrefix(classSelector, ".")

	for n := e.node.Parent; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		// The html element is the traversal boundary, not a candidate.
		if strings.EqualFold(n.Data, "html") {
			break
		}
		if hasClassToken(htmlquery.SelectAttr(n, "class"), className) {
			return &Element{node: n}, nil
		}
	}
	return nil, fmt.Errorf("%w: class %q", ErrAncestorNotFound, classSelector)
}

// hasClassToken reports whether the space-separated token list contains
// class. A non-empty class never matches an empty or whitespace-only
// attribute value.
func hasClassToken(attrValue, class string) bool {
	if class == "" {
		return false
	}
	for _, token := range strings.Fields(attrValue) {
		if token == class {
			return true
		}
	}
	return false
}
