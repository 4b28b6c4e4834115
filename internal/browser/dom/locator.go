// internal/browser/dom/locator.go
package dom

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// First returns the first element in document order matching the CSS
// selector anywhere in the snapshot.
func (s *Snapshot) First(selector string) (*Element, error) {
	return firstMatch(s.root, selector)
}

// First returns the first descendant of e matching the CSS selector.
// The search never widens beyond e's subtree.
func (e *Element) First(selector string) (*Element, error) {
	return firstMatch(e.node, selector)
}

// firstMatch narrows a document-wide selector engine to one subtree and
// takes the head of the result list.
func firstMatch(scope *html.Node, selector string) (*Element, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	match := goquery.NewDocumentFromNode(scope).FindMatcher(matcher)
	if match.Length() == 0 {
		return nil, fmt.Errorf("%w: selector %q", ErrElementNotFound, selector)
	}
	return &Element{node: match.Get(0)}, nil
}
