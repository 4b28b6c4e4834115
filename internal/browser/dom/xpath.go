// internal/browser/dom/xpath.go
package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// XPath returns an XPath expression uniquely addressing e in the live
// page, so that an element resolved against a snapshot can be handed to
// the driver for clicks and keystrokes. The nearest ancestor carrying an
// id attribute is used as the anchor; below that, elements are addressed
// by tag name and 1-based sibling index.
func (e *Element) XPath() string {
	var segments []string

	for n := e.node; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		tag := strings.ToLower(n.Data)
		if tag == "" {
			continue
		}

		// An id is a stable anchor; everything above it is irrelevant.
		if id := htmlquery.SelectAttr(n, "id"); id != "" {
			segments = append(segments, fmt.Sprintf(`//*[@id='%s']`, id))
			break
		}

		segments = append(segments, fmt.Sprintf("%s[%d]", tag, siblingIndex(n, tag)))
	}

	if len(segments) == 0 {
		return "/"
	}

	// Segments were collected leaf-first; reverse into root-first order.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}

	expr := strings.Join(segments, "/")
	if !strings.HasPrefix(expr, "/") {
		expr = "/" + expr
	}
	return expr
}

// siblingIndex computes the 1-based position of n among preceding
// siblings with the same tag name.
func siblingIndex(n *html.Node, tag string) int {
	index := 1
	for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
		if prev.Type == html.ElementNode && strings.ToLower(prev.Data) == tag {
			index++
		}
	}
	return index
}
