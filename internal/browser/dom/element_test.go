// internal/browser/dom/element_test.go
package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSnapshot(t *testing.T, markup string) *Snapshot {
	t.Helper()
	snapshot, err := NewSnapshot(strings.NewReader(markup))
	require.NoError(t, err)
	return snapshot
}

func TestClosestFindsMatchingAncestor(t *testing.T) {
	snapshot := parseSnapshot(t, `
		<html><body>
			<div class="card highlight">
				<div class="row">
					<span id="x">cell</span>
				</div>
			</div>
		</body></html>`)

	start, err := snapshot.First("#x")
	require.NoError(t, err)

	ancestor, err := start.Closest(".card")
	require.NoError(t, err)
	assert.Equal(t, "div", ancestor.TagName())
	assert.Equal(t, "card highlight", ancestor.Attr("class"))
}

func TestClosestNearestMatchWins(t *testing.T) {
	snapshot := parseSnapshot(t, `
		<html><body>
			<div class="card" id="outer">
				<div class="card" id="inner">
					<span id="x"></span>
				</div>
			</div>
		</body></html>`)

	start, err := snapshot.First("#x")
	require.NoError(t, err)

	ancestor, err := start.Closest("card")
	require.NoError(t, err)
	assert.Equal(t, "inner", ancestor.Attr("id"))
}

func TestClosestStripsLeadingDot(t *testing.T) {
	snapshot := parseSnapshot(t, `<html><body><p class="note"><b id="x"></b></p></body></html>`)

	start, err := snapshot.First("#x")
	require.NoError(t, err)

	withDot, err := start.Closest(".note")
	require.NoError(t, err)
	bare, err := start.Closest("note")
	require.NoError(t, err)
	assert.Equal(t, withDot.Attr("class"), bare.Attr("class"))
}

func TestClosestNotFoundAtDocumentRoot(t *testing.T) {
	snapshot := parseSnapshot(t, `
		<html class="card"><body>
			<div class="wrapper"><span id="x"></span></div>
		</body></html>`)

	start, err := snapshot.First("#x")
	require.NoError(t, err)

	// The walk stops at the html element without inspecting it.
	_, err = start.Closest(".card")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAncestorNotFound)
	assert.Contains(t, err.Error(), ".card")
}

func TestClosestIgnoresEmptyAndWhitespaceClassAttributes(t *testing.T) {
	snapshot := parseSnapshot(t, `
		<html><body>
			<div class="   ">
				<div class="">
					<div>
						<span id="x"></span>
					</div>
				</div>
			</div>
		</body></html>`)

	start, err := snapshot.First("#x")
	require.NoError(t, err)

	_, err = start.Closest(".anything")
	assert.ErrorIs(t, err, ErrAncestorNotFound)
}

func TestClosestDoesNotMatchClassSubstrings(t *testing.T) {
	snapshot := parseSnapshot(t, `
		<html><body>
			<div class="cardholder"><span id="x"></span></div>
		</body></html>`)

	start, err := snapshot.First("#x")
	require.NoError(t, err)

	// "card" must match a whole token, not a prefix of "cardholder".
	_, err = start.Closest(".card")
	assert.ErrorIs(t, err, ErrAncestorNotFound)
}

func TestHasClassToken(t *testing.T) {
	tests := []struct {
		attr  string
		class string
		want  bool
	}{
		{"card", "card", true},
		{"card highlight", "highlight", true},
		{"  card   highlight  ", "card", true},
		{"", "card", false},
		{"   ", "card", false},
		{"cardholder", "card", false},
		{"card", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, hasClassToken(tt.attr, tt.class), "attr=%q class=%q", tt.attr, tt.class)
	}
}
