// internal/browser/dom/locator_test.go
package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstReturnsDocumentOrderHead(t *testing.T) {
	snapshot := parseSnapshot(t, `
		<html><body>
			<ul>
				<li class="item" id="first"></li>
				<li class="item" id="second"></li>
			</ul>
		</body></html>`)

	match, err := snapshot.First(".item")
	require.NoError(t, err)
	assert.Equal(t, "first", match.Attr("id"))
}

func TestFirstScopedToAncestorSubtree(t *testing.T) {
	snapshot := parseSnapshot(t, `
		<html><body>
			<div class="card" id="a"><button class="save" id="save-a"></button></div>
			<div class="card" id="b"><button class="save" id="save-b"></button></div>
		</body></html>`)

	card, err := snapshot.First("#b")
	require.NoError(t, err)

	// The document-wide head is #save-a; the scoped search must not see it.
	button, err := card.First(".save")
	require.NoError(t, err)
	assert.Equal(t, "save-b", button.Attr("id"))
}

func TestFirstNotFound(t *testing.T) {
	snapshot := parseSnapshot(t, `<html><body><p>empty</p></body></html>`)

	_, err := snapshot.First("#missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.Contains(t, err.Error(), "#missing")
}

func TestFirstInvalidSelector(t *testing.T) {
	snapshot := parseSnapshot(t, `<html><body></body></html>`)

	_, err := snapshot.First("[[")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrElementNotFound)
}

func TestScopePipeline(t *testing.T) {
	// The full resolution pipeline a scoped step runs: base element,
	// closest parent, target within the parent.
	snapshot := parseSnapshot(t, `
		<html><body>
			<div class="card">
				<label id="user-label">User</label>
				<input id="user-input">
			</div>
			<div class="card">
				<label id="pass-label">Password</label>
				<input id="pass-input">
			</div>
		</body></html>`)

	base, err := snapshot.First("#pass-label")
	require.NoError(t, err)

	card, err := base.Closest(".card")
	require.NoError(t, err)

	target, err := card.First("input")
	require.NoError(t, err)

	got := map[string]string{
		"tag": target.TagName(),
		"id":  target.Attr("id"),
	}
	want := map[string]string{
		"tag": "input",
		"id":  "pass-input",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resolved element mismatch (-want +got):\n%s", diff)
	}
}
