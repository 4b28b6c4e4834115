// internal/steps/steps_test.go
package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/webdog/internal/browser"
	"github.com/xkilldash9x/webdog/internal/browser/dom"
	"github.com/xkilldash9x/webdog/internal/config"
	"github.com/xkilldash9x/webdog/internal/keys"
	"github.com/xkilldash9x/webdog/internal/poll"
)

// fakeDriver is an in-memory Driver that records every call and serves
// canned page state, so step pipelines are testable without a browser.
type fakeDriver struct {
	mu    sync.Mutex
	calls []string

	source     string
	urls       []string // successive Location results; the last repeats
	texts      []string // successive Text results; the last repeats
	attrValue  string
	attrOK     bool
	screenshot []byte

	urlIdx  int
	textIdx int
}

var _ browser.Driver = (*fakeDriver)(nil)

func (f *fakeDriver) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeDriver) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, call := range f.calls {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			count++
		}
	}
	return count
}

func (f *fakeDriver) Navigate(_ context.Context, url string) error {
	f.record("Navigate(%s)", url)
	return nil
}

func (f *fakeDriver) Location(context.Context) (string, error) {
	f.record("Location")
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.urls) == 0 {
		return "", nil
	}
	url := f.urls[f.urlIdx]
	if f.urlIdx < len(f.urls)-1 {
		f.urlIdx++
	}
	return url, nil
}

func (f *fakeDriver) PageSource(context.Context) (string, error) {
	f.record("PageSource")
	return f.source, nil
}

func (f *fakeDriver) WaitDisplayed(_ context.Context, selector string, _ time.Duration) error {
	f.record("WaitDisplayed(%s)", selector)
	return nil
}

func (f *fakeDriver) WaitClickable(_ context.Context, selector string, _ time.Duration) error {
	f.record("WaitClickable(%s)", selector)
	return nil
}

func (f *fakeDriver) Click(_ context.Context, selector string) error {
	f.record("Click(%s)", selector)
	return nil
}

func (f *fakeDriver) ClearInput(_ context.Context, selector string) error {
	f.record("ClearInput(%s)", selector)
	return nil
}

func (f *fakeDriver) SendKeys(_ context.Context, selector, text string) error {
	f.record("SendKeys(%s,%s)", selector, text)
	return nil
}

func (f *fakeDriver) PressKey(_ context.Context, code string) error {
	f.record("PressKey(%q)", code)
	return nil
}

func (f *fakeDriver) Text(_ context.Context, selector string) (string, error) {
	f.record("Text(%s)", selector)
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return "", nil
	}
	text := f.texts[f.textIdx]
	if f.textIdx < len(f.texts)-1 {
		f.textIdx++
	}
	return text, nil
}

func (f *fakeDriver) Attribute(_ context.Context, selector, name string) (string, bool, error) {
	f.record("Attribute(%s,%s)", selector, name)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attrValue, f.attrOK, nil
}

func (f *fakeDriver) Screenshot(context.Context) ([]byte, error) {
	f.record("Screenshot")
	return f.screenshot, nil
}

func newTestSteps(t *testing.T, drv browser.Driver) *Steps {
	t.Helper()
	cfg := config.Default()
	cfg.Wait.DisplayTimeout = 200 * time.Millisecond
	cfg.Wait.ClickableTimeout = 200 * time.Millisecond
	cfg.Wait.AssertionTimeout = 500 * time.Millisecond
	cfg.Wait.PollInterval = 10 * time.Millisecond
	cfg.Wait.ReadTimeout = 100 * time.Millisecond
	cfg.Artifacts.ScreenshotDir = t.TempDir()
	return New(drv, cfg, zaptest.NewLogger(t))
}

func TestClickElementScoped(t *testing.T) {
	drv := &fakeDriver{
		source: `<html><body><div class="card"><span id="x"></span></div></body></html>`,
	}
	s := newTestSteps(t, drv)

	err := s.clickElementInParent(context.Background(), "#x", ".card")
	require.NoError(t, err)

	xpath := `//*[@id='x']`
	assert.Equal(t, 1, drv.callCount("WaitDisplayed("+xpath+")"))
	assert.Equal(t, 1, drv.callCount("WaitClickable("+xpath+")"))
	assert.Equal(t, 1, drv.callCount("Click("+xpath+")"), "click must fire exactly once")
}

func TestClickElementUnscopedPassesSelectorThrough(t *testing.T) {
	drv := &fakeDriver{}
	s := newTestSteps(t, drv)

	err := s.clickElement(context.Background(), "#submit")
	require.NoError(t, err)

	// No snapshot needed without a parent selector.
	assert.Equal(t, 0, drv.callCount("PageSource"))
	assert.Equal(t, 1, drv.callCount("Click(#submit)"))
}

func TestClickElementAncestorNotFoundFailsFast(t *testing.T) {
	drv := &fakeDriver{
		source: `<html><body><div class="wrapper"><span id="x"></span></div></body></html>`,
	}
	s := newTestSteps(t, drv)

	err := s.clickElementInParent(context.Background(), "#x", ".card")
	require.Error(t, err)
	assert.ErrorIs(t, err, dom.ErrAncestorNotFound)
	assert.Contains(t, err.Error(), ".card")
	// No fallback to a document-wide search: nothing was clicked.
	assert.Equal(t, 0, drv.callCount("Click"))
}

func TestClickElementScopedWithChild(t *testing.T) {
	drv := &fakeDriver{
		source: `<html><body>
			<div class="card"><label id="a"></label><button class="save" id="save-a"></button></div>
			<div class="card"><label id="b"></label><button class="save" id="save-b"></button></div>
		</body></html>`,
	}
	s := newTestSteps(t, drv)

	err := s.clickElementInParentWithChild(context.Background(), ".save", ".card", "#b")
	require.NoError(t, err)
	assert.Equal(t, 1, drv.callCount(`Click(//*[@id='save-b'])`))
}

func TestEnterTextClearsBeforeTyping(t *testing.T) {
	drv := &fakeDriver{}
	s := newTestSteps(t, drv)

	err := s.enterText(context.Background(), "hello", "#field")
	require.NoError(t, err)

	require.Len(t, drv.calls, 3)
	assert.Equal(t, "WaitDisplayed(#field)", drv.calls[0])
	assert.Equal(t, "ClearInput(#field)", drv.calls[1])
	assert.Equal(t, "SendKeys(#field,hello)", drv.calls[2])
}

func TestClearElement(t *testing.T) {
	drv := &fakeDriver{}
	s := newTestSteps(t, drv)

	err := s.clearElement(context.Background(), "#field")
	require.NoError(t, err)
	assert.Equal(t, []string{"WaitDisplayed(#field)", "ClearInput(#field)"}, drv.calls)
}

func TestPressKeyUnsupportedSkipsDriver(t *testing.T) {
	drv := &fakeDriver{}
	s := newTestSteps(t, drv)

	err := s.pressKey(context.Background(), "PageDown")
	require.Error(t, err)
	assert.ErrorIs(t, err, keys.ErrUnsupportedKey)
	assert.Empty(t, drv.calls, "no driver interaction may be attempted")
}

func TestPressKeySupported(t *testing.T) {
	drv := &fakeDriver{}
	s := newTestSteps(t, drv)

	require.NoError(t, s.pressKey(context.Background(), "Enter"))
	assert.Equal(t, 1, drv.callCount("PressKey"))
}

func TestShouldBeOnPage(t *testing.T) {
	drv := &fakeDriver{urls: []string{"http://app/loading", "http://app/done"}}
	s := newTestSteps(t, drv)

	err := s.shouldBeOnPage(context.Background(), "http://app/done")
	require.NoError(t, err)
}

func TestShouldBeOnPageTimeout(t *testing.T) {
	drv := &fakeDriver{urls: []string{"http://app/loading"}}
	s := newTestSteps(t, drv)

	err := s.shouldBeOnPage(context.Background(), "http://app/done")
	require.Error(t, err)

	var timeoutErr *poll.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Contains(t, err.Error(), "http://app/done")
}

func TestShouldSeeTextAfterTransition(t *testing.T) {
	drv := &fakeDriver{texts: []string{"", "", "", "Saved"}}
	s := newTestSteps(t, drv)

	err := s.shouldSeeText(context.Background(), "Saved", "#status")
	require.NoError(t, err)
}

func TestShouldSeeTextTimeoutNamesExpectedAndSelector(t *testing.T) {
	drv := &fakeDriver{texts: []string{""}}
	s := newTestSteps(t, drv)

	err := s.shouldSeeText(context.Background(), "Saved", "#status")
	require.Error(t, err)

	var timeoutErr *poll.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Contains(t, err.Error(), `"Saved"`)
	assert.Contains(t, err.Error(), `"#status"`)
}

func TestShouldSeeTextFinalRecheckCatchesRegression(t *testing.T) {
	// The poll observes "Saved" on its first tick, then the value flips
	// back before the final re-check.
	drv := &fakeDriver{texts: []string{"Saved", ""}}
	s := newTestSteps(t, drv)

	err := s.shouldSeeText(context.Background(), "Saved", "#status")
	require.Error(t, err)

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	var timeoutErr *poll.TimeoutError
	assert.False(t, errors.As(err, &timeoutErr), "a regression is not a timeout")
	assert.Contains(t, err.Error(), `"Saved"`)
}

func TestShouldSeeTextScoped(t *testing.T) {
	drv := &fakeDriver{
		source: `<html><body><div class="card"><p id="msg"></p></div></body></html>`,
		texts:  []string{"operation Saved ok"},
	}
	s := newTestSteps(t, drv)

	err := s.shouldSeeTextInParent(context.Background(), "Saved", "#msg", ".card")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, drv.callCount(`Text(//*[@id='msg'])`), 1)
}

func TestShouldSeeAttribute(t *testing.T) {
	drv := &fakeDriver{attrValue: "badge badge-primary", attrOK: true}
	s := newTestSteps(t, drv)

	err := s.shouldSeeAttribute(context.Background(), "badge-primary", "class", "#flag")
	require.NoError(t, err)
}

func TestShouldSeeAttributeMissingTimesOut(t *testing.T) {
	drv := &fakeDriver{attrOK: false}
	s := newTestSteps(t, drv)

	err := s.shouldSeeAttribute(context.Background(), "ready", "data-state", "body")
	require.Error(t, err)

	var timeoutErr *poll.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Contains(t, err.Error(), `"data-state"`)
	assert.Contains(t, err.Error(), `"ready"`)
}

func TestTakeScreenshotDeterministicPath(t *testing.T) {
	drv := &fakeDriver{screenshot: []byte("png-bytes")}
	s := newTestSteps(t, drv)
	s.cfg.Artifacts.Version = "v2"
	s.scenarioURI = "features/login.feature"

	want := filepath.Join(s.cfg.Artifacts.ScreenshotDir, "v2", "login.png")

	require.NoError(t, s.takeScreenshot(context.Background()))
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	// Same inputs, same path: the second capture overwrites the first
	// and the existing directory is not an error.
	drv.screenshot = []byte("second")
	require.NoError(t, s.takeScreenshot(context.Background()))
	data, err = os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}
