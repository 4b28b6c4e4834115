// internal/steps/steps.go

// Package steps binds the Gherkin phrase catalog to the browser driver.
// Every handler follows the same pipeline: optionally resolve a scoped
// target (closest matching parent, then descendant), then either perform
// one action or run a bounded polling assertion with an explicit final
// re-check.
package steps

import (
	"context"

	"github.com/cucumber/godog"
	"go.uber.org/zap"

	"github.com/xkilldash9x/webdog/internal/browser"
	"github.com/xkilldash9x/webdog/internal/config"
)

// Steps carries the execution context threaded into every handler: the
// driver session, the configuration budgets, and the currently executing
// scenario's source location. The runner serializes scenarios, so one
// Steps value serves the whole suite.
type Steps struct {
	drv    browser.Driver
	cfg    *config.Config
	logger *zap.Logger

	// scenarioURI is the feature file of the scenario in flight, set by
	// the Before hook. Screenshot names derive from it.
	scenarioURI string
}

// New creates the step catalog around a driver.
func New(drv browser.Driver, cfg *config.Config, logger *zap.Logger) *Steps {
	return &Steps{
		drv:    drv,
		cfg:    cfg,
		logger: logger.Named("steps"),
	}
}

// Register binds every supported phrase onto the scenario context.
func (s *Steps) Register(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, scn *godog.Scenario) (context.Context, error) {
		s.scenarioURI = scn.Uri
		s.logger.Debug("Starting scenario.", zap.String("name", scn.Name), zap.String("uri", scn.Uri))
		return ctx, nil
	})

	sc.Step(`^I open the "([^"]*)" page$`, s.openPage)
	sc.Step(`^I press key "([^"]*)"$`, s.pressKey)
	sc.Step(`^I take a screenshot$`, s.takeScreenshot)

	sc.Step(`^I click element "([^"]*)"$`, s.clickElement)
	sc.Step(`^I click element "([^"]*)" in closest parent "([^"]*)"$`, s.clickElementInParent)
	sc.Step(`^I click element "([^"]*)" in closest parent "([^"]*)" with child "([^"]*)"$`, s.clickElementInParentWithChild)

	sc.Step(`^I clear element "([^"]*)"$`, s.clearElement)
	sc.Step(`^I clear element "([^"]*)" in closest parent "([^"]*)"$`, s.clearElementInParent)
	sc.Step(`^I clear element "([^"]*)" in closest parent "([^"]*)" with child "([^"]*)"$`, s.clearElementInParentWithChild)

	sc.Step(`^I enter "([^"]*)" into element "([^"]*)"$`, s.enterText)
	sc.Step(`^I enter "([^"]*)" into element "([^"]*)" in closest parent "([^"]*)"$`, s.enterTextInParent)
	sc.Step(`^I enter "([^"]*)" into element "([^"]*)" in closest parent "([^"]*)" with child "([^"]*)"$`, s.enterTextInParentWithChild)

	sc.Step(`^I should be on the "([^"]*)" page$`, s.shouldBeOnPage)
	sc.Step(`^I should see "([^"]*)" in element "([^"]*)"$`, s.shouldSeeText)
	sc.Step(`^I should see "([^"]*)" in element "([^"]*)" in closest parent "([^"]*)"$`, s.shouldSeeTextInParent)
	sc.Step(`^I should see "([^"]*)" in element "([^"]*)" in closest parent "([^"]*)" with child "([^"]*)"$`, s.shouldSeeTextInParentWithChild)
	sc.Step(`^I should see "([^"]*)" in attribute "([^"]*)" of element "([^"]*)"$`, s.shouldSeeAttribute)
}

// openPage navigates the session to the given URL.
func (s *Steps) openPage(ctx context.Context, url string) error {
	return s.drv.Navigate(ctx, url)
}
