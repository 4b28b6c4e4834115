// cmd/webdog/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cucumber/godog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/webdog/internal/browser"
	"github.com/xkilldash9x/webdog/internal/config"
	"github.com/xkilldash9x/webdog/internal/observability"
	"github.com/xkilldash9x/webdog/internal/steps"
)

func main() {
	// Listen for interrupt signals so a Ctrl+C tears the browser down.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

// NewRootCommand builds the webdog CLI. A fresh instance per invocation
// keeps flag state from leaking between runs.
func NewRootCommand() *cobra.Command {
	var (
		configPath string
		headless   bool
		tags       string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "webdog [feature files or directories...]",
		Short: "Run Gherkin feature files against a Chrome browser",
		Long: `webdog executes Cucumber feature files written with the webdog step
catalog against a headless (or headful) Chrome instance.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return err
			}
			if cmd.Flags().Changed("headless") {
				cfg.Browser.Headless = headless
			}

			observability.InitializeLogger(cfg.Logger)
			logger := observability.GetLogger()

			return runSuite(cmd.Context(), cfg, logger, args, tags, format)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file")
	cmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "tag expression to filter scenarios")
	cmd.Flags().StringVarP(&format, "format", "f", "pretty", "godog output format")

	return cmd
}

// runSuite starts one browser session and drives the godog suite
// against it. Scenarios run serially; the session is shared.
func runSuite(ctx context.Context, cfg *config.Config, logger *zap.Logger, paths []string, tags, format string) error {
	if len(paths) == 0 {
		paths = []string{"features"}
	}

	session := browser.NewSession(cfg, logger)
	if err := session.Start(ctx); err != nil {
		logger.Error("Failed to start browser session.", zap.Error(err))
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Failed to close browser session.", zap.Error(err))
		}
	}()

	catalog := steps.New(session, cfg, logger)

	suite := godog.TestSuite{
		Name: "webdog",
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			catalog.Register(sc)
		},
		Options: &godog.Options{
			Format:         format,
			Paths:          paths,
			Tags:           tags,
			Strict:         true,
			Concurrency:    1,
			DefaultContext: ctx,
		},
	}

	if status := suite.Run(); status != 0 {
		return fmt.Errorf("test suite finished with status %d", status)
	}
	return nil
}
