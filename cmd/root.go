// Package cmd wires the viewpoint CLI: parse pages, generate test cases,
// run them against a browser, and report the results.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ciciliostudio/viewpoint/internal/browser"
	"github.com/ciciliostudio/viewpoint/internal/config"
	"github.com/ciciliostudio/viewpoint/internal/history"
	"github.com/ciciliostudio/viewpoint/internal/logging"
	"github.com/ciciliostudio/viewpoint/internal/store"
)

var (
	vpConfig *config.Config
	vpLoader *config.Loader
)

var rootCmd = &cobra.Command{
	Use:   "viewpoint",
	Short: "Viewpoint - browser test authoring",
	Long: `Viewpoint parses web pages into typed element trees, generates test
cases from them using boundary, equivalence and negative value tables, and
executes the cases against a live browser.

Typical flow:
  viewpoint parse https://example.com/signup
  viewpoint generate <structure-id> --nodes element_3,element_5
  viewpoint run <case-id>
  viewpoint report <execution-id> --format html`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("project", "p", ".", "project directory")
	rootCmd.PersistentFlags().StringP("env", "e", "", "environment to use")
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
}

// initConfig bootstraps logging and loads the project configuration before
// any command runs.
func initConfig() {
	projectDir, _ := rootCmd.PersistentFlags().GetString("project")
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")

	if err := logging.Initialize(projectDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	} else {
		logging.RedirectStandardLog()
	}
	if verbose {
		logging.GetLogger().SetLevel(logging.DEBUG)
	}

	vpLoader = config.NewLoader(projectDir)
	cfg, err := vpLoader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	vpConfig = cfg

	if env, _ := rootCmd.PersistentFlags().GetString("env"); env != "" {
		if _, exists := vpConfig.Envs[env]; exists {
			vpConfig.Current = env
		} else {
			fmt.Fprintf(os.Stderr, "Warning: unknown environment %q, keeping %q\n", env, vpConfig.Current)
		}
	}
	logging.Info("using environment: %s", vpConfig.Current)
}

// openStore opens the project's JSON document store.
func openStore() *store.Store {
	return store.New(vpLoader.Resolve(vpConfig.Data.Dir))
}

// openHistory opens the run-history index.
func openHistory() (*history.Index, error) {
	return history.Open(vpLoader.Resolve(vpConfig.Data.HistoryDB))
}

// newDriver starts a Chrome session configured from the project config.
func newDriver(ctx context.Context) (browser.PageDriver, error) {
	return browser.NewChromeDriver(browser.Options{
		Headless:      vpConfig.Browser.Headless,
		ChromePath:    vpConfig.Browser.ChromePath,
		ScreenshotDir: vpLoader.Resolve(vpConfig.Data.ScreenshotDir),
		WindowWidth:   vpConfig.Browser.WindowWidth,
		WindowHeight:  vpConfig.Browser.WindowHeight,
	})
}
