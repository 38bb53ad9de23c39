package cmd

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prashuchaudhary/dependabot-core/config"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	configPath string
	verbose    bool
	dryRun     bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "depcore",
	Short: "Shared-version-property update engine for dependency manifests",
	Long: `A dependency update checker built around the hard case: manifests
where a version is not a literal string but a reference to a shared,
named property (a Maven ${some.version} property, a Terraform local,
a Cargo workspace entry).

Updating one such dependency silently updates every dependency that
shares the property. This tool detects the sharing relation, validates
a candidate version against the whole group, and emits an all-or-nothing
set of manifest edits, or refuses, so a caller can never produce an
inconsistent manifest.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c", "",
		"Path to the configuration file (default: search standard locations)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Enable verbose output",
	)
	rootCmd.PersistentFlags().BoolVar(
		&dryRun, "dry-run", false,
		"Compute and print update plans without reporting them as applied",
	)
}

// loadConfig resolves the configuration: explicit path, then standard
// locations, then built-in defaults.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			logger.Debug("no config file found, using defaults")
			return config.Default(), nil
		}
		path = found
	}

	logger.Infof("Using config file: %s", path)
	return config.Load(path)
}
