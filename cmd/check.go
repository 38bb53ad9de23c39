package cmd

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prashuchaudhary/dependabot-core/application"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	checkDir       string
	checkName      string
	checkCandidate string
	checkEcosystem string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a dependency can be updated to a candidate version",
	Long: `Parse the project's manifests, detect whether the dependency's
version is indirected through a shared property, and answer whether
the candidate version is acceptable.

For property-indirected dependencies under full coordination, the whole
property group is validated and one update plan per grouped dependency
is printed: all of them, or none.`,
	RunE: runCheck,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	checkCmd.Flags().StringVar(&checkDir, "dir", ".", "Project directory to inspect")
	checkCmd.Flags().StringVar(&checkName, "name", "", "Dependency name (e.g. org.apache:commons-lang3)")
	checkCmd.Flags().StringVar(&checkCandidate, "to", "", "Candidate version to validate")
	checkCmd.Flags().StringVar(&checkEcosystem, "ecosystem", "",
		"Force an ecosystem (maven, terraform, cargo, npm, gomod) instead of detecting one")
	_ = checkCmd.MarkFlagRequired("name")
	_ = checkCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	service, err := buildService(cfg)
	if err != nil {
		return fmt.Errorf("failed to wire services: %w", err)
	}

	result, err := service.Check(ctx, cfg, application.CheckOptions{
		Dir:            checkDir,
		DependencyName: checkName,
		Candidate:      checkCandidate,
		EcosystemName:  checkEcosystem,
		Verbose:        verbose,
		DryRun:         dryRun,
	})
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(result *application.CheckResult) {
	switch {
	case result.Direct:
		logger.Infof(
			"[%s] %s is declared with a literal version; a direct edit is safe",
			result.Ecosystem, checkName,
		)
	case result.Blocked:
		logger.Warnf(
			"[%s] %s cannot be updated on its own: its version property is shared",
			result.Ecosystem, checkName,
		)
	case result.Rejected:
		logger.Warnf("[%s] update rejected: %s", result.Ecosystem, result.Reason)
	default:
		if result.DryRun {
			logger.Infof(
				"[%s] dry run: coordinated update to %s would cover %d dependencies:",
				result.Ecosystem, checkCandidate, len(result.Plans),
			)
		} else {
			logger.Infof(
				"[%s] coordinated update to %s accepted, %d dependencies in the group:",
				result.Ecosystem, checkCandidate, len(result.Plans),
			)
		}
		for _, plan := range result.Plans {
			logger.Infof(
				"  %s: %s -> %s (%s: %q -> %q)",
				plan.Name, plan.PreviousVersion, plan.Version,
				plan.File, plan.PreviousVersionText, plan.NewVersionText,
			)
		}
	}
}
