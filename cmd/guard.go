package cmd

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	guardDir       string
	guardName      string
	guardEcosystem string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Check whether a dependency is blocked by a shared version property",
	Long: `Run only the conservative veto check: report whether the dependency's
version property is shared with another dependency, which would make a
standalone update unsafe. No coordinated rewrite is attempted.`,
	RunE: runGuard,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	guardCmd.Flags().StringVar(&guardDir, "dir", ".", "Project directory to inspect")
	guardCmd.Flags().StringVar(&guardName, "name", "", "Dependency name")
	guardCmd.Flags().StringVar(&guardEcosystem, "ecosystem", "",
		"Force an ecosystem instead of detecting one")
	_ = guardCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(guardCmd)
}

func runGuard(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	service, err := buildService(cfg)
	if err != nil {
		return fmt.Errorf("failed to wire services: %w", err)
	}

	blocked, err := service.Guard(cfg, guardDir, guardEcosystem, guardName)
	if err != nil {
		return err
	}

	if blocked {
		logger.Warnf(
			"%s shares a version property with another dependency; a standalone update is unsafe",
			guardName,
		)
	} else {
		logger.Infof("%s is independently resolvable", guardName)
	}
	return nil
}
