package cmd

import (
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	groupsDir       string
	groupsEcosystem string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the shared version properties of a project",
	Long: `Parse the project's manifests and print every property group:
each shared version property together with the dependencies whose
requirements are indirected through it.`,
	RunE: runGroups,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	groupsCmd.Flags().StringVar(&groupsDir, "dir", ".", "Project directory to inspect")
	groupsCmd.Flags().StringVar(&groupsEcosystem, "ecosystem", "",
		"Force an ecosystem instead of detecting one")
	rootCmd.AddCommand(groupsCmd)
}

func runGroups(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	service, err := buildService(cfg)
	if err != nil {
		return fmt.Errorf("failed to wire services: %w", err)
	}

	ecosystem, views, err := service.Groups(cfg, groupsDir, groupsEcosystem)
	if err != nil {
		return err
	}

	if len(views) == 0 {
		logger.Infof("[%s] no property-indirected dependencies found", ecosystem)
		return nil
	}

	logger.Infof("[%s] %d property group(s):", ecosystem, len(views))
	for _, view := range views {
		logger.Infof(
			"  %s: %s", view.Property, strings.Join(view.Dependencies, ", "),
		)
	}
	return nil
}
