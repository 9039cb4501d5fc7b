package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  "Prints configuration after .env and environment overrides. The password is masked.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	shown := *cfg
	if shown.Auth.Password != "" {
		shown.Auth.Password = "********"
	}

	out, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%sfaqbot config%s\n", colorBold, colorReset)
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
