package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pyscope/pkg/config"
)

// NewConfigCmd creates the config command with its subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit()
		},
	})

	return cmd
}

func runConfigShow() error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := cfg.ToYAML()
	if err != nil {
		return err
	}

	fmt.Printf("# %s\n", path)
	fmt.Print(string(data))
	return nil
}

func runConfigInit() error {
	_, path, err := loadConfig()
	if err != nil {
		return err
	}

	if err := config.DefaultConfig().SaveConfig(path); err != nil {
		return err
	}
	fmt.Printf("Wrote default config to %s\n", path)
	return nil
}
