package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewEnvsCmd creates the envs command with its subcommands.
func NewEnvsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "envs",
		Short: "Manage Python environments",
		Long: `List the discovered Python environments and select the one pip
operations run against. The selection is persisted in the config file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnvsList(cmd)
		},
	}

	cmd.AddCommand(newEnvsUseCmd())

	return cmd
}

func newEnvsUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Select an environment by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvsUse(cmd, args[0])
		},
	}
}

func runEnvsList(cmd *cobra.Command) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	all := app.envs.All()
	if len(all) == 0 {
		fmt.Println("No Python environments found")
		return nil
	}

	currentID := app.envs.CurrentID()

	fmt.Printf("%-2s %-16s %-10s %-20s %-10s %s\n", "", "ID", "KIND", "NAME", "PYTHON", "INTERPRETER")
	fmt.Println(strings.Repeat("-", 100))
	for _, env := range all {
		marker := ""
		if env.ID == currentID {
			marker = "*"
		}
		fmt.Printf("%-2s %-16s %-10s %-20s %-10s %s\n",
			marker, env.ID, env.Kind, env.Name, env.PythonVersion, env.InterpreterPath)
	}
	return nil
}

func runEnvsUse(cmd *cobra.Command, id string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	env, ok := app.envs.FindByID(id)
	if !ok {
		return fmt.Errorf("no environment with ID %q (run 'pyscope envs' to list)", id)
	}
	app.envs.SetCurrent(env)

	app.cfg.Settings.SelectedEnv = env.ID
	if err := app.cfg.SaveConfig(app.configPath); err != nil {
		return err
	}

	fmt.Printf("Selected %s (%s, Python %s)\n", env.Name, env.Kind, env.PythonVersion)
	return nil
}
