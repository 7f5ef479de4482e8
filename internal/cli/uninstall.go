package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pyscope/pkg/engine"
)

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall <package>",
		Short: "Uninstall a package",
		Long:  "Remove a package from the selected environment via pip.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(cmd, args[0])
		},
	}

	return cmd
}

func runUninstall(cmd *cobra.Command, name string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.load(cmd.Context()); err != nil {
		return err
	}

	if _, ok := app.engine.PackageByName(name); !ok {
		return fmt.Errorf("package %q is not installed", name)
	}

	if err := app.engine.Uninstall(cmd.Context(), name); err != nil {
		return err
	}
	done, err := app.waitFor(cmd.Context(), engine.EventOperationFinished)
	if err != nil {
		return err
	}
	if done.Err != "" {
		return fmt.Errorf("uninstall failed: %s", done.Err)
	}

	fmt.Printf("Uninstalled %s\n", name)
	return nil
}
