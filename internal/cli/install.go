package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pyscope/pkg/engine"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var pinVersion string

	cmd := &cobra.Command{
		Use:   "install <package>",
		Short: "Install a package",
		Long: `Install a package into the selected environment via pip.

Use --version to pin a specific version; otherwise the latest release is
installed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args[0], pinVersion)
		},
	}

	cmd.Flags().StringVar(&pinVersion, "version", "", "Install a specific version")

	return cmd
}

func runInstall(cmd *cobra.Command, name, pinVersion string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.load(cmd.Context()); err != nil {
		return err
	}

	if err := app.engine.Install(cmd.Context(), name, pinVersion); err != nil {
		return err
	}
	done, err := app.waitFor(cmd.Context(), engine.EventOperationFinished)
	if err != nil {
		return err
	}
	if done.Err != "" {
		return fmt.Errorf("install failed: %s", done.Err)
	}

	if pkg, ok := app.engine.PackageByName(name); ok {
		fmt.Printf("Installed %s %s\n", pkg.Name, pkg.InstalledVersion)
	} else {
		fmt.Printf("Installed %s\n", name)
	}
	return nil
}
