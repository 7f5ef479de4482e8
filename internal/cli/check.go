package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pyscope/pkg/engine"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [package...]",
		Short: "Check for available updates",
		Long: `Check the registry for newer versions of installed packages.

With no arguments, every installed package is checked. With package names,
only those packages are checked, bypassing the per-package rate limit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args)
		},
	}

	return cmd
}

func runCheck(cmd *cobra.Command, names []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.load(cmd.Context()); err != nil {
		return err
	}

	if len(names) > 0 {
		for _, name := range names {
			app.engine.CheckSingle(cmd.Context(), name)
			done, err := app.waitFor(cmd.Context(), engine.EventOperationFinished)
			if err != nil {
				return err
			}
			if done.Err != "" {
				fmt.Printf("%s: %s\n", name, done.Err)
			}
		}
	} else {
		if !app.engine.CheckUpdates(cmd.Context()) {
			return fmt.Errorf("update check refused")
		}
		if _, err := app.waitFor(cmd.Context(), engine.EventCheckFinished); err != nil {
			return err
		}
	}

	printPackages(app.engine.Filter(engine.FilterAll))

	total, outdated := app.engine.Counts()
	fmt.Printf("\n%d packages, %d outdated\n", total, outdated)
	return nil
}
