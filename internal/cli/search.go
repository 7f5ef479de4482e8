package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pyscope/pkg/engine"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var localOnly bool

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search for packages",
		Long: `Search the registry for packages matching a term.

Results that are already installed in the selected environment are marked.
Use --local to search only the installed packages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], localOnly)
		},
	}

	cmd.Flags().BoolVar(&localOnly, "local", false, "Search installed packages only")

	return cmd
}

func runSearch(cmd *cobra.Command, term string, localOnly bool) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.load(cmd.Context()); err != nil {
		return err
	}

	if localOnly {
		printPackages(app.engine.SearchLocal(term))
		return nil
	}

	if err := app.engine.Search(cmd.Context(), term); err != nil {
		return err
	}
	done, err := app.waitFor(cmd.Context(), engine.EventSearchFinished)
	if err != nil {
		return err
	}

	if len(done.Results) == 0 {
		fmt.Printf("No packages found for %q\n", term)
		return nil
	}

	fmt.Printf("%-30s %-15s %-10s %s\n", "PACKAGE NAME", "VERSION", "INSTALLED", "SUMMARY")
	fmt.Println(strings.Repeat("-", 90))
	for _, r := range done.Results {
		installed := ""
		if r.Installed {
			installed = r.InstalledVersion
		}
		fmt.Printf("%-30s %-15s %-10s %s\n", r.Name, r.Version, installed, r.Summary)
	}
	return nil
}
