package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pyscope/pkg/engine"
	"github.com/glorpus-work/pyscope/pkg/model"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var nameFilter string
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Long: `List the packages installed in the selected environment.

By default, shows all packages with installed version, latest known version
and status. Use --name to filter by name and --status to show only updated
or outdated packages.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, nameFilter, statusFilter)
		},
	}

	cmd.Flags().StringVar(&nameFilter, "name", "", "Filter packages by name (partial match)")
	cmd.Flags().StringVar(&statusFilter, "status", "all", "Filter by status (all, updated, outdated)")

	return cmd
}

func runList(cmd *cobra.Command, nameFilter, statusFilter string) error {
	mode, err := filterMode(statusFilter)
	if err != nil {
		return err
	}

	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.load(cmd.Context()); err != nil {
		return err
	}

	pkgs := app.engine.Filter(mode)
	if nameFilter != "" {
		filtered := pkgs[:0]
		for _, p := range pkgs {
			if strings.Contains(strings.ToLower(p.Name), strings.ToLower(nameFilter)) {
				filtered = append(filtered, p)
			}
		}
		pkgs = filtered
	}

	printPackages(pkgs)
	return nil
}

func filterMode(status string) (engine.FilterMode, error) {
	switch strings.ToLower(status) {
	case "", "all":
		return engine.FilterAll, nil
	case "updated":
		return engine.FilterUpdated, nil
	case "outdated":
		return engine.FilterOutdated, nil
	default:
		return "", fmt.Errorf("invalid status filter %q (expected all, updated or outdated)", status)
	}
}

func printPackages(pkgs []model.Package) {
	if len(pkgs) == 0 {
		fmt.Println("No packages found")
		return
	}

	fmt.Printf("%-30s %-15s %-15s %s\n", "PACKAGE NAME", "INSTALLED", "LATEST", "STATUS")
	fmt.Println(strings.Repeat("-", 75))
	for _, p := range pkgs {
		fmt.Printf("%-30s %-15s %-15s %s\n", p.Name, p.InstalledVersion, p.LatestVersion, p.Status)
	}
}
