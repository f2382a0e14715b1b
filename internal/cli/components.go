package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/loupe-ui/loupe/internal/registry"
)

// ComponentInfo is one catalog row in JSON output.
type ComponentInfo struct {
	Name        string `json:"name"`
	Scope       string `json:"scope"`
	Description string `json:"description,omitempty"`
	Previewable bool   `json:"previewable"`
}

// NewComponentsCommand creates the components command.
func NewComponentsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List the component catalog",
		Long: `List every registered component with its scope and description.

Examples:
  loupe components
  loupe components --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := catalog().All()

			infos := make([]ComponentInfo, 0, len(entries))
			for _, e := range entries {
				_, previewable := e.Preview()
				infos = append(infos, ComponentInfo{
					Name:        e.Name,
					Scope:       e.Scope,
					Description: e.Description,
					Previewable: previewable,
				})
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), infos)
			}
			return printComponentTable(cmd, infos)
		},
	}
}

func printComponentTable(cmd *cobra.Command, infos []ComponentInfo) error {
	if len(infos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No components registered.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCOPE\tNAME\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Scope, info.Name, info.Description)
	}
	return w.Flush()
}

// lookupComponent resolves a catalog entry or fails with a command
// error listing what exists.
func lookupComponent(name string) (registry.Entry, error) {
	e, ok := catalog().Lookup(name)
	if !ok {
		var names []string
		for _, entry := range catalog().All() {
			names = append(names, entry.Name)
		}
		return registry.Entry{}, NewExitError(ExitCommandError,
			fmt.Sprintf("unknown component %q: registered components are %v", name, names))
	}
	return e, nil
}
