package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loupe-ui/loupe/internal/element"
)

// PreviewResult is the preview payload in JSON output.
type PreviewResult struct {
	Name     string `json:"name"`
	Rendered string `json:"rendered"`
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <component>",
		Short: "Render a component's catalog preview",
		Long: `Render the representative example a component registered in the catalog.

Components without a preview are listed by 'loupe components' but
cannot be previewed.

Examples:
  loupe preview list_item
  loupe preview disclosure --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := lookupComponent(args[0])
			if err != nil {
				return err
			}

			el, ok := entry.Preview()
			if !ok {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("component %q has no preview", entry.Name))
			}
			rendered := element.Render(el)

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), PreviewResult{
					Name:     entry.Name,
					Rendered: rendered,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}
