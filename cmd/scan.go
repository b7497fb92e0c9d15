// -- cmd/scan.go --
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formpilot-cli/internal/browser"
	"github.com/xkilldash9x/formpilot-cli/internal/engine"
	"github.com/xkilldash9x/formpilot-cli/internal/observability"
)

// newScanCmd creates and configures the `scan` command.
func newScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [target]",
		Short: "Discovers and classifies the forms on a page without touching them",
		Long: `Scan navigates to the target page, harvests every form (and loose
fillable controls outside any form), classifies each field's semantic role
from its name, id, placeholder and type attributes, and prints the resulting
descriptors. Nothing on the page is modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			filterFlag, _ := cmd.Flags().GetString("target")
			filter, err := parseTargetFilter(filterFlag)
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")
			screenshot, _ := cmd.Flags().GetString("screenshot")

			return withSession(ctx, appConfig, logger, args[0], func(ctx context.Context, sess *browser.Session, eng *engine.Engine) error {
				forms, err := eng.ScanForms(ctx, sess, filter)
				if err != nil {
					return err
				}
				logger.Info("Form scan complete",
					zap.Int("forms", len(forms)),
					zap.String("filter", string(filter)),
				)

				printForms(cmd.OutOrStdout(), forms)

				if output != "" {
					if err := writeJSON(output, forms); err != nil {
						return err
					}
					logger.Info("Scan report written", zap.String("path", output))
				}
				if screenshot != "" {
					if err := saveScreenshot(ctx, sess, screenshot, logger); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	scanCmd.Flags().StringP("target", "t", "all", "Form category to report: 'all', 'contact' or 'auth'.")
	scanCmd.Flags().StringP("output", "o", "", "Output file path for the JSON scan report. If unset, no report is written.")
	scanCmd.Flags().String("screenshot", "", "Capture a screenshot of the page to this path after scanning.")

	return scanCmd
}

// printForms renders a human-readable summary of the discovered forms.
func printForms(w io.Writer, forms []engine.FormDescriptor) {
	if len(forms) == 0 {
		fmt.Fprintln(w, "No matching forms found on the page.")
		return
	}

	for i, form := range forms {
		fmt.Fprintf(w, "\nForm %d: %s\n", i+1, form.Selector)
		if form.Implicit {
			fmt.Fprintln(w, "  (implicit scope: loose controls outside any <form>)")
		}
		if form.Action != "" {
			fmt.Fprintf(w, "  action: %s %s\n", form.Method, form.Action)
		}
		fmt.Fprintf(w, "  contact=%t auth=%t fields=%d\n", form.IsContactForm, form.IsAuthForm, len(form.Fields))
		for _, field := range form.Fields {
			req := ""
			if field.Required {
				req = " (required)"
			}
			fmt.Fprintf(w, "    [%-10s] %s%s\n", field.Role, field.Selector, req)
		}
	}
	fmt.Fprintln(w)
}
