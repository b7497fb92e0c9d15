// -- cmd/sections.go --
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

// newSectionsCmd creates and configures the `sections` command.
func newSectionsCmd() *cobra.Command {
	sectionsCmd := &cobra.Command{
		Use:   "sections [target]",
		Short: "Locates contact and auth sections on a page (advisory only)",
		Long: `Sections reports where on the target page a contact or authentication
area appears to live: container regions whose id, class or heading text
matches the category keywords, links that likely lead there, and forms of
that category. The report is advisory; nothing on the page is touched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			category, _ := cmd.Flags().GetString("category")
			output, _ := cmd.Flags().GetString("output")

			wantContact := category == "both" || category == "contact"
			wantAuth := category == "both" || category == "auth"
			if !wantContact && !wantAuth {
				return fmt.Errorf("invalid --category value %q (expected contact, auth or both)", category)
			}

			return withSession(ctx, appConfig, logger, args[0], func(ctx context.Context, sess *browser.Session, eng *engine.Engine) error {
				var reports []engine.SectionReport
				if wantContact {
					report, err := eng.FindContactSections(ctx, sess)
					if err != nil {
						return err
					}
					reports = append(reports, report)
				}
				if wantAuth {
					report, err := eng.FindAuthSections(ctx, sess)
					if err != nil {
						return err
					}
					reports = append(reports, report)
				}

				for _, report := range reports {
					logger.Info("Section scan complete",
						zap.String("category", report.Category),
						zap.Int("regions", len(report.Regions)),
						zap.Int("links", len(report.Links)),
						zap.Int("forms", len(report.Forms)),
					)
					printSectionReport(cmd.OutOrStdout(), report)
				}

				if output != "" {
					if err := writeJSON(output, reports); err != nil {
						return err
					}
					logger.Info("Section report written", zap.String("path", output))
				}
				return nil
			})
		},
	}

	sectionsCmd.Flags().String("category", "both", "Section category to locate: 'contact', 'auth' or 'both'.")
	sectionsCmd.Flags().StringP("output", "o", "", "Output file path for the JSON section report. If unset, no report is written.")

	return sectionsCmd
}

// printSectionReport renders a human-readable section summary.
func printSectionReport(w io.Writer, report engine.SectionReport) {
	fmt.Fprintf(w, "\n%s sections:\n", report.Category)
	if len(report.Regions) == 0 && len(report.Links) == 0 && len(report.Forms) == 0 {
		fmt.Fprintln(w, "  nothing found")
		return
	}
	for _, region := range report.Regions {
		fmt.Fprintf(w, "  region  <%s> %s\n", region.Tag, region.Selector)
	}
	for _, link := range report.Links {
		fmt.Fprintf(w, "  link    %s -> %s\n", link.Selector, link.Href)
	}
	for _, form := range report.Forms {
		fmt.Fprintf(w, "  form    %s (%d fields)\n", form.Selector, len(form.Fields))
	}
}
