// -- cmd/fill.go --
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

// formOutcome is the per-form record emitted in the JSON fill report.
type formOutcome struct {
	Form    engine.FormDescriptor `json:"form"`
	Results []engine.FillResult   `json:"results"`
	Filled  int                   `json:"filled"`
	Submit  *engine.SubmitResult  `json:"submit,omitempty"`
}

// newFillCmd creates and configures the `fill` command.
func newFillCmd() *cobra.Command {
	fillCmd := &cobra.Command{
		Use:   "fill [target]",
		Short: "Fills every discovered form with role-appropriate values, verifying each field",
		Long: `Fill scans the target page, then types a plausible value into every
fillable field of every matching form: safe static literals chosen by the
field's classified role, or the configured credentials for auth forms. Each
field is verified by reading its value back; a mismatch triggers one
direct-set retry before being recorded as a failure.

With --submit, the first form that had at least one field filled is also
submitted through the prioritized fallback chain (explicit submit controls,
heuristic clickables, programmatic form submission).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			filterFlag, _ := cmd.Flags().GetString("target")
			filter, err := parseTargetFilter(filterFlag)
			if err != nil {
				return err
			}
			submit, _ := cmd.Flags().GetBool("submit")
			output, _ := cmd.Flags().GetString("output")
			screenshot, _ := cmd.Flags().GetString("screenshot")

			// An auth-targeted run without credentials would type test
			// literals into a login form; refuse up front instead.
			if filter == engine.FilterAuth {
				if err := appConfig.RequireCredentials(); err != nil {
					return err
				}
			}

			return withSession(ctx, appConfig, logger, args[0], func(ctx context.Context, sess *browser.Session, eng *engine.Engine) error {
				forms, err := eng.ScanForms(ctx, sess, filter)
				if err != nil {
					return err
				}
				if len(forms) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No matching forms found on the page.")
					return nil
				}

				outcomes := make([]formOutcome, 0, len(forms))
				for _, form := range forms {
					logger.Info("Filling form",
						zap.String("selector", form.Selector),
						zap.Int("fields", len(form.Fields)),
						zap.Bool("auth", form.IsAuthForm),
					)
					results, filled := eng.FillForm(ctx, sess, form)
					outcomes = append(outcomes, formOutcome{Form: form, Results: results, Filled: filled})
				}

				// Submission usually navigates away, invalidating every other
				// descriptor, so it runs after all filling and only the first
				// form that had a field filled gets it.
				if submit {
					for i := range outcomes {
						if outcomes[i].Filled == 0 {
							continue
						}
						res := eng.Submit(ctx, sess, outcomes[i].Form.Selector)
						outcomes[i].Submit = &res
						break
					}
				}

				printOutcomes(cmd.OutOrStdout(), outcomes)

				if screenshot != "" {
					if err := saveScreenshot(ctx, sess, screenshot, logger); err != nil {
						return err
					}
				}
				if output != "" {
					if err := writeJSON(output, outcomes); err != nil {
						return err
					}
					logger.Info("Fill report written", zap.String("path", output))
				}
				return nil
			})
		},
	}

	fillCmd.Flags().StringP("target", "t", "all", "Form category to fill: 'all', 'contact' or 'auth'.")
	fillCmd.Flags().Bool("submit", false, "Submit the first form that had at least one field filled.")
	fillCmd.Flags().StringP("output", "o", "", "Output file path for the JSON fill report. If unset, no report is written.")
	fillCmd.Flags().String("screenshot", "", "Capture a screenshot of the page to this path after filling.")

	return fillCmd
}

// printOutcomes renders a human-readable fill summary.
func printOutcomes(w io.Writer, outcomes []formOutcome) {
	for i, o := range outcomes {
		fmt.Fprintf(w, "\nForm %d: %s (%d/%d fields filled)\n", i+1, o.Form.Selector, o.Filled, len(o.Results))
		for _, r := range o.Results {
			if r.Succeeded {
				fmt.Fprintf(w, "  ok    %s\n", r.Selector)
			} else {
				fmt.Fprintf(w, "  FAIL  %s: %s\n", r.Selector, r.Error)
			}
		}
		if o.Submit != nil {
			if o.Submit.Succeeded {
				fmt.Fprintf(w, "  submitted via %s", o.Submit.Method)
				if o.Submit.Candidate != nil {
					fmt.Fprintf(w, " (%s)", o.Submit.Candidate.Selector)
				}
				fmt.Fprintln(w)
			} else {
				fmt.Fprintf(w, "  submission FAILED after %d attempts: %s\n", o.Submit.Attempted, o.Submit.Error)
			}
		}
	}
	fmt.Fprintln(w)
}
