// -- cmd/submit.go --
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formpilot-cli/internal/browser"
	"github.com/xkilldash9x/formpilot-cli/internal/engine"
	"github.com/xkilldash9x/formpilot-cli/internal/observability"
)

// newSubmitCmd creates and configures the `submit` command.
func newSubmitCmd() *cobra.Command {
	submitCmd := &cobra.Command{
		Use:   "submit [target]",
		Short: "Locates and triggers a form submission without filling anything",
		Long: `Submit runs the submission locator alone: explicit submit controls
first, then attribute-heuristic clickables, then programmatic form
submission. By default the first discovered form on the page is the scope;
--form overrides it with an explicit CSS selector. With --list the ranked
candidates are printed instead of being clicked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			formSelector, _ := cmd.Flags().GetString("form")
			list, _ := cmd.Flags().GetBool("list")

			return withSession(ctx, appConfig, logger, args[0], func(ctx context.Context, sess *browser.Session, eng *engine.Engine) error {
				if formSelector == "" {
					forms, err := eng.ScanForms(ctx, sess, engine.FilterAll)
					if err != nil {
						return err
					}
					if len(forms) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No forms found on the page.")
						return nil
					}
					formSelector = forms[0].Selector
				}

				if list {
					candidates, err := eng.FindSubmitCandidates(ctx, sess, formSelector)
					if err != nil {
						return err
					}
					if len(candidates) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No submission candidates found.")
						return nil
					}
					for i, c := range candidates {
						fmt.Fprintf(cmd.OutOrStdout(), "%d. [%s] %s %q\n", i+1, c.Kind, c.Selector, c.Text)
					}
					return nil
				}

				res := eng.Submit(ctx, sess, formSelector)
				if res.Succeeded {
					logger.Info("Submission triggered",
						zap.String("method", res.Method),
						zap.Int("attempted", res.Attempted),
					)
					if res.Candidate != nil {
						fmt.Fprintf(cmd.OutOrStdout(), "Submitted via %s (%s)\n", res.Method, res.Candidate.Selector)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "Submitted via %s\n", res.Method)
					}
					return nil
				}
				return fmt.Errorf("submission failed after %d attempts: %s", res.Attempted, res.Error)
			})
		},
	}

	submitCmd.Flags().String("form", "", "CSS selector of the form scope. Defaults to the first discovered form.")
	submitCmd.Flags().Bool("list", false, "List the ranked submission candidates instead of clicking.")

	return submitCmd
}
