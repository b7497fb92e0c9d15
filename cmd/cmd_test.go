// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/formpilot-cli/internal/config"
	"github.com/xkilldash9x/formpilot-cli/internal/engine"
)

// newTestRootCmd builds a fresh, isolated command tree without the config
// and logger bootstrap, for flag and argument validation tests.
func newTestRootCmd() *cobra.Command {
	testRootCmd := &cobra.Command{Use: "formpilot-cli"}
	testRootCmd.AddCommand(newScanCmd())
	testRootCmd.AddCommand(newFillCmd())
	testRootCmd.AddCommand(newSubmitCmd())
	testRootCmd.AddCommand(newSectionsCmd())
	return testRootCmd
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	testRootCmd := newTestRootCmd()

	buf := new(bytes.Buffer)
	testRootCmd.SetOut(buf)
	testRootCmd.SetErr(buf)
	testRootCmd.SetArgs(args)
	err := testRootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestScanCmd_RequiredArgs(t *testing.T) {
	output, err := executeCommand(t, "scan")
	require.Error(t, err)
	assert.Contains(t, output, "accepts 1 arg(s), received 0")
}

func TestFillCmd_RequiredArgs(t *testing.T) {
	_, err := executeCommand(t, "fill")
	require.Error(t, err)
}

func TestSubmitCmd_RequiredArgs(t *testing.T) {
	_, err := executeCommand(t, "submit")
	require.Error(t, err)
}

func TestScanCmd_InvalidTargetFilter(t *testing.T) {
	// The filter is validated before any browser work starts.
	_, err := executeCommand(t, "scan", "--target", "bogus", "http://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --target value")
}

func TestSectionsCmd_InvalidCategory(t *testing.T) {
	_, err := executeCommand(t, "sections", "--category", "bogus", "http://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --category value")
}

func TestFillCmd_AuthTargetRequiresCredentials(t *testing.T) {
	// An auth-targeted fill must refuse before touching the browser when no
	// credentials are configured.
	prev := appConfig
	appConfig = config.NewDefaultConfig()
	defer func() { appConfig = prev }()

	_, err := executeCommand(t, "fill", "--target", "auth", "http://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORMPILOT_AUTH_USERNAME")
}

func TestParseTargetFilter(t *testing.T) {
	testCases := []struct {
		in       string
		expected engine.TargetFilter
		wantErr  bool
	}{
		{in: "", expected: engine.FilterAll},
		{in: "all", expected: engine.FilterAll},
		{in: "Contact", expected: engine.FilterContact},
		{in: "AUTH", expected: engine.FilterAuth},
		{in: "login", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := parseTargetFilter(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.expected, got, "input %q", tc.in)
	}
}

func TestEngineConfigMapping(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Engine.WaitTimeout = 3 * time.Second
	cfg.Engine.KeyInterval = 5 * time.Millisecond
	cfg.Auth.Username = "tester"
	cfg.Auth.Password = "hunter2"

	ec := engineConfig(cfg)
	assert.Equal(t, 3*time.Second, ec.WaitTimeout)
	assert.Equal(t, 5*time.Millisecond, ec.Pacing.KeyInterval)
	assert.Equal(t, cfg.Engine.SettleWait, ec.Pacing.SettleWait)
	assert.True(t, ec.Credentials.Set())
}

func TestPrintForms(t *testing.T) {
	forms := []engine.FormDescriptor{
		{
			Selector:      "#contact-form",
			Action:        "/contact",
			Method:        "post",
			IsContactForm: true,
			Fields: []engine.FieldDescriptor{
				{Role: engine.RoleEmail, Selector: "#email", Required: true},
				{Role: engine.RoleMessage, Selector: "#contact-form textarea:nth-of-type(1)"},
			},
		},
	}

	buf := new(bytes.Buffer)
	printForms(buf, forms)

	out := buf.String()
	assert.Contains(t, out, "#contact-form")
	assert.Contains(t, out, "contact=true auth=false fields=2")
	assert.Contains(t, out, "#email (required)")
}

func TestPrintFormsEmpty(t *testing.T) {
	buf := new(bytes.Buffer)
	printForms(buf, nil)
	assert.Contains(t, buf.String(), "No matching forms found")
}

func TestPrintOutcomes(t *testing.T) {
	outcomes := []formOutcome{
		{
			Form:   engine.FormDescriptor{Selector: "#contact-form"},
			Filled: 1,
			Results: []engine.FillResult{
				{Selector: "#email", Succeeded: true},
				{Selector: "#phone", Succeeded: false, Error: "locate: not found"},
			},
			Submit: &engine.SubmitResult{
				Succeeded: true,
				Method:    "click",
				Candidate: &engine.SubmitCandidate{Selector: "#send-btn"},
			},
		},
	}

	buf := new(bytes.Buffer)
	printOutcomes(buf, outcomes)

	out := buf.String()
	assert.Contains(t, out, "1/2 fields filled")
	assert.Contains(t, out, "ok    #email")
	assert.Contains(t, out, "FAIL  #phone: locate: not found")
	assert.Contains(t, out, "submitted via click (#send-btn)")
}

func TestPrintSectionReport(t *testing.T) {
	report := engine.SectionReport{
		Category: "contact",
		Regions:  []engine.RegionCandidate{{Selector: "#contact", Tag: "section"}},
		Links:    []engine.LinkCandidate{{Selector: ".nav-contact", Href: "/contact"}},
	}

	buf := new(bytes.Buffer)
	printSectionReport(buf, report)

	out := buf.String()
	assert.Contains(t, out, "contact sections:")
	assert.Contains(t, out, "region  <section> #contact")
	assert.Contains(t, out, ".nav-contact -> /contact")

	buf.Reset()
	printSectionReport(buf, engine.SectionReport{Category: "auth"})
	assert.Contains(t, buf.String(), "nothing found")
}
