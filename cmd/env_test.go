/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clierrors "github.com/coffeeshop/cli/internal/errors"
	"github.com/coffeeshop/cli/internal/tui"
	"github.com/coffeeshop/cli/pkg/environment"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

var testEnvVariables = []string{
	environment.EnvMode,
	environment.EnvProduction,
	environment.EnvAPIServerURL,
	environment.EnvAuth0URL,
	environment.EnvAuth0Audience,
	environment.EnvAuth0ClientID,
	environment.EnvAuth0Callback,
	environment.EnvDotEnvFile,
}

// setupWorkspace runs the test in an empty directory with no COFFEESHOP_*
// variables and the global flags reset.
func setupWorkspace(t *testing.T) string {
	dir := t.TempDir()
	chdirForTest(t, dir)

	for _, key := range testEnvVariables {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	flagConfigPath = ""
	flagMode = ""
	dotEnvLoaded = false
	tui.SetInteractiveMode(false)
	t.Cleanup(func() {
		flagConfigPath = ""
		flagMode = ""
		dotEnvLoaded = false
		tui.SetInteractiveMode(true)
	})
	return dir
}

// runOpts executes a command's options and returns what it wrote to stdout.
func runOpts(t *testing.T, opts CommandOptions, args ...string) (string, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := executeCommand(cmd, args, opts)
	return out.String(), err
}

func mustRun(t *testing.T, opts CommandOptions, args ...string) string {
	t.Helper()
	out, err := runOpts(t, opts, args...)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	return out
}

func expectExitCode(t *testing.T, err error, code clierrors.ExitCode) *clierrors.CLIError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with exit code %d, got nil", code)
	}
	if got := clierrors.GetExitCode(err); got != int(code) {
		t.Fatalf("expected exit code %d, got %d (%v)", code, got, err)
	}
	cliErr, _ := clierrors.AsCLIError(err)
	return cliErr
}

func TestEnvInitCreatesSettingsFile(t *testing.T) {
	setupWorkspace(t)
	mustRun(t, &envInitOpts{})

	settingsFile, err := environment.LoadSettingsFile(environment.DefaultSettingsFileName)
	if err != nil {
		t.Fatalf("failed to load created settings file: %v", err)
	}
	expected := map[environment.Mode]environment.Environment{
		environment.ModeDevelopment: environment.Development(),
		environment.ModeProduction:  environment.ProductionDefaults(),
	}
	if diff := cmp.Diff(expected, settingsFile.Environments); diff != "" {
		t.Errorf("unexpected settings (-want +got):\n%s", diff)
	}
}

func TestEnvInitKeepsExistingFile(t *testing.T) {
	setupWorkspace(t)
	if err := os.WriteFile(environment.DefaultSettingsFileName, []byte("# mine\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := runOpts(t, &envInitOpts{})
	cliErr := expectExitCode(t, err, clierrors.ExitRuntime)
	if !strings.Contains(cliErr.Suggestion, "--force") {
		t.Errorf("expected hint about --force, got %q", cliErr.Suggestion)
	}
	if content, _ := os.ReadFile(environment.DefaultSettingsFileName); string(content) != "# mine\n" {
		t.Errorf("existing file was modified: %q", content)
	}

	mustRun(t, &envInitOpts{flagForce: true})
	if _, err := environment.LoadSettingsFile(environment.DefaultSettingsFileName); err != nil {
		t.Errorf("forced init did not write a valid settings file: %v", err)
	}
}

func TestEnvInitJSON(t *testing.T) {
	dir := setupWorkspace(t)
	flagConfigPath = filepath.Join(dir, "config", "coffeeshop.json")
	if err := os.MkdirAll(filepath.Dir(flagConfigPath), 0755); err != nil {
		t.Fatal(err)
	}

	mustRun(t, &envInitOpts{})

	content, err := os.ReadFile(flagConfigPath)
	if err != nil {
		t.Fatalf("settings file not written: %v", err)
	}
	if !json.Valid(content) {
		t.Fatalf("expected JSON settings file, got:\n%s", content)
	}
	out := mustRun(t, newEnvGetOpts(), "auth0.url")
	if strings.TrimSpace(out) != environment.Development().Auth0.URL {
		t.Errorf("unexpected auth0.url %q", out)
	}
}

func TestEnvSetThenGet(t *testing.T) {
	setupWorkspace(t)
	mustRun(t, &envInitOpts{})

	flagMode = "production"
	mustRun(t, newEnvSetOpts(), "auth0.clientId", "prodClientId123")

	fromFile := newEnvGetOpts()
	fromFile.flagFromFile = true
	if out := mustRun(t, fromFile, "auth0.clientId"); out != "prodClientId123\n" {
		t.Errorf("unexpected value from file %q", out)
	}

	if out := mustRun(t, newEnvGetOpts(), "production"); out != "true\n" {
		t.Errorf("unexpected production flag %q", out)
	}

	// The development variant is untouched.
	flagMode = "dev"
	if out := mustRun(t, newEnvGetOpts(), "auth0.clientId"); strings.TrimSpace(out) != environment.Development().Auth0.ClientID {
		t.Errorf("development client ID changed: %q", out)
	}
}

func TestEnvSetKeepsComments(t *testing.T) {
	setupWorkspace(t)
	mustRun(t, &envInitOpts{})

	content, _ := os.ReadFile(environment.DefaultSettingsFileName)
	withComment := "# Edited by hand\n" + string(content)
	if err := os.WriteFile(environment.DefaultSettingsFileName, []byte(withComment), 0644); err != nil {
		t.Fatal(err)
	}

	mustRun(t, newEnvSetOpts(), "apiServerUrl", "http://192.168.1.20:5000")

	updated, _ := os.ReadFile(environment.DefaultSettingsFileName)
	if !strings.Contains(string(updated), "# Edited by hand") {
		t.Errorf("comment was lost:\n%s", updated)
	}
	if !strings.Contains(string(updated), "http://192.168.1.20:5000") {
		t.Errorf("value was not written:\n%s", updated)
	}
}

func TestEnvSetErrors(t *testing.T) {
	setupWorkspace(t)

	_, err := runOpts(t, newEnvSetOpts(), "auth0.clientId", "abc")
	cliErr := expectExitCode(t, err, clierrors.ExitRuntime)
	if !strings.Contains(cliErr.Suggestion, "env init") {
		t.Errorf("expected hint about 'env init', got %q", cliErr.Suggestion)
	}

	_, err = runOpts(t, newEnvSetOpts(), "production", "maybe")
	expectExitCode(t, err, clierrors.ExitUsage)

	_, err = runOpts(t, newEnvSetOpts(), "auth0.secret", "abc")
	expectExitCode(t, err, clierrors.ExitUsage)
}

func TestEnvGetErrors(t *testing.T) {
	setupWorkspace(t)

	_, err := runOpts(t, newEnvGetOpts(), "auth0.secret")
	expectExitCode(t, err, clierrors.ExitUsage)

	// KEY can only be omitted in interactive terminals.
	_, err = runOpts(t, newEnvGetOpts())
	expectExitCode(t, err, clierrors.ExitUsage)
}

func TestEnvGetAppliesOverrides(t *testing.T) {
	setupWorkspace(t)
	t.Setenv(environment.EnvAPIServerURL, "https://api.coffeeshop.example")

	if out := mustRun(t, newEnvGetOpts(), "apiServerUrl"); out != "https://api.coffeeshop.example\n" {
		t.Errorf("override not applied: %q", out)
	}
}

func TestEnvGetReadsModeFromDotEnv(t *testing.T) {
	setupWorkspace(t)
	if err := os.WriteFile(".env", []byte("COFFEESHOP_MODE=production\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if out := mustRun(t, newEnvGetOpts(), "production"); out != "true\n" {
		t.Errorf("expected mode from .env, got production=%q", out)
	}
}

func TestEnvValidate(t *testing.T) {
	setupWorkspace(t)

	// Built-in development settings are complete.
	mustRun(t, &envValidateOpts{})

	// Built-in production settings lack the client ID.
	flagMode = "production"
	_, err := runOpts(t, &envValidateOpts{})
	cliErr := expectExitCode(t, err, clierrors.ExitInvalidSettings)
	if len(cliErr.Details) != 1 || !strings.HasPrefix(cliErr.Details[0], "auth0.clientId:") {
		t.Errorf("unexpected details %q", cliErr.Details)
	}

	t.Setenv(environment.EnvAuth0ClientID, "prodClientId123")
	mustRun(t, &envValidateOpts{})
}

func TestEnvValidateAll(t *testing.T) {
	setupWorkspace(t)
	t.Setenv(environment.EnvAuth0ClientID, "")
	t.Setenv(environment.EnvAPIServerURL, "not a url")

	_, err := runOpts(t, &envValidateOpts{flagAll: true})
	cliErr := expectExitCode(t, err, clierrors.ExitInvalidSettings)
	if !strings.Contains(cliErr.Message, "2 build modes") {
		t.Errorf("unexpected message %q", cliErr.Message)
	}
	for _, detail := range cliErr.Details {
		if !strings.HasPrefix(detail, "development: ") && !strings.HasPrefix(detail, "production: ") {
			t.Errorf("detail without mode prefix: %q", detail)
		}
	}

	flagMode = "production"
	_, err = runOpts(t, &envValidateOpts{flagAll: true})
	expectExitCode(t, err, clierrors.ExitUsage)
}

func TestEnvRender(t *testing.T) {
	setupWorkspace(t)

	tests := []struct {
		format   environment.Format
		contains string
	}{
		{environment.FormatTypeScript, "export const environment = {"},
		{environment.FormatJSON, `"apiServerUrl": "http://127.0.0.1:5000"`},
		{environment.FormatYAML, "apiServerUrl: http://127.0.0.1:5000"},
		{environment.FormatDotEnv, `AUTH0_DOMAIN="dev-6jfqn48i.us.auth0.com"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out := mustRun(t, &envRenderOpts{flagFormat: string(tt.format)})
			if !strings.Contains(out, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, out)
			}
		})
	}

	t.Run("output file", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), "environment.ts")
		if out := mustRun(t, &envRenderOpts{flagFormat: "ts", flagOutput: outputPath}); out != "" {
			t.Errorf("expected nothing on stdout, got %q", out)
		}
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("output file not written: %v", err)
		}
		if !strings.HasPrefix(string(content), "/* Generated by coffeeshop") {
			t.Errorf("expected generated-file header, got:\n%s", content)
		}
		if !strings.Contains(string(content), "\nexport const environment = {\n") {
			t.Errorf("expected environment object, got:\n%s", content)
		}
	})

	t.Run("invalid settings", func(t *testing.T) {
		flagMode = "production"
		defer func() { flagMode = "" }()

		out, err := runOpts(t, &envRenderOpts{flagFormat: "ts"})
		expectExitCode(t, err, clierrors.ExitInvalidSettings)
		if out != "" {
			t.Errorf("invalid settings must not be rendered, got %q", out)
		}
	})

	t.Run("other settings already active", func(t *testing.T) {
		t.Setenv(environment.EnvAPIServerURL, "http://127.0.0.1:6000")
		_, err := runOpts(t, &envRenderOpts{flagFormat: "ts"})
		expectExitCode(t, err, clierrors.ExitRuntime)
	})
}

func TestEnvDiff(t *testing.T) {
	setupWorkspace(t)
	t.Setenv(environment.EnvAuth0ClientID, "")

	o := newEnvDiffOpts()
	o.flagFormat = "json"
	out := mustRun(t, o)

	var changes []struct {
		Path string `json:"path"`
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.Unmarshal([]byte(out), &changes); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(changes) != 1 || changes[0].Path != environment.PathProduction {
		t.Errorf("expected only 'production' to differ, got %+v", changes)
	}

	_, err := runOpts(t, newEnvDiffOpts(), "staging")
	expectExitCode(t, err, clierrors.ExitUsage)
}

func TestEnvDiffDefaultVariants(t *testing.T) {
	setupWorkspace(t)

	o := newEnvDiffOpts()
	o.flagFormat = "json"
	out := mustRun(t, o, "development", "prod")

	var changes []map[string]string
	if err := json.Unmarshal([]byte(out), &changes); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	paths := []string{}
	for _, change := range changes {
		paths = append(paths, change["path"])
	}
	expected := []string{environment.PathProduction, environment.PathAuth0ClientID}
	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Errorf("unexpected differing settings (-want +got):\n%s", diff)
	}
}

func TestEnvLoginLink(t *testing.T) {
	setupWorkspace(t)

	out := mustRun(t, &envLoginLinkOpts{flagPath: environment.DefaultLoginCallbackPath})
	if !strings.HasPrefix(out, "https://dev-6jfqn48i.us.auth0.com/authorize?") {
		t.Errorf("unexpected link %q", out)
	}
	if !strings.Contains(out, "client_id=632cdd55c566bc91751b04bd") {
		t.Errorf("client ID missing from %q", out)
	}
	if !strings.Contains(out, "redirect_uri=http%3A%2F%2Flocalhost%3A8100%2Ftabs%2Fuser-page") {
		t.Errorf("redirect URI missing from %q", out)
	}

	_, err := runOpts(t, &envLoginLinkOpts{flagPath: "tabs/home"})
	expectExitCode(t, err, clierrors.ExitUsage)

	flagMode = "production"
	_, err = runOpts(t, &envLoginLinkOpts{flagPath: "/"})
	expectExitCode(t, err, clierrors.ExitInvalidSettings)
}

func TestEnvShowJSON(t *testing.T) {
	setupWorkspace(t)

	out := mustRun(t, &envShowOpts{flagFormat: "json"})
	var env environment.Environment
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if diff := cmp.Diff(environment.Development(), env); diff != "" {
		t.Errorf("unexpected settings (-want +got):\n%s", diff)
	}
}

func TestEnvShowMissingExplicitFile(t *testing.T) {
	setupWorkspace(t)
	flagConfigPath = "missing.yaml"

	_, err := runOpts(t, &envShowOpts{flagFormat: "text"})
	cliErr := expectExitCode(t, err, clierrors.ExitRuntime)
	if !strings.Contains(cliErr.Suggestion, "env init") {
		t.Errorf("expected hint about 'env init', got %q", cliErr.Suggestion)
	}
}

func TestVersionJSON(t *testing.T) {
	out := mustRun(t, &versionOpts{flagFormat: "json"})
	var info map[string]any
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if info["appVersion"] != "dev" || info["prerelease"] != true {
		t.Errorf("unexpected version info %v", info)
	}
}

func TestEnvGenerate(t *testing.T) {
	setupWorkspace(t)
	mustRun(t, &envInitOpts{})
	flagMode = "production"
	mustRun(t, newEnvSetOpts(), "auth0.clientId", "prodClientId123")
	flagMode = ""

	o := &envGenerateOpts{flagDir: filepath.Join("src", "environments"), flagBackendEnv: filepath.Join("backend", ".env")}
	mustRun(t, o)

	devContent, err := os.ReadFile(filepath.Join("src", "environments", "environment.ts"))
	if err != nil {
		t.Fatalf("development file not written: %v", err)
	}
	if !strings.Contains(string(devContent), "production: false") {
		t.Errorf("unexpected development file:\n%s", devContent)
	}
	prodContent, err := os.ReadFile(filepath.Join("src", "environments", "environment.prod.ts"))
	if err != nil {
		t.Fatalf("production file not written: %v", err)
	}
	if !strings.Contains(string(prodContent), "prodClientId123") {
		t.Errorf("unexpected production file:\n%s", prodContent)
	}
	backendContent, err := os.ReadFile(filepath.Join("backend", ".env"))
	if err != nil {
		t.Fatalf("backend .env not written: %v", err)
	}
	if !strings.Contains(string(backendContent), `API_AUDIENCE="http://localhost:5000"`) {
		t.Errorf("unexpected backend .env:\n%s", backendContent)
	}

	// Regenerating with identical settings is a no-op.
	mustRun(t, o)

	// Changed content needs confirmation, which is unavailable non-interactively.
	t.Setenv(environment.EnvAPIServerURL, "http://127.0.0.1:7000")
	_, err = runOpts(t, o)
	expectExitCode(t, err, clierrors.ExitRuntime)

	mustRun(t, &envGenerateOpts{flagDir: o.flagDir, flagSkipExisting: true})
	if content, _ := os.ReadFile(filepath.Join("src", "environments", "environment.ts")); string(content) != string(devContent) {
		t.Error("existing file was replaced with --skip-existing")
	}

	mustRun(t, &envGenerateOpts{flagDir: o.flagDir, flagYes: true})
	if content, _ := os.ReadFile(filepath.Join("src", "environments", "environment.ts")); !strings.Contains(string(content), "http://127.0.0.1:7000") {
		t.Errorf("file not replaced with --yes:\n%s", content)
	}
}

func TestEnvGenerateRejectsInvalidSettings(t *testing.T) {
	setupWorkspace(t)

	_, err := runOpts(t, &envGenerateOpts{flagDir: "out"})
	cliErr := expectExitCode(t, err, clierrors.ExitInvalidSettings)
	if len(cliErr.Details) != 1 || !strings.HasPrefix(cliErr.Details[0], "production: auth0.clientId:") {
		t.Errorf("unexpected details %q", cliErr.Details)
	}
	if _, err := os.Stat("out"); !os.IsNotExist(err) {
		t.Error("no files should be written for invalid settings")
	}
}
