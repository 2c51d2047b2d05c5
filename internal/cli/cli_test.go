package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dshills/cloak/internal/config"
)

// resetFlags resets all package-level flag variables to their zero values.
func resetFlags() {
	flagConfig = ""
	flagDryRun = false
	flagVerbose = false
	flagProvider = ""
	flagModel = ""
	flagAPIURL = ""
	flagTokenBudget = ""
}

// clearInputs blanks every action input so host environment values cannot
// leak into a test.
func clearInputs(t *testing.T) {
	t.Helper()
	inputs := []string{
		config.InputRepoToken, config.InputActionToken, config.InputAPIKeyName,
		config.InputProvider, config.InputModel, config.InputAPIURL,
		config.InputTokenBudget, config.InputAllowList, config.InputExcludePaths,
	}
	for _, name := range inputs {
		t.Setenv("INPUT_"+strings.ToUpper(name), "")
	}
	t.Setenv("GITHUB_EVENT_PATH", "")
	t.Setenv("GITHUB_STEP_SUMMARY", "")
}

// --- buildOverrides tests ---

func TestBuildOverrides_NoFlags(t *testing.T) {
	resetFlags()
	m := buildOverrides()
	if len(m) != 0 {
		t.Errorf("buildOverrides() with no flags = %v, want empty map", m)
	}
}

func TestBuildOverrides_AllFlags(t *testing.T) {
	resetFlags()
	flagProvider = "openai"
	flagModel = "gpt-4o"
	flagAPIURL = "https://cloak.example.com"
	flagTokenBudget = "4000"

	m := buildOverrides()

	expected := map[string]string{
		"provider":    "openai",
		"model":       "gpt-4o",
		"apiUrl":      "https://cloak.example.com",
		"tokenBudget": "4000",
	}

	if len(m) != len(expected) {
		t.Fatalf("buildOverrides() returned %d entries, want %d", len(m), len(expected))
	}
	for k, v := range expected {
		if m[k] != v {
			t.Errorf("buildOverrides()[%q] = %q, want %q", k, m[k], v)
		}
	}
}

func TestBuildOverrides_PartialFlags(t *testing.T) {
	resetFlags()
	flagModel = "claude-sonnet-4"

	m := buildOverrides()

	if len(m) != 1 {
		t.Fatalf("buildOverrides() returned %d entries, want 1", len(m))
	}
	if m["model"] != "claude-sonnet-4" {
		t.Errorf("model = %q, want %q", m["model"], "claude-sonnet-4")
	}
}

// --- run command tests ---

func TestRunCmd_MissingInputs(t *testing.T) {
	resetFlags()
	clearInputs(t)
	flagConfig = filepath.Join(t.TempDir(), "absent.yaml")

	savedExitCode := exitCode
	t.Cleanup(func() { exitCode = savedExitCode })
	exitCode = ExitSuccess

	runCmd.SetArgs([]string{})
	if err := runCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exitCode != ExitConfigError {
		t.Errorf("exitCode = %d, want %d (ExitConfigError)", exitCode, ExitConfigError)
	}
}

// --- config command tests ---

func TestConfigInit_CreatesFile(t *testing.T) {
	resetFlags()
	flagConfig = filepath.Join(t.TempDir(), "cloak.yaml")

	configCmd.SetArgs([]string{"init"})
	if err := configCmd.Execute(); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}

	data, err := os.ReadFile(flagConfig)
	if err != nil {
		t.Fatalf("config init did not create the file: %v", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("config file is not valid YAML: %v", err)
	}
	if cfg.PollAttempts != 30 {
		t.Errorf("pollAttempts = %d, want 30", cfg.PollAttempts)
	}
}

func TestConfigInit_AlreadyExists(t *testing.T) {
	resetFlags()
	flagConfig = filepath.Join(t.TempDir(), "cloak.yaml")
	if err := os.WriteFile(flagConfig, []byte("provider: openai\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	configCmd.SetArgs([]string{"init"})
	if err := configCmd.Execute(); err != nil {
		t.Fatalf("config init with existing file returned error: %v", err)
	}

	// Verify original content is preserved (not overwritten)
	data, err := os.ReadFile(flagConfig)
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("config init overwrote existing file: provider = %q, want %q", cfg.Provider, "openai")
	}
}

func TestConfigShow_Execute(t *testing.T) {
	resetFlags()
	clearInputs(t)
	flagConfig = filepath.Join(t.TempDir(), "absent.yaml")

	configCmd.SetArgs([]string{"show"})
	if err := configCmd.Execute(); err != nil {
		t.Errorf("config show returned error: %v", err)
	}
}

func TestPresence(t *testing.T) {
	if got := presence(""); got != "(unset)" {
		t.Errorf("presence(\"\") = %q, want (unset)", got)
	}
	if got := presence("secret"); got != "(set)" {
		t.Errorf("presence(secret) = %q, want (set)", got)
	}
}

// --- exit code constants tests ---

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitRuntimeError", ExitRuntimeError, 1},
		{"ExitUsageError", ExitUsageError, 2},
		{"ExitConfigError", ExitConfigError, 3},
		{"ExitBudgetExceeded", ExitBudgetExceeded, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, tt.code, tt.want)
			}
		})
	}
}

// --- version command tests ---

func TestVersionCmd_Execute(t *testing.T) {
	// versionCmd writes to os.Stdout directly, but we can verify it runs without error.
	if err := versionCmd.Execute(); err != nil {
		t.Errorf("version command returned error: %v", err)
	}
}

func TestVersionConstant(t *testing.T) {
	if version == "" {
		t.Error("version constant is empty")
	}
}
