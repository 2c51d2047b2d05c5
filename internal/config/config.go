package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action input names as declared in action.yml.
const (
	InputRepoToken    = "repo-token"
	InputActionToken  = "cloak-action-token"
	InputAPIKeyName   = "cloak-api-key-name"
	InputProvider     = "cloak-provider"
	InputModel        = "cloak-model"
	InputAPIURL       = "cloak-api-url"
	InputTokenBudget  = "token-budget"
	InputAllowList    = "allow-list"
	InputExcludePaths = "exclude-paths"
)

// DefaultConfigFile is looked for in the working directory when no --config
// flag is given.
const DefaultConfigFile = "cloak.yaml"

// Config is the effective action configuration, captured once at process
// start and passed by value to every component.
type Config struct {
	// Secrets only ever come from the environment, never the file.
	RepoToken   string `yaml:"-"`
	ActionToken string `yaml:"-"`

	APIKeyName string `yaml:"apiKeyName"`
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	APIURL     string `yaml:"apiUrl"`

	// TokenBudget stays raw: the gate downgrades a malformed value to a
	// warning instead of blocking the run.
	TokenBudget  string   `yaml:"tokenBudget"`
	AllowList    []string `yaml:"allowList"`
	ExcludePaths []string `yaml:"excludePaths"`

	PollAttempts        int `yaml:"pollAttempts"`
	PollIntervalSeconds int `yaml:"pollIntervalSeconds"`

	EventPath       string `yaml:"-"`
	StepSummaryPath string `yaml:"-"`
}

// MissingInputError names a required action input that was not provided.
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Name)
}

const (
	errPollAttemptsFormat = "pollAttempts must be positive, got %d"
	errPollIntervalFormat = "pollIntervalSeconds must be positive, got %d"
)

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		PollAttempts:        30,
		PollIntervalSeconds: 10,
	}
}

// Load builds the effective config by merging: defaults <- file <- env <-
// overrides. The overrides map comes from CLI flags; only non-empty values
// apply. Load does not validate; call Validate before running the pipeline.
func Load(configPath string, overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile(configPath)
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg, nil
}

// Validate checks that every input the pipeline cannot run without is set.
func (c Config) Validate() error {
	required := []struct {
		input string
		value string
	}{
		{InputRepoToken, c.RepoToken},
		{InputActionToken, c.ActionToken},
		{InputAPIKeyName, c.APIKeyName},
		{InputProvider, c.Provider},
		{InputModel, c.Model},
		{InputAPIURL, c.APIURL},
	}
	for _, r := range required {
		if r.value == "" {
			return &MissingInputError{Name: r.input}
		}
	}
	if c.EventPath == "" {
		return &MissingInputError{Name: "GITHUB_EVENT_PATH"}
	}
	if c.PollAttempts <= 0 {
		return fmt.Errorf(errPollAttemptsFormat, c.PollAttempts)
	}
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf(errPollIntervalFormat, c.PollIntervalSeconds)
	}
	return nil
}

// LoadFile loads config from a YAML file. A missing file is not an error;
// path defaults to cloak.yaml in the working directory.
func LoadFile(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to a YAML file, used by `cloak config init` to produce a
// starter file.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultConfigFile
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func mergeFile(dst *Config, src Config) {
	if src.APIKeyName != "" {
		dst.APIKeyName = src.APIKeyName
	}
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.APIURL != "" {
		dst.APIURL = src.APIURL
	}
	if src.TokenBudget != "" {
		dst.TokenBudget = src.TokenBudget
	}
	if len(src.AllowList) > 0 {
		dst.AllowList = src.AllowList
	}
	if len(src.ExcludePaths) > 0 {
		dst.ExcludePaths = src.ExcludePaths
	}
	if src.PollAttempts > 0 {
		dst.PollAttempts = src.PollAttempts
	}
	if src.PollIntervalSeconds > 0 {
		dst.PollIntervalSeconds = src.PollIntervalSeconds
	}
}

func mergeEnv(cfg *Config) {
	if v := inputValue(InputRepoToken); v != "" {
		cfg.RepoToken = v
	}
	if v := inputValue(InputActionToken); v != "" {
		cfg.ActionToken = v
	}
	if v := inputValue(InputAPIKeyName); v != "" {
		cfg.APIKeyName = v
	}
	if v := inputValue(InputProvider); v != "" {
		cfg.Provider = v
	}
	if v := inputValue(InputModel); v != "" {
		cfg.Model = v
	}
	if v := inputValue(InputAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := inputValue(InputTokenBudget); v != "" {
		cfg.TokenBudget = v
	}
	if v := inputValue(InputAllowList); v != "" {
		cfg.AllowList = splitList(v)
	}
	if v := inputValue(InputExcludePaths); v != "" {
		cfg.ExcludePaths = splitList(v)
	}
	if v := os.Getenv("GITHUB_EVENT_PATH"); v != "" {
		cfg.EventPath = v
	}
	if v := os.Getenv("GITHUB_STEP_SUMMARY"); v != "" {
		cfg.StepSummaryPath = v
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v := overrides["provider"]; v != "" {
		cfg.Provider = v
	}
	if v := overrides["model"]; v != "" {
		cfg.Model = v
	}
	if v := overrides["apiUrl"]; v != "" {
		cfg.APIURL = v
	}
	if v := overrides["tokenBudget"]; v != "" {
		cfg.TokenBudget = v
	}
}

// inputValue reads an action input the way the Actions runner exposes it:
// INPUT_ plus the uppercased input name, hyphens preserved.
func inputValue(name string) string {
	return os.Getenv("INPUT_" + strings.ToUpper(name))
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
