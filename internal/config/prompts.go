package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// QuickPrompt is a canned question offered on the welcome screen
type QuickPrompt struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// PromptConfig stores all quick prompts
type PromptConfig struct {
	Prompts []QuickPrompt `json:"prompts"`
}

// Validation constants
const (
	MaxNameLength   = 50
	MaxLabelLength  = 80
	MaxPromptLength = 4000
)

// DefaultPrompts returns the built-in quick prompts
func DefaultPrompts() []QuickPrompt {
	return []QuickPrompt{
		{Name: "dashboards", Label: "List Dashboards", Prompt: "What dashboards are available?"},
		{Name: "error-rate", Label: "Error Rate", Prompt: "Show me the current error rate"},
		{Name: "logs", Label: "Recent Logs", Prompt: "Show me the recent error logs"},
		{Name: "datasources", Label: "Datasources", Prompt: "Which datasources are configured?"},
		{Name: "latency", Label: "Latency", Prompt: "What's the p95 latency?"},
		{Name: "health", Label: "Endpoint Health", Prompt: "Check the endpoint health status"},
	}
}

// GetPromptsPath returns the path to the prompts file
func GetPromptsPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "prompts.json"), nil
}

// LoadPrompts loads the quick prompts, merged over the defaults
func LoadPrompts() (*PromptConfig, error) {
	path, err := GetPromptsPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PromptConfig{Prompts: DefaultPrompts()}, nil
		}
		return nil, fmt.Errorf("failed to read prompts: %w", err)
	}

	var cfg PromptConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}

	cfg.Prompts = mergePrompts(DefaultPrompts(), cfg.Prompts)
	return &cfg, nil
}

// SavePrompts saves the quick prompts
func SavePrompts(cfg *PromptConfig) error {
	path, err := GetPromptsPath()
	if err != nil {
		return err
	}

	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prompts: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// AddPrompt adds a new quick prompt
func AddPrompt(p QuickPrompt) error {
	if err := ValidatePrompt(p); err != nil {
		return err
	}

	cfg, err := LoadPrompts()
	if err != nil {
		return err
	}

	for _, existing := range cfg.Prompts {
		if existing.Name == p.Name {
			return fmt.Errorf("prompt '%s' already exists", p.Name)
		}
	}

	cfg.Prompts = append(cfg.Prompts, p)
	return SavePrompts(cfg)
}

// DeletePrompt removes a user-defined quick prompt by name
func DeletePrompt(name string) error {
	for _, d := range DefaultPrompts() {
		if d.Name == name {
			return fmt.Errorf("cannot delete built-in prompt '%s'", name)
		}
	}

	cfg, err := LoadPrompts()
	if err != nil {
		return err
	}

	kept := make([]QuickPrompt, 0, len(cfg.Prompts))
	found := false
	for _, p := range cfg.Prompts {
		if p.Name == name {
			found = true
			continue
		}
		kept = append(kept, p)
	}

	if !found {
		return fmt.Errorf("prompt '%s' not found", name)
	}

	cfg.Prompts = kept
	return SavePrompts(cfg)
}

// PromptTexts returns just the prompt strings, in display order
func PromptTexts(prompts []QuickPrompt) []string {
	texts := make([]string, len(prompts))
	for i, p := range prompts {
		texts[i] = p.Prompt
	}
	return texts
}

func mergePrompts(defaults, custom []QuickPrompt) []QuickPrompt {
	result := make([]QuickPrompt, len(defaults))
	copy(result, defaults)

	for _, cp := range custom {
		found := false
		for i, dp := range result {
			if dp.Name == cp.Name {
				result[i] = cp
				found = true
				break
			}
		}
		if !found {
			result = append(result, cp)
		}
	}

	return result
}

// ValidatePrompt validates a quick prompt's fields
func ValidatePrompt(p QuickPrompt) error {
	fieldErrors := make(map[string]string)

	if p.Name == "" {
		fieldErrors["name"] = "name is required"
	} else if len(p.Name) > MaxNameLength {
		fieldErrors["name"] = fmt.Sprintf("name too long (max %d characters)", MaxNameLength)
	} else if !isValidPromptName(p.Name) {
		fieldErrors["name"] = "name must contain only alphanumeric characters, underscores, and hyphens"
	}

	if len(p.Label) > MaxLabelLength {
		fieldErrors["label"] = fmt.Sprintf("label too long (max %d characters)", MaxLabelLength)
	}

	if p.Prompt == "" {
		fieldErrors["prompt"] = "prompt is required"
	} else if len(p.Prompt) > MaxPromptLength {
		fieldErrors["prompt"] = fmt.Sprintf("prompt too long (max %d characters)", MaxPromptLength)
	}

	if len(fieldErrors) > 0 {
		return fmt.Errorf("validation failed: %v", fieldErrors)
	}

	return nil
}

func isValidPromptName(name string) bool {
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-') {
			return false
		}
	}
	return true
}
