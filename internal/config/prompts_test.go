package config

import (
	"strings"
	"testing"
)

func TestDefaultPrompts(t *testing.T) {
	prompts := DefaultPrompts()
	if len(prompts) == 0 {
		t.Fatal("Expected built-in prompts")
	}

	seen := make(map[string]bool)
	for _, p := range prompts {
		if err := ValidatePrompt(p); err != nil {
			t.Errorf("built-in prompt %s invalid: %v", p.Name, err)
		}
		if seen[p.Name] {
			t.Errorf("duplicate prompt name %s", p.Name)
		}
		seen[p.Name] = true
	}
}

func TestLoadPrompts_Defaults(t *testing.T) {
	withTempHome(t)

	cfg, err := LoadPrompts()
	if err != nil {
		t.Fatalf("LoadPrompts() error: %v", err)
	}
	if len(cfg.Prompts) != len(DefaultPrompts()) {
		t.Errorf("Expected %d prompts, got %d", len(DefaultPrompts()), len(cfg.Prompts))
	}
}

func TestAddAndDeletePrompt(t *testing.T) {
	withTempHome(t)

	p := QuickPrompt{Name: "cpu", Label: "CPU", Prompt: "What's the CPU usage?"}
	if err := AddPrompt(p); err != nil {
		t.Fatalf("AddPrompt() error: %v", err)
	}
	if err := AddPrompt(p); err == nil {
		t.Error("Expected duplicate add to fail")
	}

	cfg, err := LoadPrompts()
	if err != nil {
		t.Fatalf("LoadPrompts() error: %v", err)
	}
	last := cfg.Prompts[len(cfg.Prompts)-1]
	if last.Name != "cpu" {
		t.Errorf("Expected custom prompt appended after defaults, got %s", last.Name)
	}

	if err := DeletePrompt("cpu"); err != nil {
		t.Fatalf("DeletePrompt() error: %v", err)
	}
	if err := DeletePrompt("cpu"); err == nil {
		t.Error("Expected deleting a missing prompt to fail")
	}
}

func TestDeletePrompt_BuiltIn(t *testing.T) {
	withTempHome(t)

	if err := DeletePrompt("dashboards"); err == nil {
		t.Error("Expected built-in prompt deletion to fail")
	}
}

func TestMergePrompts_OverridesByName(t *testing.T) {
	custom := []QuickPrompt{{Name: "logs", Label: "Logs", Prompt: "Show me warning logs"}}
	merged := mergePrompts(DefaultPrompts(), custom)

	if len(merged) != len(DefaultPrompts()) {
		t.Fatalf("Expected override not to grow the list, got %d", len(merged))
	}
	for _, p := range merged {
		if p.Name == "logs" && p.Prompt != "Show me warning logs" {
			t.Errorf("Expected override to win, got %q", p.Prompt)
		}
	}
}

func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name    string
		prompt  QuickPrompt
		wantErr bool
	}{
		{"valid", QuickPrompt{Name: "ok_1", Prompt: "hi"}, false},
		{"missing name", QuickPrompt{Prompt: "hi"}, true},
		{"bad chars", QuickPrompt{Name: "no spaces", Prompt: "hi"}, true},
		{"long name", QuickPrompt{Name: strings.Repeat("a", MaxNameLength+1), Prompt: "hi"}, true},
		{"long label", QuickPrompt{Name: "x", Label: strings.Repeat("a", MaxLabelLength+1), Prompt: "hi"}, true},
		{"missing prompt", QuickPrompt{Name: "x"}, true},
		{"long prompt", QuickPrompt{Name: "x", Prompt: strings.Repeat("a", MaxPromptLength+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrompt(tt.prompt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrompt() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPromptTexts(t *testing.T) {
	texts := PromptTexts([]QuickPrompt{{Prompt: "a"}, {Prompt: "b"}})
	if len(texts) != 2 || texts[0] != "a" || texts[1] != "b" {
		t.Errorf("PromptTexts() = %v", texts)
	}
}
