package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/mcpchat/internal/config"
)

func TestPromptsCmd_ListDefaults(t *testing.T) {
	withTempHome(t)

	res := runCmd(t, nil, nil, "", "prompts")
	require.NoError(t, res.err)
	for _, p := range config.DefaultPrompts() {
		assert.Contains(t, res.stdout, p.Name)
		assert.Contains(t, res.stdout, p.Prompt)
	}
}

func TestPromptsCmd_AddListRemove(t *testing.T) {
	withTempHome(t)

	res := runCmd(t, nil, nil, "", "prompts", "add", "cpu", "What is", "the CPU usage?", "--label", "CPU")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "✓ Added prompt cpu")

	res = runCmd(t, nil, nil, "", "prompts", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "What is the CPU usage?")
	assert.Contains(t, res.stdout, "CPU")

	res = runCmd(t, nil, nil, "", "prompts", "rm", "cpu")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "✓ Removed prompt cpu")

	res = runCmd(t, nil, nil, "", "prompts", "remove", "cpu")
	assert.Error(t, res.err)
}

func TestPromptsCmd_AddDefaultsLabelToName(t *testing.T) {
	withTempHome(t)

	res := runCmd(t, nil, nil, "", "prompts", "add", "disk", "How full are the disks?")
	require.NoError(t, res.err)

	cfg, err := config.LoadPrompts()
	require.NoError(t, err)
	last := cfg.Prompts[len(cfg.Prompts)-1]
	assert.Equal(t, config.QuickPrompt{Name: "disk", Label: "disk", Prompt: "How full are the disks?"}, last)
}

func TestPromptsCmd_AddInvalid(t *testing.T) {
	withTempHome(t)

	res := runCmd(t, nil, nil, "", "prompts", "add", "no spaces", "hi")
	assert.Error(t, res.err)

	res = runCmd(t, nil, nil, "", "prompts", "add", "only-name")
	assert.Error(t, res.err)
}
