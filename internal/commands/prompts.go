package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/mcpchat/internal/config"
)

var promptNameStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

// NewPromptsCmd creates the quick prompts command
func NewPromptsCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage the quick prompts shown in chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPrompts(cmd)
		},
	}

	var label string
	addCmd := &cobra.Command{
		Use:   "add <name> <prompt...>",
		Short: "Add a quick prompt",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := config.QuickPrompt{
				Name:   args[0],
				Label:  label,
				Prompt: strings.Join(args[1:], " "),
			}
			if p.Label == "" {
				p.Label = p.Name
			}
			if err := config.AddPrompt(p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Added prompt "+p.Name))
			return nil
		},
	}
	addCmd.Flags().StringVarP(&label, "label", "l", "", "Label shown on the welcome screen")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List quick prompts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return listPrompts(cmd)
			},
		},
		addCmd,
		&cobra.Command{
			Use:     "remove <name>",
			Aliases: []string{"rm"},
			Short:   "Remove a custom quick prompt",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.DeletePrompt(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Removed prompt "+args[0]))
				return nil
			},
		},
	)

	return cmd
}

func listPrompts(cmd *cobra.Command) error {
	cfg, err := config.LoadPrompts()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range cfg.Prompts {
		fmt.Fprintf(out, "%s  %s\n    %s\n",
			promptNameStyle.Render(p.Name),
			dimStyle.Render(p.Label),
			p.Prompt,
		)
	}
	return nil
}
