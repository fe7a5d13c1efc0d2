package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thetarby/rwsim"
)

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the available access policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, _ := rwsim.ParseKind(viper.GetString("simulation.policy"))

			out := cmd.OutOrStdout()
			width := 0
			for _, k := range rwsim.Kinds() {
				width = max(width, lipgloss.Width(k.String()))
			}
			name := lipgloss.NewRenderer(out).NewStyle().Width(width + 2)

			for _, k := range rwsim.Kinds() {
				mark := " "
				if k == current {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s%s\n", mark, name.Render(k.String()), k.Description())
			}
			return nil
		},
	}
}
