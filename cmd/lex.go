package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/subsh/core/shell"
	"github.com/josephlewis42/subsh/core/template"
)

var (
	lexCommand string

	wordColor     = color.New(color.FgCyan)
	operatorColor = color.New(color.FgYellow)
)

// lexCmd prints the token trace of a command without running it.
var lexCmd = &cobra.Command{
	Use:   "lex [script]",
	Short: "Print the token trace of a command.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		source, err := readSource(args, lexCommand)
		if err != nil {
			return err
		}

		session := shell.NewSession()
		trace, err := session.LexCommand(template.Literal(source))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, line := range strings.Split(strings.TrimRight(trace, "\n"), "\n") {
			switch {
			case strings.HasPrefix(line, "Text") ||
				strings.HasPrefix(line, "SingleQuotedText") ||
				strings.HasPrefix(line, "DoubleQuotedText") ||
				strings.HasPrefix(line, "Var"):
				wordColor.Fprintln(out, line)
			case strings.HasPrefix(line, "Redirect") ||
				strings.HasPrefix(line, "Pipe") ||
				strings.HasPrefix(line, "Double"):
				operatorColor.Fprintln(out, line)
			default:
				fmt.Fprintln(out, line)
			}
		}
		return nil
	},
}

func init() {
	lexCmd.Flags().StringVarP(&lexCommand, "command", "c", "", "command string to lex")
	rootCmd.AddCommand(lexCmd)
}
