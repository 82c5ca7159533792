package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/subsh/core/shell"
	"github.com/josephlewis42/subsh/core/template"
)

var parseCommand string

// parseCmd prints the syntax tree of a command without running it.
var parseCmd = &cobra.Command{
	Use:   "parse [script]",
	Short: "Print the syntax tree of a command.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		source, err := readSource(args, parseCommand)
		if err != nil {
			return err
		}

		session := shell.NewSession()
		dump, err := session.ParseCommand(template.Literal(source))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), dump)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseCommand, "command", "c", "", "command string to parse")
	rootCmd.AddCommand(parseCmd)
}
