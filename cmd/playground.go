package cmd

import (
	"bufio"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/subsh/core/template"
)

var promptColor = color.New(color.FgGreen)

// playgroundCmd runs a line-at-a-time shell over the local OS for
// experimenting with the front end.
var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run an interactive line-at-a-time shell over the local OS.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		session, cleanup, err := newSession(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer cleanup()

		out := cmd.OutOrStdout()
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			promptColor.Fprint(out, cfg.Prompt)
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			line := scanner.Text()
			if line == "exit" {
				return nil
			}
			if len(line) == 0 {
				continue
			}

			status, err := session.ExecuteCommand(cmd.Context(), template.Literal(line))
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "subsh: %v\n", err)
				continue
			}
			if status != 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "exit status %d\n", status)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}
