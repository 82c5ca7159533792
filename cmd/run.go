package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/subsh/core/template"
)

var runCommand string

// runCmd executes a script against the real OS.
var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Execute a command or script file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		source, err := readSource(args, runCommand)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		session, cleanup, err := newSession(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer cleanup()

		status, err := session.ExecuteCommand(cmd.Context(), template.Literal(source))
		if err != nil {
			return err
		}
		if status != 0 {
			cleanup()
			os.Exit(status)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runCommand, "command", "c", "", "command string to run")
	rootCmd.AddCommand(runCmd)
}
