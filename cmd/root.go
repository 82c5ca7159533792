package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/subsh/core/config"
	"github.com/josephlewis42/subsh/core/interp"
	"github.com/josephlewis42/subsh/core/logger"
	"github.com/josephlewis42/subsh/core/shell"
)

const appendFileFlags = os.O_APPEND | os.O_CREATE | os.O_WRONLY

var (
	cfgPath string
	appFs   = afero.NewOsFs()
)

func loadConfig() (*config.Configuration, error) {
	return config.Load(appFs, cfgPath)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "subsh",
	Short: "Embeddable shell-language front end",
	Long: `subsh lexes, parses and executes shell-syntax commands: pipelines,
logical chains, redirections, command substitutions and subshells.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}

// readSource fetches the command source from -c or a script file.
func readSource(args []string, command string) ([]byte, error) {
	if command != "" {
		return []byte(command), nil
	}
	if len(args) == 1 {
		return afero.ReadFile(appFs, args[0])
	}
	return nil, fmt.Errorf("provide a script file or use -c")
}

// newSession builds a session from the configuration, wiring its output
// to the given writers.
func newSession(cfg *config.Configuration, stdin io.Reader, stdout, stderr io.Writer) (*shell.Session, func(), error) {
	session := &shell.Session{
		Resolver:       interp.NewMapResolverFrom(cfg.Vars),
		Stdin:          stdin,
		Stdout:         stdout,
		Stderr:         stderr,
		CopyBufferSize: cfg.PipeCopyBuffer,
	}

	cleanup := func() {}
	if cfg.EventLog != "" {
		fd, err := appFs.OpenFile(cfg.EventLog, appendFileFlags, 0600)
		if err != nil {
			return nil, nil, err
		}
		session.Events = logger.NewJSONLinesRecorder(fd)
		cleanup = func() { fd.Close() }
	}
	return session, cleanup, nil
}
