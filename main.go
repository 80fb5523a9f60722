// Command zfsearch enumerates pairing-encoded proof witnesses looking for a
// derivation of ¬(v0 = v0), and offers tools to inspect individual
// candidates.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rfielding/zfsearch/internal/config"
	"github.com/rfielding/zfsearch/internal/logging"
)

const version = "0.3.0"

// app holds the global flags shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	logJSON    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "zfsearch",
		Short:         "Search for a proof of ¬(v0 = v0) among pairing-encoded witnesses",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&a.logJSON, "log-json", false, "log as JSON")

	root.AddCommand(
		a.searchCmd(),
		a.serveCmd(),
		a.runsCmd(),
		a.checkCmd(),
		a.decodeCmd(),
		a.demoCmd(),
	)
	return root
}

// loadConfig reads --config when given and applies the global flags.
func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}
	return cfg, cfg.Validate()
}

func (a *app) logger(cfg config.Config, stderr io.Writer) (*logging.Logger, error) {
	lc := cfg.Log
	lc.Output = stderr
	return logging.New(lc)
}
