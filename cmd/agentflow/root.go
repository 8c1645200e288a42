package main

import (
	"github.com/effective-security/agentflow/internal/config"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow", "cmd")

// Version is set at build time
var Version = "dev"

type rootFlags struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "agentflow",
		Short:         "Multi-agent research, summary and email pipeline",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file, defaults to $"+config.EnvConfigFile)
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: TRACE|DEBUG|INFO|NOTICE|WARNING|ERROR|CRITICAL")

	root.AddCommand(
		newServeCmd(flags),
		newRunCmd(flags),
		newVersionCmd(),
	)
	return root
}

func (f *rootFlags) load() (*config.Configuration, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}
	if f.logLevel != "" {
		cfg.Logs.Level = f.logLevel
		if err = cfg.Validate(); err != nil {
			return nil, err
		}
	}
	cfg.Logs.ConfigureLogger()
	return cfg, nil
}
