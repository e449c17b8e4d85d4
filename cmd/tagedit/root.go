package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

// commandContext carries global flags and the loaded configuration.
type commandContext struct {
	configFlag    string
	logLevelFlag  string
	separatorFlag string
	strictFlag    bool

	cfg    fileConfig
	logger *logrus.Logger
}

// load reads the configuration file and applies flag overrides.
func (c *commandContext) load(cmd *cobra.Command) error {
	cfg, err := loadConfig(c.configFlag)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevelFlag
	}
	if flags.Changed("separator") {
		cfg.ArtistSeparator = c.separatorFlag
	}
	if flags.Changed("strict") {
		cfg.Strict = c.strictFlag
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(level)

	c.cfg, c.logger = cfg, logger
	return nil
}

func (c *commandContext) options() []audiotag.Option {
	return c.cfg.options(c.logger)
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "tagedit",
		Short:         "Read, edit and convert audio tags",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	flags.StringVar(&ctx.logLevelFlag, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&ctx.separatorFlag, "separator", audiotag.DefaultArtistSeparator, "Separator joining multiple artists")
	flags.BoolVar(&ctx.strictFlag, "strict", false, "Fail on malformed fields")

	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newSetCommand(ctx))
	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newDumpCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := audiotag.GetVersionInfo()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "tagedit %s (commit %s, built %s, %s)\n",
				info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
			return err
		},
	}
}
