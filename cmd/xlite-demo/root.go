package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-mizu/xlite/internal/config"
	"github.com/go-mizu/xlite/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		dbPath  string
		width   int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:          "xlite-demo",
		Short:        "Populate and query a student registry with handbook tables",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if cfgPath != "" {
				var err error
				if cfg, err = config.Load(cfgPath); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if flags.Changed("db") {
				cfg.Database = dbPath
			}
			if flags.Changed("width") {
				cfg.Width = width
			}
			if flags.Changed("verbose") {
				cfg.Verbose = verbose
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger.SetVerbose(cfg.Verbose)
			logger.SetOutput(cmd.ErrOrStderr())
			return run(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "TOML file with database, width, handbooks and students")
	cmd.Flags().StringVar(&dbPath, "db", ":memory:", "database file path, or :memory:")
	cmd.Flags().IntVar(&width, "width", 20, "output column width")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace statements to stderr")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "xlite-demo version %s\n", version)
		},
	}
}
