package cmd

import (
	"codeberg.org/miketth/kbisw/pkg/config"
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "kbisw",
	Short: "Automatic keyboard layout switching per keyboard",
	Long: `kbisw remembers the layout you last used on each keyboard and switches
back to it as soon as you start typing on that keyboard again.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runDaemon(ctx, cfg)
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/kbisw/config.toml)")
	flags.BoolP("location", "l", false, "use the port a keyboard is plugged into as part of its identity;\n"+
		"moving a keyboard to another port then makes it a new keyboard")
	flags.CountP("verbose", "v", "print verbose output, repeat for more (1 = debug, 2 = trace)")
	flags.String("store", "", "mapping store backend: sqlite, json or memory")

	rootCmd.AddCommand(mappingsCmd)
	rootCmd.AddCommand(layoutsCmd)
	rootCmd.AddCommand(devicesCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
