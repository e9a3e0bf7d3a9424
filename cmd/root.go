package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jsphweid/mellowchord/config"
	"github.com/jsphweid/mellowchord/constants"
)

var (
	cfgFile string
	cfg     = config.DefaultConfig()
	logger  = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "mellowchord",
	Short: "Generates chord progressions as MIDI files",
	Long: `mellowchord walks a graph of tonal harmony and writes every chord
progression of a given length, starting from a chosen chord, as MIDI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", constants.GetConfigPath(), "config file")
	flags.StringP("workingdir", "w", "", "directory to write MIDI files")
	flags.IntP("program", "p", 0, "MIDI program value")
	flags.BoolP("autoplay", "a", false, "new MIDI automatically plays")
	flags.String("log-level", "", "debug, info, warn or error")
}

// setup loads config and lets explicitly set flags win over it.
func setup(cmd *cobra.Command) error {
	loaded, err := config.NewLoader(logger, cfgFile).Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("workingdir") {
		loaded.WorkingDir, _ = flags.GetString("workingdir")
	}
	if flags.Changed("program") {
		loaded.Program, _ = flags.GetInt("program")
	}
	if flags.Changed("autoplay") {
		loaded.Autoplay, _ = flags.GetBool("autoplay")
	}
	if flags.Changed("log-level") {
		loaded.LogLevel, _ = flags.GetString("log-level")
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	level, _ := loaded.Level()
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	cfg = loaded
	logger.Debug("Loaded config", slog.String("path", cfgFile), slog.String("working_dir", cfg.WorkingDir))
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}
