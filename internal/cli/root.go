// Package cli wires the killzone commands: model inspection, point
// evaluation, plotting, grid sweeps and the HTTP server.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/manuelbieri/shelegia-motta-2021/internal/config"
	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
)

var (
	// Global flags
	verbose     bool
	presetName  string
	presetsFile string

	// Parameter flags, applied on top of the preset
	flagU          float64
	flagB          float64
	flagSmallDelta float64
	flagDelta      float64
	flagK          float64
	flagBeta       float64
	flagGamma      float64

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "killzone",
	Short: "Equilibria of the Shelegia-Motta entry-deterrence game",
	Long: `killzone solves the sequential entry game between an incumbent platform
and a potential entrant: the entrant picks a complement or a substitute,
the incumbent copies, acquires or refrains, and development succeeds or
fails depending on the entrant's assets.

The kill zone is the parameter region where the entrant ducks into a
complement because a substitute would be copied.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level '%s': %w", cfg.LogLevel, err)
		}
		if verbose {
			level = zapcore.DebugLevel
		}

		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(level)
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&presetName, "preset", "", "named parameter preset (see 'killzone models')")
	rootCmd.PersistentFlags().StringVar(&presetsFile, "presets-file", "", "YAML file with additional presets")

	rootCmd.PersistentFlags().Float64Var(&flagU, "u", 0, "per-product standalone value u")
	rootCmd.PersistentFlags().Float64Var(&flagB, "b", 0, "entrant's required funding B")
	rootCmd.PersistentFlags().Float64Var(&flagSmallDelta, "small-delta", 0, "complement value delta")
	rootCmd.PersistentFlags().Float64Var(&flagDelta, "delta", 0, "substitute quality advantage Delta")
	rootCmd.PersistentFlags().Float64Var(&flagK, "k", 0, "development cost K")
	rootCmd.PersistentFlags().Float64Var(&flagBeta, "beta", 0, "entrant's bargaining power beta")
	rootCmd.PersistentFlags().Float64Var(&flagGamma, "gamma", 0, "network externality gamma")

	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadPresets resolves the preset list from the flag, the environment and
// the built-ins.
func loadPresets() ([]config.Preset, error) {
	path := presetsFile
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		path = cfg.PresetsFile
	}
	if path == "" {
		return config.BuiltinPresets(), nil
	}
	return config.LoadPresetsFile(path)
}

// resolveParams builds the parameter set for a command: preset (or paper
// defaults) first, explicitly set flags on top.
func resolveParams(cmd *cobra.Command) (models.Params, error) {
	params := models.DefaultParams()

	if presetName != "" {
		presets, err := loadPresets()
		if err != nil {
			return params, err
		}
		preset, err := config.FindPreset(presets, presetName)
		if err != nil {
			return params, err
		}
		params = preset.Params
	}

	overrides := map[string]struct {
		target *float64
		value  float64
	}{
		"u":           {&params.U, flagU},
		"b":           {&params.B, flagB},
		"small-delta": {&params.SmallDelta, flagSmallDelta},
		"delta":       {&params.Delta, flagDelta},
		"k":           {&params.K, flagK},
		"beta":        {&params.Beta, flagBeta},
		"gamma":       {&params.Gamma, flagGamma},
	}
	for name, override := range overrides {
		if cmd.Flags().Changed(name) {
			*override.target = override.value
		}
	}

	return params, nil
}

// buildModel constructs the named model variant with the resolved parameters.
func buildModel(cmd *cobra.Command, id string) (models.Model, error) {
	params, err := resolveParams(cmd)
	if err != nil {
		return nil, err
	}
	model, err := models.New(id, params)
	if err != nil {
		return nil, err
	}
	return model, nil
}
