package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manuelbieri/shelegia-motta-2021/internal/store"
	"github.com/manuelbieri/shelegia-motta-2021/internal/sweep"
)

var (
	sweepSteps     int
	sweepAMax      float64
	sweepFMax      float64
	sweepTimeoutMs int
	sweepDBPath    string
)

// sweepCmd runs a grid sweep and prints the aggregated equilibrium paths
var sweepCmd = &cobra.Command{
	Use:   "sweep [model]",
	Short: "Sweep the (A, F) plane and aggregate equilibrium paths",
	Long: `Evaluates the model on a grid over [0, a-max] x [0, f-max] and counts
the equilibrium paths. Zero bounds default to the model's plot window.
With --db the run and its cells are persisted.

Example:
  killzone sweep base --steps 200
  killzone sweep twosided --gamma 0.5 --steps 100 --db killzone.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := resolveParams(cmd)
		if err != nil {
			return err
		}

		sweeper := sweep.NewSweeper()
		result, err := sweeper.Sweep(cmd.Context(), sweep.Request{
			Model:     args[0],
			Params:    params,
			AMax:      sweepAMax,
			FMax:      sweepFMax,
			Steps:     sweepSteps,
			TimeoutMs: sweepTimeoutMs,
		})
		if err != nil {
			return err
		}

		fmt.Printf("model:           %s\n", args[0])
		fmt.Printf("window:          A in [0, %g], F in [0, %g]\n", result.Echo.AMax, result.Echo.FMax)
		fmt.Printf("evaluated:       %d\n", result.Summary.TotalEvaluated)
		fmt.Printf("kill zone share: %.4f\n", result.Summary.KillZoneShare)
		if result.Summary.TimedOut {
			fmt.Println("timed out:       yes (partial result)")
		}

		paths := make([]string, 0, len(result.Summary.Counts))
		for path := range result.Summary.Counts {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		fmt.Println("paths:")
		for _, path := range paths {
			fmt.Printf("  %-16s %d\n", path, result.Summary.Counts[path])
		}

		if sweepDBPath == "" {
			return nil
		}
		runID, err := persistSweep(cmd, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id:          %s\n", runID)
		return nil
	},
}

// persistSweep stores a finished sweep in the given database.
func persistSweep(cmd *cobra.Command, result *sweep.Result) (string, error) {
	db, err := store.NewSQLiteDB(sweepDBPath)
	if err != nil {
		return "", err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return "", err
	}

	paramsJSON, err := json.Marshal(result.Echo.Params)
	if err != nil {
		return "", err
	}

	run := &store.Run{
		Model:          result.Echo.Model,
		ParamsJSON:     string(paramsJSON),
		AMax:           result.Echo.AMax,
		FMax:           result.Echo.FMax,
		Steps:          result.Echo.Steps,
		TotalEvaluated: result.Summary.TotalEvaluated,
		KillZoneShare:  result.Summary.KillZoneShare,
		EngineVersion:  result.EngineVersion,
	}
	if err := db.SaveRun(cmd.Context(), run); err != nil {
		return "", err
	}

	cells := make([]store.Cell, len(result.Cells))
	for i, cell := range result.Cells {
		cells[i] = store.Cell{
			RunID:       run.ID,
			A:           cell.A,
			F:           cell.F,
			Entrant:     string(cell.Choice.Entrant),
			Incumbent:   string(cell.Choice.Incumbent),
			Development: string(cell.Choice.Development),
			Ownership:   string(cell.Choice.Ownership),
		}
	}
	if err := db.SaveCells(cmd.Context(), run.ID, cells); err != nil {
		return "", err
	}

	logger.Info("sweep_persisted",
		zap.String("run_id", run.ID),
		zap.String("db", sweepDBPath),
		zap.Int("cells", len(cells)),
	)
	return run.ID, nil
}

func init() {
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 200, "grid steps per axis")
	sweepCmd.Flags().Float64Var(&sweepAMax, "a-max", 0, "upper bound for A (0 = model window)")
	sweepCmd.Flags().Float64Var(&sweepFMax, "f-max", 0, "upper bound for F (0 = model window)")
	sweepCmd.Flags().IntVar(&sweepTimeoutMs, "timeout-ms", 0, "sweep timeout in milliseconds (0 = none)")
	sweepCmd.Flags().StringVar(&sweepDBPath, "db", "", "persist the run to this SQLite database")
}
