package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	evalA float64
	evalF float64
)

// evalCmd evaluates the equilibrium path at a single (A, F) point
var evalCmd = &cobra.Command{
	Use:   "eval [model]",
	Short: "Evaluate the equilibrium path at one (A, F) point",
	Long: `Solves the game at a single point of the parameter plane. A is the
entrant's assets, F the incumbent's fixed cost of copying.

Example:
  killzone eval base --a 0.1 --f 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := buildModel(cmd, args[0])
		if err != nil {
			return err
		}

		choice := model.OptimalChoice(evalA, evalF)
		logger.Debug("point_evaluated",
			zap.String("model", args[0]),
			zap.Float64("a", evalA),
			zap.Float64("f", evalF),
			zap.String("path", choice.PathKey()),
		)

		fmt.Printf("model:       %s\n", model.Spec().ID)
		fmt.Printf("point:       A=%g F=%g\n", evalA, evalF)
		fmt.Printf("entrant:     %s\n", choice.Entrant)
		fmt.Printf("incumbent:   %s\n", choice.Incumbent)
		fmt.Printf("development: %s\n", choice.Development)
		if choice.Ownership != "" {
			fmt.Printf("ownership:   %s\n", choice.Ownership)
		}
		if choice.KillZone() {
			fmt.Println("kill zone:   yes")
		} else {
			fmt.Println("kill zone:   no")
		}
		return nil
	},
}

func init() {
	evalCmd.Flags().Float64Var(&evalA, "a", 0, "entrant's assets A")
	evalCmd.Flags().Float64Var(&evalF, "f", 0, "incumbent's fixed cost of copying F")
	evalCmd.MarkFlagRequired("a")
	evalCmd.MarkFlagRequired("f")
}
