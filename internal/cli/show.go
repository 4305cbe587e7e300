package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manuelbieri/shelegia-motta-2021/internal/plot"
)

// showCmd prints a model's thresholds and payoffs
var showCmd = &cobra.Command{
	Use:   "show [model]",
	Short: "Show the thresholds and payoffs of a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := buildModel(cmd, args[0])
		if err != nil {
			return err
		}

		fmt.Println(model.Summary())
		fmt.Println(plot.ThresholdTable(model))
		fmt.Println(plot.PayoffTable(model))
		return nil
	},
}
