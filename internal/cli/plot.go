package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/manuelbieri/shelegia-motta-2021/internal/plot"
)

var (
	plotFigure string
	plotOutput string
)

// plotCmd renders a model figure to the terminal or an SVG file
var plotCmd = &cobra.Command{
	Use:   "plot [model]",
	Short: "Render the equilibrium or best-response diagram",
	Long: `Renders a region diagram of the (A, F) parameter plane. Without
--output the figure is drawn in the terminal; with --output it is
written as SVG.

Example:
  killzone plot base
  killzone plot acquisition --figure responses --output responses.svg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := buildModel(cmd, args[0])
		if err != nil {
			return err
		}

		fig, err := plot.Build(model, plot.FigureKind(plotFigure))
		if err != nil {
			return err
		}

		if plotOutput == "" {
			fmt.Println(plot.RenderTerminal(fig))
			return nil
		}

		out, err := os.Create(plotOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

		if err := plot.RenderSVG(out, fig); err != nil {
			return fmt.Errorf("failed to render SVG: %w", err)
		}
		logger.Info("figure_written",
			zap.String("model", args[0]),
			zap.String("figure", plotFigure),
			zap.String("path", plotOutput),
		)
		return nil
	},
}

func init() {
	plotCmd.Flags().StringVar(&plotFigure, "figure", plot.FigureEquilibrium.String(),
		"figure kind: equilibrium or responses")
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "", "write SVG to this file instead of the terminal")
}
