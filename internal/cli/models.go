package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manuelbieri/shelegia-motta-2021/internal/models"
)

// modelsCmd lists the registered variants and the available presets
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List model variants and parameter presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Model variants:")
		for _, spec := range models.List() {
			fmt.Printf("  %-14s %s\n", spec.ID, spec.Description)
		}

		presets, err := loadPresets()
		if err != nil {
			return err
		}
		fmt.Println("\nPresets:")
		for _, preset := range presets {
			fmt.Printf("  %-16s %s\n", preset.Name, preset.Description)
		}
		return nil
	},
}
