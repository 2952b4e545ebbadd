package cmd

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	fermentation "vineyard-planner/internal/fermentation/domain"
	production "vineyard-planner/internal/production/domain"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Derived winemaking calculators",
}

var calcSO2Cmd = &cobra.Command{
	Use:   "so2 <ph> [volume-gallons]",
	Short: "Recommended free SO2 for a pH, and the KMBS dose for a volume",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ph, err := parseArg(args[0], "ph")
		if err != nil {
			return err
		}
		ppm, _ := fermentation.RecommendedSO2(&ph)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Recommended free SO2: %.0f ppm\n", ppm)
		if len(args) == 2 {
			volume, err := parseArg(args[1], "volume")
			if err != nil {
				return err
			}
			if grams, ok := fermentation.SO2Grams(&ppm, &volume); ok {
				fmt.Fprintf(out, "KMBS to add: %.2f g\n", grams)
			}
		}
		return nil
	},
}

var calcYeastCmd = &cobra.Command{
	Use:   "yeast <varietal>",
	Short: "Recommended yeast strain for a varietal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		varietal := ""
		if len(args) == 1 {
			varietal = args[0]
		}
		code := fermentation.RecommendYeast(varietal)
		strain, ok := fermentation.LookupYeast(code)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s), %s, alcohol tolerance %s\n",
			strain.Code, strain.DisplayName, strain.TempRange, strain.AlcoholTolerance)
		return nil
	},
}

var calcCrushCmd = &cobra.Command{
	Use:   "crush <weight-lbs>",
	Short: "Expected juice yield in gallons for a fruit weight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := parseArg(args[0], "weight")
		if err != nil {
			return err
		}
		varietal, _ := cmd.Flags().GetString("varietal")
		white := production.IsWhiteVarietal(varietal)
		if cmd.Flags().Changed("white") {
			white, _ = cmd.Flags().GetBool("white")
		}
		gallons := production.CrushYieldGallons(weight, white)
		fmt.Fprintf(cmd.OutOrStdout(), "Expected yield: %.1f gal (~%d cases)\n", gallons, production.EstimatedCases(gallons))
		return nil
	},
}

var calcCasesCmd = &cobra.Command{
	Use:   "cases <volume-gallons>",
	Short: "Estimated 750ml cases for a volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		volume, err := parseArg(args[0], "volume")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Estimated cases: %d\n", production.EstimatedCases(volume))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.AddCommand(calcSO2Cmd, calcYeastCmd, calcCrushCmd, calcCasesCmd)
	calcCrushCmd.Flags().Bool("white", false, "Use the white grape yield")
	calcCrushCmd.Flags().String("varietal", "", "Infer white or red yield from the varietal name")
}

func parseArg(raw, name string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return value, nil
}
