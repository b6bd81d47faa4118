package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/campuspulse/activity-rank/internal/geo"
)

var (
	nearestLat float64
	nearestLng float64
)

var nearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: "Find the nearest known school and city to a coordinate",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return eris.Wrap(err, "load registry")
		}

		locator := geo.NewLocator(reg)
		school := locator.FindNearestSchool(nearestLat, nearestLng)
		city := locator.FindNearestCity(nearestLat, nearestLng)

		out := map[string]any{}
		if school != nil {
			out["school"] = school
		}
		if city != nil {
			out["city"] = city
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	nearestCmd.Flags().Float64Var(&nearestLat, "lat", 0, "latitude (required)")
	nearestCmd.Flags().Float64Var(&nearestLng, "lng", 0, "longitude (required)")
	_ = nearestCmd.MarkFlagRequired("lat")
	_ = nearestCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(nearestCmd)
}
