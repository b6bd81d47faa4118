package main

import (
	"github.com/spf13/cobra"

	"github.com/campuspulse/activity-rank/internal/tzlabel"
)

var (
	labelTZ   string
	labelDate string
	labelLang string
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Resolve a timezone descriptor to a display label",
	RunE: func(cmd *cobra.Command, _ []string) error {
		lang := labelLang
		if lang == "" {
			lang = cfg.Rank.Language
		}
		out := map[string]string{
			"timezone": labelTZ,
			"label":    tzlabel.Label(labelTZ, labelDate, lang),
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	labelCmd.Flags().StringVar(&labelTZ, "tz", "", "timezone descriptor (required)")
	labelCmd.Flags().StringVar(&labelDate, "date", "", "record date, YYYY-MM-DD (controls DST)")
	labelCmd.Flags().StringVar(&labelLang, "lang", "", "label language (zh or en)")
	_ = labelCmd.MarkFlagRequired("tz")
	rootCmd.AddCommand(labelCmd)
}
