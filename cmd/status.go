package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/campuspulse/activity-rank/internal/schedule"
)

var (
	statusSource string
	statusAt     string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Resolve the display status of each activity in a snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("rank"); err != nil {
			return err
		}

		records, err := loadRecords(ctx, statusSource)
		if err != nil {
			return eris.Wrap(err, "load records")
		}

		now, err := resolveNow(statusAt)
		if err != nil {
			return err
		}

		type row struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Status string `json:"status"`
		}
		out := make([]row, 0, len(records))
		for i := range records {
			rec := &records[i]
			out = append(out, row{
				ID:     rec.ID,
				Title:  rec.Title,
				Status: string(schedule.ResolveStatus(rec.SignStatus, rec, now)),
			})
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusSource, "source", "", "snapshot path or URL (defaults to the store)")
	statusCmd.Flags().StringVar(&statusAt, "at", "", "evaluate schedules at this RFC 3339 instant")
	rootCmd.AddCommand(statusCmd)
}
