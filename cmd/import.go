package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campuspulse/activity-rank/internal/importer"
)

var importSources []string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import activity snapshots into the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if len(importSources) > 0 {
			cfg.Import.Sources = importSources
		}
		if err := cfg.Validate("import"); err != nil {
			return err
		}
		sources := cfg.Import.Sources

		records, err := importer.New().LoadAll(ctx, sources)
		if err != nil {
			return eris.Wrap(err, "load snapshots")
		}

		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		upserted, err := st.UpsertActivities(ctx, records)
		if err != nil {
			return eris.Wrap(err, "upsert activities")
		}

		zap.L().Info("import complete",
			zap.Int("sources", len(sources)),
			zap.Int("records", len(records)),
			zap.Int("upserted", upserted),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringArrayVar(&importSources, "source", nil, "snapshot path or URL (repeatable)")
	rootCmd.AddCommand(importCmd)
}
