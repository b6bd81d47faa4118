package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campuspulse/activity-rank/internal/model"
	"github.com/campuspulse/activity-rank/internal/ranker"
	"github.com/campuspulse/activity-rank/internal/timeparse"
)

var (
	rankSource     string
	rankSchool     string
	rankCity       string
	rankState      string
	rankLat        float64
	rankLng        float64
	rankHomeSchool string
	rankLang       string
	rankAt         string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank activities by reference location and schedule",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("rank"); err != nil {
			return err
		}

		reg, err := loadRegistry()
		if err != nil {
			return eris.Wrap(err, "load registry")
		}

		records, err := loadRecords(ctx, rankSource)
		if err != nil {
			return eris.Wrap(err, "load records")
		}

		ref := buildReference(cmd)

		now, err := resolveNow(rankAt)
		if err != nil {
			return err
		}

		homeSchool := rankHomeSchool
		if homeSchool == "" {
			homeSchool = cfg.Rank.HomeSchool
		}
		lang := rankLang
		if lang == "" {
			lang = cfg.Rank.Language
		}

		engine := ranker.New(reg)
		result := engine.Rank(records, homeSchool, ref, now)

		cache := timeparse.NewCache(cfg.Cache.MaxEntries)
		annotated := ranker.Annotate(result, cache, lang)

		zap.L().Info("rank complete",
			zap.Int("records", len(annotated)),
			zap.Bool("reference", ref != nil),
		)
		return printJSON(cmd.OutOrStdout(), annotated)
	},
}

// buildReference assembles the reference location from flags, or nil
// when none were set.
func buildReference(cmd *cobra.Command) *model.ReferenceLocation {
	ref := &model.ReferenceLocation{
		School: rankSchool,
		City:   rankCity,
		State:  rankState,
	}
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
		lat, lng := rankLat, rankLng
		ref.Lat, ref.Lng = &lat, &lng
		ref.Source = model.SourceGPS
	} else if ref.School != "" {
		ref.Source = model.SourceUserSchool
	} else {
		ref.Source = model.SourceManual
	}
	if ref.School == "" && ref.City == "" && ref.State == "" && ref.Lat == nil {
		return nil
	}
	return ref
}

func init() {
	rankCmd.Flags().StringVar(&rankSource, "source", "", "snapshot path or URL (defaults to the store)")
	rankCmd.Flags().StringVar(&rankSchool, "school", "", "reference school name")
	rankCmd.Flags().StringVar(&rankCity, "city", "", "reference city name")
	rankCmd.Flags().StringVar(&rankState, "state", "", "reference state name")
	rankCmd.Flags().Float64Var(&rankLat, "lat", 0, "reference latitude")
	rankCmd.Flags().Float64Var(&rankLng, "lng", 0, "reference longitude")
	rankCmd.Flags().StringVar(&rankHomeSchool, "home-school", "", "user home school for tie-breaking")
	rankCmd.Flags().StringVar(&rankLang, "lang", "", "label language (zh or en)")
	rankCmd.Flags().StringVar(&rankAt, "at", "", "evaluate schedules at this RFC 3339 instant")
	rootCmd.AddCommand(rankCmd)
}
