package server

import (
	"net/http"
	"strconv"

	"github.com/campuspulse/activity-rank/internal/store"
	"github.com/campuspulse/activity-rank/internal/tzlabel"
)

func labelFor(tz, date, lang string) string {
	return tzlabel.Label(tz, date, lang)
}

func storeFilter(r *http.Request) store.ActivityFilter {
	q := r.URL.Query()
	filter := store.ActivityFilter{
		TitleContains: q.Get("title"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = offset
	}
	return filter
}
