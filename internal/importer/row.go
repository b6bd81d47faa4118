// Package importer loads activity snapshot exports into domain
// records. Snapshots arrive as JSON arrays, CSV sheets, or XLSX
// workbooks, locally or from HTTP/FTP drop boxes.
package importer

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campuspulse/activity-rank/internal/model"
)

// snapshotRow mirrors one backend export row. Field names follow the
// upstream API payload.
type snapshotRow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	SignStatus *int   `json:"signStatus"`
	TimeZone   string `json:"timeZone"`
	Enabled    *bool  `json:"enabled"`
}

// Layouts accepted for export timestamps when pre-parsing instants.
var rowLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// enabled reports whether the row should be imported. Absent means
// enabled; only an explicit false filters the row out.
func (r snapshotRow) enabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// toRecord maps an export row to a domain record. Raw timestamp
// strings are preserved verbatim; instants are parsed best-effort and
// left zero when the raw value is unusable.
func (r snapshotRow) toRecord() model.ActivityRecord {
	return model.ActivityRecord{
		ID:           strings.TrimSpace(r.ID),
		Title:        strings.TrimSpace(r.Name),
		AddressText:  strings.TrimSpace(r.Address),
		StartRaw:     strings.TrimSpace(r.StartTime),
		EndRaw:       strings.TrimSpace(r.EndTime),
		StartInstant: parseInstant(r.StartTime),
		EndInstant:   parseInstant(r.EndTime),
		TimeZone:     strings.TrimSpace(r.TimeZone),
		SignStatus:   r.SignStatus,
	}
}

func parseInstant(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range rowLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	zap.L().Debug("importer: unparseable timestamp", zap.String("raw", raw))
	return time.Time{}
}

// rowFromCells builds a snapshotRow from a tabular export row using
// the header-derived column index map.
func rowFromCells(cells []string, cols map[string]int) snapshotRow {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(cells) {
			return ""
		}
		return cells[i]
	}

	row := snapshotRow{
		ID:        get("id"),
		Name:      get("name"),
		Address:   get("address"),
		StartTime: get("starttime"),
		EndTime:   get("endtime"),
		TimeZone:  get("timezone"),
	}

	if raw := strings.TrimSpace(get("signstatus")); raw != "" {
		if code, err := strconv.Atoi(raw); err == nil {
			row.SignStatus = &code
		}
	}
	if raw := strings.TrimSpace(get("enabled")); raw != "" {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			row.Enabled = &enabled
		}
	}
	return row
}

// headerIndex maps lowercased header names to column positions.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}
