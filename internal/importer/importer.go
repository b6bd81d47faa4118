package importer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campuspulse/activity-rank/internal/fetcher"
	"github.com/campuspulse/activity-rank/internal/model"
)

// maxConcurrentSources bounds parallel snapshot loads.
const maxConcurrentSources = 4

// Importer resolves snapshot sources and parses them into activity
// records. Disabled rows are dropped during parsing.
type Importer struct {
	http fetcher.Fetcher
	ftp  fetcher.Fetcher
}

// New creates an Importer with default HTTP and FTP fetchers.
func New() *Importer {
	return &Importer{
		http: fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}),
		ftp:  fetcher.NewFTPFetcher(fetcher.FTPOptions{}),
	}
}

// Load reads one snapshot source. The source may be a local path or an
// http(s)/ftp URL; the format is inferred from the file extension
// (.json, .csv, .xlsx).
func (im *Importer) Load(ctx context.Context, source string) ([]model.ActivityRecord, error) {
	path, cleanup, err := im.localize(ctx, source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var records []model.ActivityRecord
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		records, err = parseJSON(ctx, path)
	case ".csv":
		records, err = parseCSV(path)
	case ".xlsx":
		records, err = parseXLSX(path)
	default:
		return nil, eris.Errorf("importer: unsupported snapshot format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("importer: loaded snapshot",
		zap.String("source", source),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// LoadAll reads several snapshot sources concurrently and returns the
// combined records ordered by source, then row order. A failure in any
// source fails the whole load.
func (im *Importer) LoadAll(ctx context.Context, sources []string) ([]model.ActivityRecord, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSources)

	var mu sync.Mutex
	bySource := make(map[int][]model.ActivityRecord, len(sources))

	for i, source := range sources {
		g.Go(func() error {
			records, err := im.Load(ctx, source)
			if err != nil {
				return eris.Wrapf(err, "importer: load %s", source)
			}
			mu.Lock()
			bySource[i] = records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	order := make([]int, 0, len(bySource))
	for i := range bySource {
		order = append(order, i)
	}
	sort.Ints(order)

	var out []model.ActivityRecord
	for _, i := range order {
		out = append(out, bySource[i]...)
	}
	return out, nil
}

// localize makes sure the source is available as a local file,
// downloading remote URLs into a temp file first.
func (im *Importer) localize(ctx context.Context, source string) (string, func(), error) {
	nop := func() {}

	var f fetcher.Fetcher
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		f = im.http
	case strings.HasPrefix(source, "ftp://"):
		f = im.ftp
	default:
		return source, nop, nil
	}

	tmp, err := os.CreateTemp("", "snapshot-*"+filepath.Ext(source))
	if err != nil {
		return "", nop, eris.Wrap(err, "importer: create temp file")
	}
	tmp.Close() //nolint:errcheck

	if _, err := f.DownloadToFile(ctx, source, tmp.Name()); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck
		return "", nop, err
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil //nolint:errcheck
}

func parseJSON(ctx context.Context, path string) ([]model.ActivityRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open json")
	}
	defer file.Close() //nolint:errcheck

	rows, err := fetcher.DecodeJSONRows[snapshotRow](ctx, file)
	if err != nil {
		return nil, err
	}

	var out []model.ActivityRecord
	for _, row := range rows {
		if !row.enabled() {
			continue
		}
		out = append(out, row.toRecord())
	}
	return out, nil
}

func parseCSV(path string) ([]model.ActivityRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open csv")
	}
	defer file.Close() //nolint:errcheck

	rows, err := fetcher.ReadCSV(file, fetcher.CSVOptions{})
	if err != nil {
		return nil, err
	}
	return recordsFromTable(rows), nil
}

func parseXLSX(path string) ([]model.ActivityRecord, error) {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	if err != nil {
		return nil, err
	}
	return recordsFromTable(rows), nil
}

// recordsFromTable converts header-led tabular rows. An empty table or
// a header-only table yields no records.
func recordsFromTable(rows [][]string) []model.ActivityRecord {
	if len(rows) < 2 {
		return nil
	}
	cols := headerIndex(rows[0])

	var out []model.ActivityRecord
	for _, cells := range rows[1:] {
		row := rowFromCells(cells, cols)
		if !row.enabled() {
			continue
		}
		if row.Name == "" {
			continue
		}
		out = append(out, row.toRecord())
	}
	return out
}
