package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeJSONRows reads a JSON array of snapshot rows, decoding one
// element at a time so a large export is never buffered twice. The
// input must be a top-level array; an empty reader yields no rows.
func DecodeJSONRows[T any](ctx context.Context, r io.Reader) ([]T, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "json: read opening token")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, eris.Errorf("json: expected '[', got %v", tok)
	}

	var out []T
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "json: decode cancelled")
		}
		var row T
		if err := dec.Decode(&row); err != nil {
			return nil, eris.Wrap(err, "json: decode row")
		}
		out = append(out, row)
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, eris.Wrap(err, "json: read closing token")
	}
	return out, nil
}
