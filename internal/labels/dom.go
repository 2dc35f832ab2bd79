package labels

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ironsheep/ssodetect/internal/provider"
)

// domURLColumn is the CSV column holding the crawled site URL.
const domURLColumn = 2

// domColumns lists the label keys stored in columns 8 onward of the DOM
// inference export, in column order.
var domColumns = append([]string{provider.FirstParty}, provider.Supported()...)

const domFirstColumn = 8

// ReadDOMInference reads the crawler's DOM-inference CSV.
//
// Each row describes one crawled site:
//
//	rank,time,url,landing_url,shot0,shot1,html0,html1,first,amazon,apple,github,google,facebook,linkedin,microsoft,twitter,yahoo
//
// The site key is the hostname of the url column. Label columns must hold 0
// or 1. A host appearing twice keeps its last row.
func ReadDOMInference(r io.Reader) (map[string]Vector, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	out := make(map[string]Vector)
	minCols := domFirstColumn + len(domColumns)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dom inference: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(rec) < minCols {
			return nil, fmt.Errorf("dom inference line %d: want at least %d columns, got %d", line, minCols, len(rec))
		}

		host, err := HostFromURL(rec[domURLColumn])
		if err != nil {
			return nil, fmt.Errorf("dom inference line %d: %w", line, err)
		}

		v := make(Vector, len(domColumns))
		for i, key := range domColumns {
			bit, err := parseBit(rec[domFirstColumn+i])
			if err != nil {
				return nil, fmt.Errorf("dom inference line %d column %s: %w", line, key, err)
			}
			v[key] = bit
		}

		if _, dup := out[host]; dup {
			slog.Debug("duplicate dom inference row", "site", host, "line", line)
		}
		out[host] = v
	}
	return out, nil
}

func parseBit(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("want 0 or 1, got %q", s)
}
