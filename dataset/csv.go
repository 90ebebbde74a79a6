package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Column aliases accepted in upload headers, lowercased and space-trimmed.
// "state_name" style headers show up in older exports of the same dataset.
var columnAliases = map[string]string{
	"state":         "state",
	"state_name":    "state",
	"district":      "district",
	"district_name": "district",
	"crop":          "crop",
	"season":        "season",
	"year":          "year",
	"crop_year":     "year",
	"area":          "area",
	"production":    "production",
}

// ReadCSV parses a CSV stream into raw rows using the header line to locate
// columns. Unknown columns are ignored; malformed lines are skipped rather
// than failing the whole upload.
func ReadCSV(r io.Reader) ([]RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []RawRow
	for {
		line, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, rowFromLine(line, idx))
	}
	return rows, nil
}

// mapColumns resolves header names to canonical field indexes. Crop is the
// one column an upload cannot do without.
func mapColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		if canon, ok := columnAliases[key]; ok {
			if _, dup := idx[canon]; !dup {
				idx[canon] = i
			}
		}
	}
	if _, ok := idx["crop"]; !ok {
		return nil, fmt.Errorf("no crop column in header %v", header)
	}
	return idx, nil
}

func rowFromLine(line []string, idx map[string]int) RawRow {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(line) {
			return ""
		}
		return line[i]
	}
	return RawRow{
		State:      field("state"),
		District:   field("district"),
		Crop:       field("crop"),
		Season:     field("season"),
		Year:       field("year"),
		Area:       field("area"),
		Production: field("production"),
	}
}
