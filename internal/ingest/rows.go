// Package ingest converts uploaded tabular sources (delimited text or xlsx
// workbooks) into normalized case records and weekly board data.
package ingest

import "strings"

// Row is one data row keyed by header name. Every header of the source is
// present in every row; missing cells are empty strings, so downstream
// code never needs per-row existence checks.
type Row map[string]string

// Get returns the first non-missing value among the given column aliases,
// matching header names case-insensitively. First match wins.
func (r Row) Get(aliases ...string) string {
	for _, alias := range aliases {
		for k, v := range r {
			if strings.EqualFold(strings.TrimSpace(k), alias) {
				return v
			}
		}
	}
	return ""
}

// rowsFromMatrix applies the first matrix row as headers and maps the
// remaining rows. Short rows are padded with empty strings; rows that are
// entirely blank are dropped.
func rowsFromMatrix(matrix [][]string) []Row {
	if len(matrix) == 0 {
		return []Row{}
	}
	headers := make([]string, len(matrix[0]))
	for i, h := range matrix[0] {
		headers[i] = strings.TrimSpace(strings.Trim(h, `"`))
	}

	rows := make([]Row, 0, len(matrix)-1)
	for _, raw := range matrix[1:] {
		row := make(Row, len(headers))
		blank := true
		for i, h := range headers {
			if h == "" {
				continue
			}
			var v string
			if i < len(raw) {
				v = strings.TrimSpace(raw[i])
			}
			if v != "" {
				blank = false
			}
			row[h] = v
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
