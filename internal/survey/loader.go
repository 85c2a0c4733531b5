package survey

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// The export carries two header rows: row 1 holds the full question text,
// row 2 the short codes / sub-labels used by the survey tool. Data starts at
// row 3. Column names come from row 1; row 2 is only checked for width.

var columnRenames = map[string]string{
	"Please check the Department or Team you primarily work with.": ColDepartment,
	"How long have you been with Rocscience?":                      ColTenure,
	"Respondent ID":                                                ColRespondentID,
}

// Load sniffs the export format and parses it into a Table.
func Load(data []byte) (*Table, error) {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return LoadXLSX(bytes.NewReader(data))
	}
	return LoadCSV(bytes.NewReader(data))
}

// LoadCSV parses a Windows-1252 encoded CSV export.
func LoadCSV(r io.Reader) (*Table, error) {
	dec := transform.NewReader(r, charmap.Windows1252.NewDecoder())
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1 // widths are validated against the header rows below
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return fromRows(rows)
}

// LoadXLSX applies the same two-header convention to the first sheet of an
// Excel export.
func LoadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) (*Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("expected two header rows, got %d rows", len(rows))
	}
	questions := rows[0]
	codes := rows[1]
	if len(codes) != len(questions) {
		return nil, fmt.Errorf("header rows disagree: %d question columns vs %d code columns", len(questions), len(codes))
	}

	names := make([]string, len(questions))
	for i, q := range questions {
		if renamed, ok := columnRenames[q]; ok {
			q = renamed
		}
		names[i] = q
	}

	// Columns excluded from all analysis.
	var keep []int
	for i, name := range names {
		if strings.Contains(name, "Other (please specify)") || name == "Response" {
			continue
		}
		keep = append(keep, i)
	}

	cols := make([]string, len(keep))
	for i, idx := range keep {
		cols[i] = names[idx]
	}
	data := make([][]string, 0, len(rows)-2)
	for _, row := range rows[2:] {
		out := make([]string, len(keep))
		for i, idx := range keep {
			out[i] = cell(row, idx)
		}
		data = append(data, out)
	}
	return NewTable(cols, data), nil
}
