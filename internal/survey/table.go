package survey

// Likert response labels, exactly as they appear in the export.
const (
	StronglyAgree    = "Strongly Agree"
	Agree            = "Agree"
	Disagree         = "Disagree"
	StronglyDisagree = "Strongly Disagree"
	DontKnow         = "Don't Know"
)

// Grouped-mode labels.
const (
	Positive = "Positive"
	Negative = "Negative"
)

// Identifier columns produced by the loader renames.
const (
	ColRespondentID = "Respondent_ID"
	ColDepartment   = "Department"
	ColTenure       = "Tenure"
)

// Table is a row-oriented survey dataset. One row per respondent, column
// names carry the full question text. An empty cell is a missing response.
// Tables are immutable after construction; Filter and Where return derived
// tables sharing the same backing rows.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

func NewTable(cols []string, rows [][]string) *Table {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}
	return &Table{cols: cols, index: index, rows: rows}
}

// Columns returns the column names in source order.
func (t *Table) Columns() []string { return t.cols }

// Len is the number of respondent rows.
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// cell tolerates ragged rows, reading past the end as missing.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// ColumnValues returns the non-missing values of a column in row order.
// Unknown columns yield nil.
func (t *Table) ColumnValues(name string) []string {
	idx, ok := t.index[name]
	if !ok {
		return nil
	}
	var out []string
	for _, row := range t.rows {
		if v := cell(row, idx); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Distinct returns the distinct non-missing values of a column in
// first-seen order.
func (t *Table) Distinct(name string) []string {
	idx, ok := t.index[name]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.rows {
		v := cell(row, idx)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Filter keeps rows whose Department and Tenure values are members of the
// given selections. A dimension whose column is absent from the table passes
// every row; when the column exists, rows with a missing cell never match an
// active selection.
func (t *Table) Filter(departments, tenures []string) *Table {
	deptIdx, hasDept := t.index[ColDepartment]
	tenIdx, hasTenure := t.index[ColTenure]
	if !hasDept && !hasTenure {
		return t
	}
	deptSet := toSet(departments)
	tenSet := toSet(tenures)
	var kept [][]string
	for _, row := range t.rows {
		if hasDept && !deptSet[cell(row, deptIdx)] {
			continue
		}
		if hasTenure && !tenSet[cell(row, tenIdx)] {
			continue
		}
		kept = append(kept, row)
	}
	return &Table{cols: t.cols, index: t.index, rows: kept}
}

// Where keeps rows whose named column equals value exactly.
func (t *Table) Where(name, value string) *Table {
	idx, ok := t.index[name]
	if !ok {
		return &Table{cols: t.cols, index: t.index}
	}
	var kept [][]string
	for _, row := range t.rows {
		if cell(row, idx) == value {
			kept = append(kept, row)
		}
	}
	return &Table{cols: t.cols, index: t.index, rows: kept}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
