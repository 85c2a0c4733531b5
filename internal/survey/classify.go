package survey

import "strings"

// Thematic question categories.
const (
	CategoryCustomer       = "Customer Focused"
	CategoryInnovation     = "Innovation"
	CategoryExcellence     = "Excellence"
	CategoryAccountability = "Accountability"
	CategorySupportive     = "Supportive"
	CategoryCulture        = "Culture & Values Awareness"
	CategoryGrowth         = "Growth & Change"
	CategoryOther          = "Other"
)

var categoryOrder = []string{
	CategoryCustomer,
	CategoryInnovation,
	CategoryExcellence,
	CategoryAccountability,
	CategorySupportive,
	CategoryCulture,
	CategoryGrowth,
	CategoryOther,
}

// CategoryOrder returns the canonical display order of the eight categories.
func CategoryOrder() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

var likertLabels = map[string]bool{
	StronglyAgree:    true,
	Agree:            true,
	Disagree:         true,
	StronglyDisagree: true,
	DontKnow:         true,
}

// IsLikertLabel reports whether v is one of the five scale labels,
// case- and spelling-exact.
func IsLikertLabel(v string) bool { return likertLabels[v] }

// LikertColumns returns the question columns holding Likert responses, in
// table column order. Identifier columns and open-ended questions are
// excluded; a column qualifies as soon as any of its distinct values is one
// of the five labels, so mixed columns with stray text still count.
func LikertColumns(t *Table) []string {
	var out []string
	for _, col := range t.Columns() {
		if col == ColRespondentID || col == ColDepartment || col == ColTenure {
			continue
		}
		if strings.HasPrefix(col, "Open-Ended") {
			continue
		}
		for _, v := range t.Distinct(col) {
			if IsLikertLabel(v) {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

// Keyword rules in strict priority order, first match wins. The order is
// load-bearing: "own" would otherwise steal questions from later buckets.
var categoryRules = []struct {
	name     string
	keywords []string
}{
	{CategoryCustomer, []string{"customer"}},
	{CategoryInnovation, []string{"innov", "new", "bold"}},
	{CategoryExcellence, []string{"excellence", "high standard", "deliver great", "pride", "best"}},
	{CategoryAccountability, []string{"accountab", "own"}},
	{CategorySupportive, []string{"support", "help", "encourag"}},
	{CategoryCulture, []string{"value", "culture", "mission", "recommend"}},
	{CategoryGrowth, []string{"growth", "change", "acquisition", "anxious", "expand"}},
}

// CategoryFor assigns one question text to a category.
func CategoryFor(question string) string {
	lower := strings.ToLower(question)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.name
			}
		}
	}
	return CategoryOther
}

// Categorize buckets question columns by theme. Every column lands in
// exactly one category; empty categories are omitted and in-category order
// follows the input order.
func Categorize(cols []string) map[string][]string {
	out := make(map[string][]string)
	for _, col := range cols {
		cat := CategoryFor(col)
		out[cat] = append(out[cat], col)
	}
	return out
}
