package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifierTable() *Table {
	cols := []string{
		ColRespondentID,
		ColDepartment,
		ColTenure,
		"We put customers first.",
		"We take ownership of decisions.",
		"Open-Ended Response",
		"General comments",
	}
	rows := [][]string{
		{"1", "Engineering", "0-2 years", "Agree", "meh", "free text", "more text"},
		{"2", "Sales", "3-5 years", "Disagree", "Strongly Agree", "", "other text"},
	}
	return NewTable(cols, rows)
}

func TestLikertColumns(t *testing.T) {
	cols := LikertColumns(classifierTable())

	// identifier columns, open-ended columns and pure free-text columns are
	// out; a mixed column with one Likert value still qualifies
	assert.Equal(t, []string{
		"We put customers first.",
		"We take ownership of decisions.",
	}, cols)
}

func TestLikertColumnsEmptyTable(t *testing.T) {
	table := NewTable([]string{ColRespondentID, "Q"}, nil)
	assert.Empty(t, LikertColumns(table))
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"We put our customers first.", CategoryCustomer},
		{"We own our customer relationships.", CategoryCustomer}, // customer outranks own
		{"We are not afraid to try new things.", CategoryInnovation},
		{"We make bold moves.", CategoryInnovation},
		{"We hold ourselves to a high standard.", CategoryExcellence},
		{"I take pride in what I deliver.", CategoryExcellence},
		{"We take ownership of decisions.", CategoryAccountability},
		{"People are held accountable here.", CategoryAccountability},
		{"My manager helps me when I am stuck.", CategorySupportive},
		{"I understand the company mission.", CategoryCulture},
		{"I would recommend working here to a friend.", CategoryCulture},
		{"I am not anxious about the acquisition.", CategoryGrowth},
		{"Nothing here matches any keyword.", CategoryOther},
		{"WE PUT OUR CUSTOMERS FIRST.", CategoryCustomer}, // matching is case-insensitive
	}
	for _, tc := range tests {
		t.Run(tc.question, func(t *testing.T) {
			assert.Equal(t, tc.want, CategoryFor(tc.question))
		})
	}
}

func TestCategorizeOmitsEmptyCategories(t *testing.T) {
	cats := Categorize([]string{
		"We put customers first.",
		"Our customers trust us.",
		"Nothing here matches any keyword.",
	})

	require.Len(t, cats, 2)
	assert.Equal(t, []string{"We put customers first.", "Our customers trust us."}, cats[CategoryCustomer])
	assert.Equal(t, []string{"Nothing here matches any keyword."}, cats[CategoryOther])
	_, ok := cats[CategoryInnovation]
	assert.False(t, ok)
}

func TestCategorizeAssignsEveryColumnOnce(t *testing.T) {
	cols := LikertColumns(classifierTable())
	cats := Categorize(cols)

	total := 0
	for _, qs := range cats {
		total += len(qs)
	}
	assert.Equal(t, len(cols), total)
}

func TestCategoryOrderIsStable(t *testing.T) {
	order := CategoryOrder()
	require.Len(t, order, 8)
	assert.Equal(t, CategoryCustomer, order[0])
	assert.Equal(t, CategoryOther, order[7])

	// callers may mutate their copy freely
	order[0] = "mutated"
	assert.Equal(t, CategoryCustomer, CategoryOrder()[0])
}
