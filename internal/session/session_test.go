package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"survey-insights-go/internal/survey"
)

func sampleDataset() *Dataset {
	cols := []string{
		survey.ColRespondentID,
		survey.ColDepartment,
		survey.ColTenure,
		"We put customers first.",
		"We take ownership of decisions.",
	}
	rows := [][]string{
		{"1", "Engineering", "0-2 years", "Agree", "Strongly Agree"},
		{"2", "Sales", "3-5 years", "Disagree", "Don't Know"},
	}
	return NewDataset(survey.NewTable(cols, rows))
}

func TestNewDatasetInfersSchema(t *testing.T) {
	ds := sampleDataset()

	assert.Equal(t, []string{"We put customers first.", "We take ownership of decisions."}, ds.Likert)
	assert.Equal(t, []string{survey.CategoryCustomer, survey.CategoryAccountability}, ds.Present)
	assert.Equal(t, []string{"Engineering", "Sales"}, ds.Departments)
	assert.Equal(t, []string{"0-2 years", "3-5 years"}, ds.Tenures)
}

func TestNewDatasetMissingSegmentColumns(t *testing.T) {
	table := survey.NewTable([]string{"We put customers first."}, [][]string{{"Agree"}})
	ds := NewDataset(table)

	assert.Empty(t, ds.Departments)
	assert.Empty(t, ds.Tenures)
	assert.Equal(t, []string{"We put customers first."}, ds.Likert)
}

func TestSelectedQuestionsFollowsCanonicalOrder(t *testing.T) {
	ds := sampleDataset()

	// selection order does not matter, canonical category order does
	got := ds.SelectedQuestions([]string{survey.CategoryAccountability, survey.CategoryCustomer})
	assert.Equal(t, []string{"We put customers first.", "We take ownership of decisions."}, got)

	assert.Empty(t, ds.SelectedQuestions(nil))
}

func TestLogin(t *testing.T) {
	store := NewStore("secret")

	_, err := store.Login("wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	sess, err := store.Login("secret")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	got, err := store.Get(sess.Token)
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestLoginUnconfiguredPassword(t *testing.T) {
	store := NewStore("")
	_, err := store.Login("")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLoginReplacesActiveSession(t *testing.T) {
	store := NewStore("secret")

	first, err := store.Login("secret")
	require.NoError(t, err)
	second, err := store.Login("secret")
	require.NoError(t, err)

	_, err = store.Get(first.Token)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = store.Get(second.Token)
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	store := NewStore("secret")
	sess, err := store.Login("secret")
	require.NoError(t, err)

	store.Logout("not the token") // no-op
	_, err = store.Get(sess.Token)
	require.NoError(t, err)

	store.Logout(sess.Token)
	_, err = store.Get(sess.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAttachDatasetResetsFilters(t *testing.T) {
	sess := &Session{Token: "t"}
	_, _, err := sess.Snapshot()
	assert.ErrorIs(t, err, ErrNoDataset)

	ds := sampleDataset()
	sess.AttachDataset(ds)

	got, filters, err := sess.Snapshot()
	require.NoError(t, err)
	assert.Same(t, ds, got)
	assert.Equal(t, ds.Departments, filters.Departments)
	assert.Equal(t, ds.Tenures, filters.Tenures)
	assert.Equal(t, ds.Present, filters.Categories)
	assert.False(t, filters.GroupResponses)
	assert.False(t, filters.ExcludeDontKnow)
}

func TestSetFilters(t *testing.T) {
	sess := &Session{Token: "t"}
	err := sess.SetFilters(Filters{})
	assert.ErrorIs(t, err, ErrNoDataset)

	sess.AttachDataset(sampleDataset())

	err = sess.SetFilters(Filters{Categories: []string{"No Such Category"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")

	want := Filters{
		Departments:     []string{"Engineering"},
		Categories:      []string{survey.CategoryCustomer},
		GroupResponses:  true,
		ExcludeDontKnow: true,
	}
	require.NoError(t, sess.SetFilters(want))

	_, got, err := sess.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStorePreloadAttachesAtLogin(t *testing.T) {
	store := NewStore("secret")
	store.SetPreload(sampleDataset())

	sess, err := store.Login("secret")
	require.NoError(t, err)

	ds, filters, err := sess.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Table.Len())
	assert.Equal(t, ds.Departments, filters.Departments)
}
