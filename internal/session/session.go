package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"survey-insights-go/internal/survey"
)

var (
	ErrNotConfigured = errors.New("dashboard password not configured")
	ErrWrongPassword = errors.New("incorrect password")
	ErrNoSession     = errors.New("no active session")
	ErrNoDataset     = errors.New("no dataset uploaded")
)

// Dataset is the derived schema of one loaded survey table: the Likert
// columns, their category buckets and the segment filter options. It is
// computed once per load and never re-inspected afterwards.
type Dataset struct {
	Table       *survey.Table
	Likert      []string
	Categories  map[string][]string
	Present     []string // categories with questions, canonical order
	Departments []string
	Tenures     []string
}

// NewDataset infers the typed schema from a loaded table. Missing
// Department/Tenure columns simply yield zero filter options.
func NewDataset(t *survey.Table) *Dataset {
	likert := survey.LikertColumns(t)
	cats := survey.Categorize(likert)
	var present []string
	for _, name := range survey.CategoryOrder() {
		if len(cats[name]) > 0 {
			present = append(present, name)
		}
	}
	return &Dataset{
		Table:       t,
		Likert:      likert,
		Categories:  cats,
		Present:     present,
		Departments: t.Distinct(survey.ColDepartment),
		Tenures:     t.Distinct(survey.ColTenure),
	}
}

// SelectedQuestions expands a category selection into question columns,
// walking categories in canonical order.
func (d *Dataset) SelectedQuestions(categories []string) []string {
	selected := make(map[string]bool, len(categories))
	for _, c := range categories {
		selected[c] = true
	}
	var out []string
	for _, name := range d.Present {
		if selected[name] {
			out = append(out, d.Categories[name]...)
		}
	}
	return out
}

// HasQuestion reports whether name is one of the dataset's Likert columns.
func (d *Dataset) HasQuestion(name string) bool {
	for _, q := range d.Likert {
		if q == name {
			return true
		}
	}
	return false
}

// Filters is the user's current selection state. Defaults select everything
// with both display toggles off.
type Filters struct {
	Departments     []string `json:"departments"`
	Tenures         []string `json:"tenures"`
	Categories      []string `json:"categories"`
	GroupResponses  bool     `json:"group_responses"`
	ExcludeDontKnow bool     `json:"exclude_dont_know"`
}

// Session carries one interactive session: the loaded dataset and the filter
// state, passed explicitly into every aggregation call.
type Session struct {
	Token string

	mu      sync.RWMutex
	dataset *Dataset
	filters Filters
}

// AttachDataset swaps in a newly loaded dataset and resets the filters to
// their defaults.
func (s *Session) AttachDataset(ds *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
	s.filters = Filters{
		Departments: append([]string(nil), ds.Departments...),
		Tenures:     append([]string(nil), ds.Tenures...),
		Categories:  append([]string(nil), ds.Present...),
	}
}

// Snapshot returns the dataset and a copy of the current filters.
func (s *Session) Snapshot() (*Dataset, Filters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, Filters{}, ErrNoDataset
	}
	return s.dataset, s.filters, nil
}

// SetFilters replaces the selection state. Category names are validated
// against the dataset; department and tenure values are not, an unknown
// value just matches no rows.
func (s *Session) SetFilters(f Filters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset == nil {
		return ErrNoDataset
	}
	for _, c := range f.Categories {
		if len(s.dataset.Categories[c]) == 0 {
			return fmt.Errorf("unknown category %q", c)
		}
	}
	s.filters = f
	return nil
}

// Store is the in-memory session registry. The dashboard serves one
// interactive session at a time: a new login replaces the active one.
type Store struct {
	password string

	mu      sync.Mutex
	active  *Session
	preload *Dataset
}

func NewStore(password string) *Store {
	return &Store{password: password}
}

// SetPreload installs a dataset handed to every new session at login, used
// when the service is started against a known export.
func (s *Store) SetPreload(ds *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preload = ds
}

// Login checks the shared password and issues a fresh session token.
func (s *Store) Login(password string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.password == "" {
		return nil, ErrNotConfigured
	}
	if password != s.password {
		return nil, ErrWrongPassword
	}
	sess := &Session{Token: uuid.New().String()}
	if s.preload != nil {
		sess.AttachDataset(s.preload)
	}
	s.active = sess
	return sess, nil
}

// Get resolves a bearer token to the active session.
func (s *Store) Get(token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || token == "" || s.active.Token != token {
		return nil, ErrNoSession
	}
	return s.active, nil
}

// Logout invalidates the active session if the token matches.
func (s *Store) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil && s.active.Token == token {
		s.active = nil
	}
}
