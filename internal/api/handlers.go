package api

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"survey-insights-go/internal/logger"
	"survey-insights-go/internal/session"
	"survey-insights-go/internal/survey"
)

const maxUploadBytes = 20 * 1024 * 1024 // 20MB

type Handler struct {
	Log   *logger.Logger
	Store *session.Store
	Cache *survey.Cache
}

func NewHandler(log *logger.Logger, store *session.Store, cache *survey.Cache) *Handler {
	return &Handler{Log: log, Store: store, Cache: cache}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Post("/api/login", h.Login)

	r.Post("/api/logout", h.withSession(h.Logout))
	r.Post("/api/upload", h.withSession(h.Upload))
	r.Get("/api/filters", h.withSession(h.GetFilters))
	r.Put("/api/filters", h.withSession(h.SetFilters))
	r.Get("/api/overview", h.withSession(h.Overview))
	r.Get("/api/segments/department", h.withSession(h.SegmentsByDepartment))
	r.Get("/api/segments/tenure", h.withSession(h.SegmentsByTenure))
	r.Get("/api/questions", h.withSession(h.Questions))
	r.Get("/api/question", h.withSession(h.QuestionDetail))
	r.Get("/api/heatmap/categories", h.withSession(h.CategoryHeatmap))
	r.Get("/api/heatmap/questions", h.withSession(h.QuestionHeatmap))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// withSession resolves the bearer token before running the handler.
func (h *Handler) withSession(next func(http.ResponseWriter, *http.Request, *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		sess, err := h.Store.Get(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next(w, r, sess)
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	reqLog := h.Log.WithRequest(r).WithField("handler", "login")
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess, err := h.Store.Login(req.Password)
	switch {
	case errors.Is(err, session.ErrNotConfigured):
		reqLog.WithError(err).Error("login unavailable")
		writeError(w, http.StatusInternalServerError, "dashboard password not configured")
		return
	case errors.Is(err, session.ErrWrongPassword):
		reqLog.Warn("incorrect password")
		writeError(w, http.StatusUnauthorized, "incorrect password")
		return
	case err != nil:
		reqLog.WithError(err).Error("login failed")
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	reqLog.Info("session opened")
	writeJSON(w, http.StatusOK, loginResponse{Token: sess.Token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	h.Store.Logout(sess.Token)
	h.Log.WithRequest(r).Info("session closed")
	w.WriteHeader(http.StatusNoContent)
}

// Upload parses a survey export and attaches it to the session. A parse
// failure reports one user-facing error and leaves the previous dataset in
// place; no partial table is ever exposed.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	reqLog := h.Log.WithRequest(r).WithField("handler", "upload")
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		reqLog.WithError(err).Warn("upload read failed")
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}
	reqLog = reqLog.WithField("filename", header.Filename).WithField("bytes", len(data))

	table, err := h.Cache.Load(data)
	if err != nil {
		reqLog.WithError(err).Warn("survey load failed")
		writeError(w, http.StatusUnprocessableEntity, "error loading survey file: "+err.Error())
		return
	}
	ds := session.NewDataset(table)
	sess.AttachDataset(ds)
	reqLog.WithField("respondents", table.Len()).WithField("likert_columns", len(ds.Likert)).Info("dataset loaded")

	writeJSON(w, http.StatusOK, uploadResponse{
		Respondents: table.Len(),
		Questions:   len(ds.Likert),
		Categories:  ds.Present,
		Departments: ds.Departments,
		Tenures:     ds.Tenures,
	})
}

func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	_, filters, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusConflict, "no dataset uploaded")
		return
	}
	writeJSON(w, http.StatusOK, filters)
}

func (h *Handler) SetFilters(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var filters session.Filters
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sess.SetFilters(filters); err != nil {
		if errors.Is(err, session.ErrNoDataset) {
			writeError(w, http.StatusConflict, "no dataset uploaded")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, filters)
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ds, f, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusConflict, "no dataset uploaded")
		return
	}
	filtered := ds.Table.Filter(f.Departments, f.Tenures)
	questions := ds.SelectedQuestions(f.Categories)
	dist := survey.ResponseDistribution(filtered, questions, f.GroupResponses, f.ExcludeDontKnow)

	resp := overviewResponse{
		TotalResponses:    filtered.Len(),
		SelectedQuestions: len(questions),
		NoData:            dist.Total() == 0,
		Distribution:      orderedCounts(dist, f.GroupResponses, f.ExcludeDontKnow),
	}
	if f.GroupResponses {
		resp.HeadlineLabel = "Positive Responses"
		resp.HeadlinePct = dist.PositiveRate()
	} else {
		resp.HeadlineLabel = "Agree + Strongly Agree"
		resp.HeadlinePct = dist.AgreeRate()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SegmentsByDepartment(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	h.segments(w, sess, survey.ColDepartment, "department")
}

func (h *Handler) SegmentsByTenure(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	h.segments(w, sess, survey.ColTenure, "tenure")
}

func (h *Handler) segments(w http.ResponseWriter, sess *session.Session, col, dimension string) {
	ds, f, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusConflict, "no dataset uploaded")
		return
	}
	filtered := ds.Table.Filter(f.Departments, f.Tenures)
	questions := ds.SelectedQuestions(f.Categories)

	values := f.Departments
	if col == survey.ColTenure {
		values = f.Tenures
	}
	out := segmentsResponse{Dimension: dimension}
	for _, value := range values {
		seg := filtered.Where(col, value)
		dist := survey.ResponseDistribution(seg, questions, f.GroupResponses, f.ExcludeDontKnow)
		if dist.Total() == 0 {
			continue
		}
		out.Segments = append(out.Segments, segmentDistribution{
			Segment:      value,
			Total:        dist.Total(),
			Distribution: orderedCounts(dist, f.GroupResponses, f.ExcludeDontKnow),
		})
	}
	out.NoData = len(out.Segments) == 0
	writeJSON(w, http.StatusOK, out)
}

// Questions lists the selected question columns, optionally filtered by a
// case-insensitive substring search.
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ds, f, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusConflict, "no dataset uploaded")
		return
	}
	questions := ds.SelectedQuestions(f.Categories)
	shown := questions
	if q := r.URL.Query().Get("q"); q != "" {
		lower := strings.ToLower(q)
		shown = nil
		for _, question := range questions {
			if strings.Contains(strings.ToLower(question), lower) {
				shown = append(shown, question)
			}
		}
	}
	writeJSON(w, http.StatusOK, questionsResponse{
		Total:     len(questions),
		Shown:     len(shown),
		Questions: shown,
	})
}

func (h *Handler) QuestionDetail(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ds, f, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusConflict, "no dataset uploaded")
		return
	}
	name := r.URL.Query().Get("name")
	if !ds.HasQuestion(name) {
		writeError(w, http.StatusNotFound, "unknown question")
		return
	}
	filtered := ds.Table.Filter(f.Departments, f.Tenures)
	cols := []string{name}
	dist := survey.ResponseDistribution(filtered, cols, f.GroupResponses, f.ExcludeDontKnow)

	resp := questionDetailResponse{
		Question:     name,
		Total:        dist.Total(),
		NoData:       dist.Total() == 0,
		Metrics:      headlineMetrics(dist, f.GroupResponses),
		Distribution: orderedCounts(dist, f.GroupResponses, f.ExcludeDontKnow),
	}
	for _, dept := range f.Departments {
		seg := filtered.Where(survey.ColDepartment, dept)
		d := survey.ResponseDistribution(seg, cols, f.GroupResponses, f.ExcludeDontKnow)
		if d.Total() == 0 {
			continue
		}
		resp.ByDepartment = append(resp.ByDepartment, segmentDistribution{
			Segment:      dept,
			Total:        d.Total(),
			Distribution: orderedCounts(d, f.GroupResponses, f.ExcludeDontKnow),
		})
	}
	for _, tenure := range f.Tenures {
		seg := filtered.Where(survey.ColTenure, tenure)
		d := survey.ResponseDistribution(seg, cols, f.GroupResponses, f.ExcludeDontKnow)
		if d.Total() == 0 {
			continue
		}
		resp.ByTenure = append(resp.ByTenure, segmentDistribution{
			Segment:      tenure,
			Total:        d.Total(),
			Distribution: orderedCounts(d, f.GroupResponses, f.ExcludeDontKnow),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// CategoryHeatmap emits a category x response percentage matrix.
func (h *Handler) CategoryHeatmap(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ds, f, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusConflict, "no dataset uploaded")
		return
	}
	filtered := ds.Table.Filter(f.Departments, f.Tenures)
	selected := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		selected[c] = true
	}

	order := survey.ResponseOrder(f.GroupResponses, f.ExcludeDontKnow)
	out := heatmapResponse{Responses: order}
	for _, cat := range ds.Present {
		if !selected[cat] {
			continue
		}
		dist := survey.ResponseDistribution(filtered, ds.Categories[cat], f.GroupResponses, f.ExcludeDontKnow)
		if dist.Total() == 0 {
			continue
		}
		out.Rows = append(out.Rows, heatmapRow{Label: cat, Values: rowValues(dist, order)})
	}
	sortHeatmap(&out, r)
	out.NoData = len(out.Rows) == 0
	writeJSON(w, http.StatusOK, out)
}

// QuestionHeatmap emits a question x response percentage matrix. Labels are
// word-wrapped for axis display; the full question text rides along for
// hover text.
func (h *Handler) QuestionHeatmap(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ds, f, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusConflict, "no dataset uploaded")
		return
	}
	filtered := ds.Table.Filter(f.Departments, f.Tenures)
	order := survey.ResponseOrder(f.GroupResponses, f.ExcludeDontKnow)
	out := heatmapResponse{Responses: order}
	for _, question := range ds.SelectedQuestions(f.Categories) {
		dist := survey.ResponseDistribution(filtered, []string{question}, f.GroupResponses, f.ExcludeDontKnow)
		if dist.Total() == 0 {
			continue
		}
		out.Rows = append(out.Rows, heatmapRow{
			Label:  wrapText(question, 60),
			Full:   question,
			Values: rowValues(dist, order),
		})
	}
	sortHeatmap(&out, r)
	out.NoData = len(out.Rows) == 0
	writeJSON(w, http.StatusOK, out)
}

// sortHeatmap orders rows by one response column when requested via
// ?sort=<response>&ascending=<bool>.
func sortHeatmap(out *heatmapResponse, r *http.Request) {
	by := r.URL.Query().Get("sort")
	col := -1
	for i, resp := range out.Responses {
		if resp == by {
			col = i
			break
		}
	}
	if col < 0 {
		return
	}
	ascending := r.URL.Query().Get("ascending") != "false"
	sort.SliceStable(out.Rows, func(i, j int) bool {
		if ascending {
			return out.Rows[i].Values[col] < out.Rows[j].Values[col]
		}
		return out.Rows[i].Values[col] > out.Rows[j].Values[col]
	})
}

func rowValues(dist survey.Distribution, order []string) []float64 {
	pct := dist.Percentages()
	values := make([]float64, len(order))
	for i, label := range order {
		values[i] = pct[label] // absent labels stay 0
	}
	return values
}

// orderedCounts shapes a distribution into canonical chart order. Labels
// outside the canonical set (stray text surviving ungrouped mode) are not
// charted, matching the reindex the dashboard always applied.
func orderedCounts(dist survey.Distribution, groupMode, excludeDontKnow bool) []responseCount {
	pct := dist.Percentages()
	var out []responseCount
	for _, label := range survey.ResponseOrder(groupMode, excludeDontKnow) {
		count, ok := dist[label]
		if !ok {
			continue
		}
		out = append(out, responseCount{Response: label, Count: count, Percentage: pct[label]})
	}
	return out
}

func headlineMetrics(dist survey.Distribution, groupMode bool) []rateMetric {
	if groupMode {
		return []rateMetric{
			{Label: survey.Positive, Count: dist[survey.Positive], Percentage: dist.Share(survey.Positive)},
			{Label: survey.Negative, Count: dist[survey.Negative], Percentage: dist.Share(survey.Negative)},
		}
	}
	agree := dist[survey.StronglyAgree] + dist[survey.Agree]
	disagree := dist[survey.StronglyDisagree] + dist[survey.Disagree]
	var agreePct, disagreePct float64
	if total := dist.Total(); total > 0 {
		agreePct = dist.AgreeRate()
		disagreePct = round1(float64(disagree) / float64(total) * 100)
	}
	return []rateMetric{
		{Label: "Agree/Strongly Agree", Count: agree, Percentage: agreePct},
		{Label: "Disagree/Strongly Disagree", Count: disagree, Percentage: disagreePct},
	}
}

// wrapText breaks a question at word boundaries for heatmap axis labels.
func wrapText(text string, max int) string {
	words := strings.Fields(text)
	var lines []string
	var line []string
	length := 0
	for _, word := range words {
		if length+len(word)+1 <= max {
			line = append(line, word)
			length += len(word) + 1
			continue
		}
		if len(line) > 0 {
			lines = append(lines, strings.Join(line, " "))
		}
		line = []string{word}
		length = len(word)
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return strings.Join(lines, "\n")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
