package api

// Payload types for the chart frontend. Distributions are emitted as ordered
// slices so the client renders bars in canonical response order without
// re-sorting.

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type uploadResponse struct {
	Respondents int      `json:"respondents"`
	Questions   int      `json:"questions"`
	Categories  []string `json:"categories"`
	Departments []string `json:"departments"`
	Tenures     []string `json:"tenures"`
}

type responseCount struct {
	Response   string  `json:"response"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type overviewResponse struct {
	TotalResponses    int             `json:"total_responses"`
	SelectedQuestions int             `json:"selected_questions"`
	HeadlineLabel     string          `json:"headline_label"`
	HeadlinePct       float64         `json:"headline_pct"`
	NoData            bool            `json:"no_data"`
	Distribution      []responseCount `json:"distribution"`
}

type segmentDistribution struct {
	Segment      string          `json:"segment"`
	Total        int             `json:"total"`
	Distribution []responseCount `json:"distribution"`
}

type segmentsResponse struct {
	Dimension string                `json:"dimension"`
	NoData    bool                  `json:"no_data"`
	Segments  []segmentDistribution `json:"segments"`
}

type questionsResponse struct {
	Total     int      `json:"total"`
	Shown     int      `json:"shown"`
	Questions []string `json:"questions"`
}

type rateMetric struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type questionDetailResponse struct {
	Question     string                `json:"question"`
	Total        int                   `json:"total"`
	NoData       bool                  `json:"no_data"`
	Metrics      []rateMetric          `json:"metrics"`
	Distribution []responseCount       `json:"distribution"`
	ByDepartment []segmentDistribution `json:"by_department"`
	ByTenure     []segmentDistribution `json:"by_tenure"`
}

type heatmapRow struct {
	Label  string    `json:"label"`
	Full   string    `json:"full,omitempty"`
	Values []float64 `json:"values"`
}

type heatmapResponse struct {
	Responses []string     `json:"responses"`
	NoData    bool         `json:"no_data"`
	Rows      []heatmapRow `json:"rows"`
}
