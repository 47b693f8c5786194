package model

// Analog is a comparable startup returned by the analysis service.
type Analog struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	BusinessModel  string   `json:"businessModel"`
	Funding        string   `json:"funding"`
	Stage          string   `json:"stage"`
	Similarity     float64  `json:"similarity"` // 0-100
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	MarketPosition string   `json:"marketPosition"`
}

// AnalysisResult is the response of POST /analyze. Analogs keep the order the
// service sent them in.
type AnalysisResult struct {
	Analogs           []Analog `json:"analogs"`
	Recommendations   []string `json:"recommendations,omitempty"`
	AnalysisTimestamp string   `json:"analysisTimestamp"`
	TotalAnalogs      int      `json:"totalAnalogs"`
}

type GrantSuggestion struct {
	Name string `json:"name"`
	Why  string `json:"why"`
}

// GrantResponse is the response of POST /api/microgrants.
type GrantResponse struct {
	Grants []GrantSuggestion `json:"grants"`
}
