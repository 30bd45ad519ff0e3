package models

import "time"

// ResearchNote is a live-account user's note on a symbol.
type ResearchNote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Symbol    string    `json:"symbol,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReportType selects the analysis performed for an AnalysisReport.
type ReportType string

const (
	ReportTypeFundamental ReportType = "fundamental"
	ReportTypeTechnical   ReportType = "technical"
	ReportTypeSentiment   ReportType = "sentiment"
)

// AnalysisReport is generated report metadata for a live-account user.
type AnalysisReport struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Symbol      string            `json:"symbol"`
	ReportType  ReportType        `json:"report_type"`
	Summary     string            `json:"summary"`
	Params      map[string]string `json:"params,omitempty"`
	Financials  *Financials       `json:"financials,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}
