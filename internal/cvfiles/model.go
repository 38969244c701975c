package cvfiles

import "time"

// File holds the original upload and its extracted text, tied to exactly one
// analysis. Written once, never mutated.
type File struct {
	ID            string    `json:"id"`
	AnalysisID    string    `json:"analysisId"`
	OriginalName  string    `json:"originalName"`
	MimeType      string    `json:"mimeType"`
	FileContent   []byte    `json:"-"`
	ExtractedText string    `json:"extractedText,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
