package analyses

import "time"

// Analysis is one persisted CV analysis.
type Analysis struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	FileName        string         `json:"fileName"`
	FileSize        int64          `json:"fileSize"`
	OverallScore    float64        `json:"overallScore"`
	ExperienceScore float64        `json:"experienceScore"`
	EducationScore  float64        `json:"educationScore"`
	SkillsScore     float64        `json:"skillsScore"`
	LanguagesScore  float64        `json:"languagesScore"`
	FormatScore     float64        `json:"formatScore"`
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Suggestions     []string       `json:"suggestions"`
	AnalysisData    map[string]any `json:"analysisData,omitempty"`
	IsValidCV       bool           `json:"isValidCV"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Stats aggregates a user's analyses for the dashboard.
type Stats struct {
	TotalAnalyses int        `json:"totalAnalyses"`
	AverageScore  float64    `json:"averageScore"`
	LastAnalysis  *time.Time `json:"lastAnalysis"`
}

// ApplyResult copies a normalized result into the record.
func (a *Analysis) ApplyResult(result Result) {
	a.OverallScore = result.OverallScore
	a.ExperienceScore = result.ExperienceScore
	a.EducationScore = result.EducationScore
	a.SkillsScore = result.SkillsScore
	a.LanguagesScore = result.LanguagesScore
	a.FormatScore = result.FormatScore
	a.Strengths = result.Strengths
	a.Weaknesses = result.Weaknesses
	a.Suggestions = result.Suggestions
	a.IsValidCV = result.IsValidCV
}
