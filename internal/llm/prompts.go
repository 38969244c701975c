package llm

import (
	_ "embed"
	"strings"

	"cv-analyzer-backend/internal/shared/util"
)

var (
	//go:embed prompts/validate_cv.txt
	validatePrompt string
	//go:embed prompts/analyze_cv.txt
	analyzePrompt string
)

// validateTextLimit bounds the résumé excerpt sent with the yes/no validation
// question; the full text is only worth the tokens on the analysis call.
const validateTextLimit = 2000

const textToken = "{{CV_TEXT}}"

// ValidatePrompt builds the is-this-a-résumé prompt from the extracted text.
func ValidatePrompt(cvText string) string {
	return strings.ReplaceAll(validatePrompt, textToken, util.TruncateRunes(cvText, validateTextLimit))
}

// AnalyzePrompt builds the scoring prompt from the extracted text.
func AnalyzePrompt(cvText string) string {
	return strings.ReplaceAll(analyzePrompt, textToken, cvText)
}
