package analyses

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Result is the normalized outcome of one model analysis. Field names are the
// wire contract; every field is populated after Normalize regardless of what
// the model returned.
type Result struct {
	OverallScore    float64  `json:"overallScore"`
	ExperienceScore float64  `json:"experienceScore"`
	EducationScore  float64  `json:"educationScore"`
	SkillsScore     float64  `json:"skillsScore"`
	LanguagesScore  float64  `json:"languagesScore"`
	FormatScore     float64  `json:"formatScore"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Suggestions     []string `json:"suggestions"`
	IsValidCV       bool     `json:"isValidCV"`
}

const (
	maxStrengths   = 5
	maxWeaknesses  = 5
	maxSuggestions = 8
)

var (
	jsonFencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFencePattern  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// ExtractJSON recovers the JSON payload from free-form model output. A fenced
// block tagged json wins over an untagged fence; with no fence at all the
// input comes back trimmed.
func ExtractJSON(raw string) string {
	if m := jsonFencePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := anyFencePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// Normalize coerces a loosely typed mapping into a fully populated Result.
// Missing or mistyped scores become 0 and every score is clamped to [0,10];
// clamping applies to explicit values too, the model is not trusted to honor
// the requested range. Lists keep their order and are truncated from the tail.
func Normalize(parsed map[string]any) Result {
	return Result{
		OverallScore:    clampScore(numberValue(parsed["overallScore"])),
		ExperienceScore: clampScore(numberValue(parsed["experienceScore"])),
		EducationScore:  clampScore(numberValue(parsed["educationScore"])),
		SkillsScore:     clampScore(numberValue(parsed["skillsScore"])),
		LanguagesScore:  clampScore(numberValue(parsed["languagesScore"])),
		FormatScore:     clampScore(numberValue(parsed["formatScore"])),
		Strengths:       truncateList(stringList(parsed["strengths"]), maxStrengths),
		Weaknesses:      truncateList(stringList(parsed["weaknesses"]), maxWeaknesses),
		Suggestions:     truncateList(stringList(parsed["suggestions"]), maxSuggestions),
		IsValidCV:       boolOrTrue(parsed["isValidCV"]),
	}
}

// ParseResult runs ExtractJSON, parses the payload and normalizes it. Parse
// failure never propagates: the second return reports that the fixed fallback
// was substituted, so the caller can log and count it.
func ParseResult(raw string) (Result, bool) {
	payload := ExtractJSON(raw)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return FallbackResult(), true
	}
	return Normalize(parsed), false
}

// FallbackResult is the record stored when the model reply cannot be parsed.
// The user already spent a model invocation; they get a neutral, displayable
// result instead of an error.
func FallbackResult() Result {
	return Result{
		OverallScore:    5,
		ExperienceScore: 5,
		EducationScore:  5,
		SkillsScore:     5,
		LanguagesScore:  5,
		FormatScore:     5,
		Strengths:       []string{"Currículo estruturado"},
		Weaknesses:      []string{"Não foi possível analisar completamente"},
		Suggestions:     []string{"Tente enviar novamente o currículo"},
		IsValidCV:       true,
	}
}

func clampScore(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 10 {
		return 10
	}
	return value
}

func numberValue(value any) float64 {
	switch n := value.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringList(value any) []string {
	switch raw := value.(type) {
	case []string:
		return raw
	case []any:
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return []string{}
	}
}

func truncateList(value []string, max int) []string {
	if value == nil {
		return []string{}
	}
	if len(value) > max {
		return value[:max]
	}
	return value
}

func boolOrTrue(value any) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	return true
}
