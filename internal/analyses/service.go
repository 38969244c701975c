package analyses

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"cv-analyzer-backend/internal/cvfiles"
	"cv-analyzer-backend/internal/extract"
	"cv-analyzer-backend/internal/llm"
	"cv-analyzer-backend/internal/shared/metrics"
	"cv-analyzer-backend/internal/shared/telemetry"
)

const (
	// MaxFileSize is the upload limit in bytes.
	MaxFileSize = 10 * 1024 * 1024
	// minTextLength guards against empty or garbage extraction.
	minTextLength = 100
)

// AllowedMimeTypes lists the accepted upload content types.
var AllowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Service runs the upload pipeline: extract text, validate that the document
// is a CV, analyze it, persist the analysis and the file.
type Service struct {
	repo Repo
	llm  llm.Client
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, client llm.Client) *Service {
	return &Service{repo: repo, llm: client, now: func() time.Time { return time.Now().UTC() }}
}

// UploadInput is one upload request after multipart decoding.
type UploadInput struct {
	UserID   string
	FileName string
	MimeType string
	Data     []byte
}

// AnalyzeUpload runs the full pipeline for one upload and returns the
// persisted analysis. Validation failure is fail-closed (the request is
// rejected); analysis failure is fail-open (the fallback result is stored).
func (s *Service) AnalyzeUpload(ctx context.Context, in UploadInput) (Analysis, error) {
	metrics.IncUploadStarted()
	started := s.now()

	text, err := extract.TextFromBytes(ctx, in.Data, in.MimeType, in.FileName)
	if err != nil {
		metrics.IncAnalysisRejected()
		telemetry.Warn("text extraction failed", map[string]any{
			"user_id":   in.UserID,
			"file_name": in.FileName,
			"mime_type": in.MimeType,
			"error":     err.Error(),
		})
		return Analysis{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minTextLength {
		metrics.IncAnalysisRejected()
		return Analysis{}, ErrTextTooShort
	}

	valid, err := s.validateIsCV(ctx, text)
	if err != nil {
		// Fail closed: an unreadable validation reply means not a CV.
		telemetry.Warn("cv validation call failed", map[string]any{
			"user_id": in.UserID,
			"error":   err.Error(),
		})
		valid = false
	}
	if !valid {
		metrics.IncAnalysisRejected()
		return Analysis{}, ErrNotResume
	}

	result, fellBack := s.analyze(ctx, text)
	if fellBack {
		metrics.IncAnalysisFallback()
		telemetry.Warn("analysis fell back to fixed result", map[string]any{
			"user_id":   in.UserID,
			"file_name": in.FileName,
		})
	}

	now := s.now()
	analysis := Analysis{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		FileName:     in.FileName,
		FileSize:     int64(len(in.Data)),
		AnalysisData: resultToMap(result),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	analysis.ApplyResult(result)

	file := cvfiles.File{
		ID:            uuid.NewString(),
		AnalysisID:    analysis.ID,
		OriginalName:  in.FileName,
		MimeType:      in.MimeType,
		FileContent:   in.Data,
		ExtractedText: text,
		CreatedAt:     now,
	}

	if err := s.repo.CreateWithFile(ctx, analysis, file); err != nil {
		return Analysis{}, err
	}

	metrics.IncAnalysisCompleted()
	metrics.ObservePipelineDurationMs(float64(s.now().Sub(started).Milliseconds()))
	telemetry.Info("cv analysis persisted", map[string]any{
		"user_id":     in.UserID,
		"analysis_id": analysis.ID,
		"file_name":   in.FileName,
		"fallback":    fellBack,
	})
	return analysis, nil
}

// validateIsCV asks the model a yes/no question about the text.
func (s *Service) validateIsCV(ctx context.Context, text string) (bool, error) {
	reply, err := s.llm.Generate(ctx, llm.ValidatePrompt(text))
	if err != nil {
		return false, err
	}
	return isAffirmative(reply), nil
}

// analyze asks the model for the scored analysis. Transport errors and
// unparseable replies both resolve to the fallback result.
func (s *Service) analyze(ctx context.Context, text string) (Result, bool) {
	reply, err := s.llm.Generate(ctx, llm.AnalyzePrompt(text))
	if err != nil {
		telemetry.Warn("analysis call failed", map[string]any{"error": err.Error()})
		return FallbackResult(), true
	}
	return ParseResult(reply)
}

// GetForUser returns one analysis if the caller owns it.
func (s *Service) GetForUser(ctx context.Context, userID, analysisID string) (Analysis, error) {
	analysis, err := s.repo.GetByID(ctx, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	if analysis.UserID != userID {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// ListForUser returns the caller's analyses, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Analysis, error) {
	return s.repo.ListByUser(ctx, userID)
}

// StatsForUser aggregates the caller's analyses.
func (s *Service) StatsForUser(ctx context.Context, userID string) (Stats, error) {
	return s.repo.StatsByUser(ctx, userID)
}

func isAffirmative(reply string) bool {
	return strings.Contains(strings.ToUpper(strings.TrimSpace(reply)), "SIM")
}

func resultToMap(result Result) map[string]any {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil
	}
	out := map[string]any{}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil
	}
	return out
}
