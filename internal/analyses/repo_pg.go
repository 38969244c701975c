package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"cv-analyzer-backend/internal/cvfiles"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `
id, user_id, file_name, file_size,
overall_score, experience_score, education_score, skills_score, languages_score, format_score,
strengths, weaknesses, suggestions, analysis_data, is_valid_cv, created_at, updated_at`

// CreateWithFile inserts the analysis and its file record in one transaction.
func (r *PGRepo) CreateWithFile(ctx context.Context, analysis Analysis, file cvfiles.File) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertAnalysis = `
INSERT INTO cv_analyses (
	id, user_id, file_name, file_size,
	overall_score, experience_score, education_score, skills_score, languages_score, format_score,
	strengths, weaknesses, suggestions, analysis_data, is_valid_cv, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	strengths, err := marshalJSONB(analysis.Strengths)
	if err != nil {
		return err
	}
	weaknesses, err := marshalJSONB(analysis.Weaknesses)
	if err != nil {
		return err
	}
	suggestions, err := marshalJSONB(analysis.Suggestions)
	if err != nil {
		return err
	}
	analysisData, err := marshalJSONB(analysis.AnalysisData)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, insertAnalysis,
		analysis.ID,
		analysis.UserID,
		analysis.FileName,
		analysis.FileSize,
		analysis.OverallScore,
		analysis.ExperienceScore,
		analysis.EducationScore,
		analysis.SkillsScore,
		analysis.LanguagesScore,
		analysis.FormatScore,
		strengths,
		weaknesses,
		suggestions,
		analysisData,
		analysis.IsValidCV,
		analysis.CreatedAt,
		analysis.UpdatedAt,
	); err != nil {
		return err
	}

	const insertFile = `
INSERT INTO cv_files (id, analysis_id, original_name, mime_type, file_content, extracted_text, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, insertFile,
		file.ID,
		file.AnalysisID,
		file.OriginalName,
		file.MimeType,
		file.FileContent,
		file.ExtractedText,
		file.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM cv_analyses WHERE id = $1 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, analysisID)
	analysis, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

// ListByUser returns a user's analyses, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM cv_analyses WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Analysis, 0)
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

// Update overwrites the result fields of an existing analysis.
func (r *PGRepo) Update(ctx context.Context, analysisID string, result Result) error {
	const query = `
UPDATE cv_analyses
SET overall_score = $2, experience_score = $3, education_score = $4,
    skills_score = $5, languages_score = $6, format_score = $7,
    strengths = $8, weaknesses = $9, suggestions = $10, is_valid_cv = $11,
    updated_at = $12
WHERE id = $1`
	strengths, err := marshalJSONB(result.Strengths)
	if err != nil {
		return err
	}
	weaknesses, err := marshalJSONB(result.Weaknesses)
	if err != nil {
		return err
	}
	suggestions, err := marshalJSONB(result.Suggestions)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		analysisID,
		result.OverallScore,
		result.ExperienceScore,
		result.EducationScore,
		result.SkillsScore,
		result.LanguagesScore,
		result.FormatScore,
		strengths,
		weaknesses,
		suggestions,
		result.IsValidCV,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// StatsByUser aggregates a user's analyses in a single query.
func (r *PGRepo) StatsByUser(ctx context.Context, userID string) (Stats, error) {
	const query = `
SELECT COUNT(*), COALESCE(AVG(overall_score), 0), MAX(created_at)
FROM cv_analyses
WHERE user_id = $1`
	var stats Stats
	var last sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&stats.TotalAnalyses, &stats.AverageScore, &last)
	if err != nil {
		return Stats{}, err
	}
	if last.Valid {
		stats.LastAnalysis = &last.Time
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var strengths, weaknesses, suggestions []byte
	var analysisData sql.NullString
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.FileName,
		&a.FileSize,
		&a.OverallScore,
		&a.ExperienceScore,
		&a.EducationScore,
		&a.SkillsScore,
		&a.LanguagesScore,
		&a.FormatScore,
		&strengths,
		&weaknesses,
		&suggestions,
		&analysisData,
		&a.IsValidCV,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	a.Strengths = unmarshalStringList(strengths)
	a.Weaknesses = unmarshalStringList(weaknesses)
	a.Suggestions = unmarshalStringList(suggestions)
	if analysisData.Valid {
		a.AnalysisData = map[string]any{}
		if err := json.Unmarshal([]byte(analysisData.String), &a.AnalysisData); err != nil {
			a.AnalysisData = nil
		}
	}
	return a, nil
}

func unmarshalStringList(payload []byte) []string {
	out := []string{}
	if len(payload) == 0 {
		return out
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return []string{}
	}
	return out
}

func marshalJSONB(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
