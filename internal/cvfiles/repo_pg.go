package cvfiles

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a file record.
func (r *PGRepo) Create(ctx context.Context, file File) error {
	const query = `
INSERT INTO cv_files (id, analysis_id, original_name, mime_type, file_content, extracted_text, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		file.ID,
		file.AnalysisID,
		file.OriginalName,
		file.MimeType,
		file.FileContent,
		file.ExtractedText,
		file.CreatedAt,
	)
	return err
}

// GetByAnalysisID returns the file stored for an analysis.
func (r *PGRepo) GetByAnalysisID(ctx context.Context, analysisID string) (File, error) {
	const query = `
SELECT id, analysis_id, original_name, mime_type, file_content, extracted_text, created_at
FROM cv_files
WHERE analysis_id = $1
LIMIT 1`
	var f File
	var extractedText sql.NullString
	err := r.DB.QueryRowContext(ctx, query, analysisID).Scan(
		&f.ID,
		&f.AnalysisID,
		&f.OriginalName,
		&f.MimeType,
		&f.FileContent,
		&extractedText,
		&f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return File{}, ErrNotFound
		}
		return File{}, err
	}
	if extractedText.Valid {
		f.ExtractedText = extractedText.String
	}
	return f, nil
}
