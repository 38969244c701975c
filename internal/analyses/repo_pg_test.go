package analyses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"cv-analyzer-backend/internal/cvfiles"
)

func TestPGRepoCreateWithFileSingleTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	analysis := Analysis{
		ID:           "analysis-1",
		UserID:       "user-1",
		FileName:     "curriculo.pdf",
		FileSize:     2048,
		OverallScore: 7.5,
		Strengths:    []string{"boa experiência"},
		Weaknesses:   []string{},
		Suggestions:  []string{},
		IsValidCV:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	file := cvfiles.File{
		ID:            "file-1",
		AnalysisID:    "analysis-1",
		OriginalName:  "curriculo.pdf",
		MimeType:      "application/pdf",
		FileContent:   []byte("%PDF"),
		ExtractedText: "texto",
		CreatedAt:     now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO cv_analyses").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO cv_files").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	if err := repo.CreateWithFile(context.Background(), analysis, file); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGRepoCreateWithFileRollsBackOnFileInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO cv_analyses").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO cv_files").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	repo := &PGRepo{DB: db}
	err = repo.CreateWithFile(context.Background(), Analysis{ID: "a"}, cvfiles.File{ID: "f", AnalysisID: "a"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDScansLists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "file_name", "file_size",
		"overall_score", "experience_score", "education_score", "skills_score", "languages_score", "format_score",
		"strengths", "weaknesses", "suggestions", "analysis_data", "is_valid_cv", "created_at", "updated_at",
	}).AddRow(
		"analysis-1", "user-1", "cv.pdf", int64(2048),
		7.5, 8.0, 6.0, 7.0, 5.0, 9.0,
		[]byte(`["boa experiência"]`), []byte(`[]`), []byte(`["adicionar cursos"]`),
		[]byte(`{"overallScore": 7.5}`), true, now, now,
	)
	mock.ExpectQuery("SELECT").WithArgs("analysis-1").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	analysis, err := repo.GetByID(context.Background(), "analysis-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(analysis.Strengths) != 1 || analysis.Strengths[0] != "boa experiência" {
		t.Errorf("strengths = %v", analysis.Strengths)
	}
	if analysis.Weaknesses == nil || len(analysis.Weaknesses) != 0 {
		t.Errorf("weaknesses = %v, want empty non-nil", analysis.Weaknesses)
	}
	if analysis.AnalysisData["overallScore"] != 7.5 {
		t.Errorf("analysisData = %v", analysis.AnalysisData)
	}
}

func TestPGRepoStatsByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	last := time.Now().UTC()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg", "max"}).AddRow(3, 7.2, last))

	repo := &PGRepo{DB: db}
	stats, err := repo.StatsByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalAnalyses != 3 || stats.AverageScore != 7.2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastAnalysis == nil || !stats.LastAnalysis.Equal(last) {
		t.Errorf("lastAnalysis = %v", stats.LastAnalysis)
	}
}

func TestPGRepoUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE cv_analyses").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.Update(context.Background(), "missing", FallbackResult()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
