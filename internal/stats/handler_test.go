package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cv-analyzer-backend/internal/analyses"
	"cv-analyzer-backend/internal/cvfiles"
)

func newTestRouter(t *testing.T, repo *analyses.MemoryRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
	})
	handler := &Handler{Analyses: analyses.NewService(repo, nil)}
	handler.RegisterRoutes(engine.Group("/api"))
	return engine
}

func seedAnalysis(t *testing.T, repo *analyses.MemoryRepo, id string, score float64, createdAt time.Time) {
	t.Helper()
	analysis := analyses.Analysis{
		ID:           id,
		UserID:       "user-1",
		OverallScore: score,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	file := cvfiles.File{ID: id + "-file", AnalysisID: id, CreatedAt: createdAt}
	if err := repo.CreateWithFile(context.Background(), analysis, file); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestStatsRoundsAverageToOneDecimal(t *testing.T) {
	repo := analyses.NewMemoryRepo(cvfiles.NewMemoryRepo())
	base := time.Now().UTC()
	seedAnalysis(t, repo, "a1", 7, base.Add(-2*time.Hour))
	seedAnalysis(t, repo, "a2", 8, base.Add(-time.Hour))
	seedAnalysis(t, repo, "a3", 7, base)

	engine := newTestRouter(t, repo)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/stats", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		TotalAnalyses int     `json:"totalAnalyses"`
		AverageScore  float64 `json:"averageScore"`
		LastAnalysis  *string `json:"lastAnalysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalAnalyses != 3 {
		t.Errorf("totalAnalyses = %d", body.TotalAnalyses)
	}
	// (7+8+7)/3 = 7.333... rounds to 7.3
	if body.AverageScore != 7.3 {
		t.Errorf("averageScore = %v, want 7.3", body.AverageScore)
	}
	if body.LastAnalysis == nil {
		t.Error("lastAnalysis missing")
	}
}

func TestStatsEmptyUser(t *testing.T) {
	repo := analyses.NewMemoryRepo(cvfiles.NewMemoryRepo())
	engine := newTestRouter(t, repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/stats", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		TotalAnalyses int        `json:"totalAnalyses"`
		AverageScore  float64    `json:"averageScore"`
		LastAnalysis  *time.Time `json:"lastAnalysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalAnalyses != 0 || body.AverageScore != 0 || body.LastAnalysis != nil {
		t.Errorf("body = %+v", body)
	}
}
