package analyses

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cv-analyzer-backend/internal/cvfiles"
)

// fakeLLM replies in call order: first validation, then analysis.
type fakeLLM struct {
	replies []string
	errs    []error
	calls   int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", errors.New("unexpected call")
}

func cvBytes() []byte {
	text := strings.Repeat("Experiencia profissional como analista de sistemas. ", 5)
	return []byte(text)
}

func newTestService(client *fakeLLM) (*Service, *MemoryRepo, *cvfiles.MemoryRepo) {
	files := cvfiles.NewMemoryRepo()
	repo := NewMemoryRepo(files)
	return NewService(repo, client), repo, files
}

func TestAnalyzeUploadHappyPath(t *testing.T) {
	client := &fakeLLM{replies: []string{
		"SIM",
		"```json\n{\"overallScore\": 12, \"experienceScore\": 8, \"strengths\": [\"boa experiência\"], \"isValidCV\": true}\n```",
	}}
	svc, repo, files := newTestService(client)

	analysis, err := svc.AnalyzeUpload(context.Background(), UploadInput{
		UserID:   "user-1",
		FileName: "curriculo.doc",
		MimeType: "application/msword",
		Data:     cvBytes(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.OverallScore != 10 {
		t.Errorf("overallScore = %v, want 10 (clamped from 12)", analysis.OverallScore)
	}
	if analysis.ExperienceScore != 8 {
		t.Errorf("experienceScore = %v", analysis.ExperienceScore)
	}
	if analysis.ID == "" || analysis.UserID != "user-1" {
		t.Errorf("bad record identity: %+v", analysis)
	}
	if client.calls != 2 {
		t.Errorf("model calls = %d, want 2", client.calls)
	}

	stored, err := repo.GetByID(context.Background(), analysis.ID)
	if err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
	if stored.OverallScore != 10 {
		t.Errorf("stored overallScore = %v", stored.OverallScore)
	}
	file, err := files.GetByAnalysisID(context.Background(), analysis.ID)
	if err != nil {
		t.Fatalf("file not persisted: %v", err)
	}
	if file.OriginalName != "curriculo.doc" || len(file.FileContent) == 0 || file.ExtractedText == "" {
		t.Errorf("bad file record: %+v", file)
	}
}

func TestAnalyzeUploadShortTextRejectedBeforeModel(t *testing.T) {
	client := &fakeLLM{}
	svc, _, _ := newTestService(client)

	_, err := svc.AnalyzeUpload(context.Background(), UploadInput{
		UserID:   "user-1",
		FileName: "vazio.doc",
		MimeType: "application/msword",
		Data:     []byte("muito curto"),
	})
	if !errors.Is(err, ErrTextTooShort) {
		t.Fatalf("expected ErrTextTooShort, got %v", err)
	}
	if client.calls != 0 {
		t.Errorf("model called %d times before rejection", client.calls)
	}
}

func TestAnalyzeUploadNotResume(t *testing.T) {
	client := &fakeLLM{replies: []string{"NÃO, isso parece uma receita de bolo"}}
	svc, repo, _ := newTestService(client)

	_, err := svc.AnalyzeUpload(context.Background(), UploadInput{
		UserID:   "user-1",
		FileName: "receita.doc",
		MimeType: "application/msword",
		Data:     cvBytes(),
	})
	if !errors.Is(err, ErrNotResume) {
		t.Fatalf("expected ErrNotResume, got %v", err)
	}
	if client.calls != 1 {
		t.Errorf("model calls = %d, want 1 (no analysis after rejection)", client.calls)
	}
	if list, _ := repo.ListByUser(context.Background(), "user-1"); len(list) != 0 {
		t.Errorf("record created for rejected upload: %v", list)
	}
}

func TestAnalyzeUploadValidationErrorFailsClosed(t *testing.T) {
	client := &fakeLLM{errs: []error{errors.New("model unavailable")}}
	svc, _, _ := newTestService(client)

	_, err := svc.AnalyzeUpload(context.Background(), UploadInput{
		UserID:   "user-1",
		FileName: "cv.doc",
		MimeType: "application/msword",
		Data:     cvBytes(),
	})
	if !errors.Is(err, ErrNotResume) {
		t.Fatalf("expected ErrNotResume on validation failure, got %v", err)
	}
}

func TestAnalyzeUploadAnalysisErrorFailsOpen(t *testing.T) {
	client := &fakeLLM{
		replies: []string{"SIM", ""},
		errs:    []error{nil, errors.New("model unavailable")},
	}
	svc, _, _ := newTestService(client)

	analysis, err := svc.AnalyzeUpload(context.Background(), UploadInput{
		UserID:   "user-1",
		FileName: "cv.doc",
		MimeType: "application/msword",
		Data:     cvBytes(),
	})
	if err != nil {
		t.Fatalf("analysis failure must not reject the upload: %v", err)
	}
	if analysis.OverallScore != 5 || analysis.FormatScore != 5 {
		t.Errorf("expected fallback scores, got %+v", analysis)
	}
	if len(analysis.Strengths) != 1 || analysis.Strengths[0] != "Currículo estruturado" {
		t.Errorf("expected fallback strengths, got %v", analysis.Strengths)
	}
}

func TestAnalyzeUploadUnparseableAnalysisFallsBack(t *testing.T) {
	client := &fakeLLM{replies: []string{"SIM", "desculpe, não posso ajudar com isso"}}
	svc, _, _ := newTestService(client)

	analysis, err := svc.AnalyzeUpload(context.Background(), UploadInput{
		UserID:   "user-1",
		FileName: "cv.doc",
		MimeType: "application/msword",
		Data:     cvBytes(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.OverallScore != 5 || !analysis.IsValidCV {
		t.Errorf("expected fallback record, got %+v", analysis)
	}
}

func TestGetForUserOwnership(t *testing.T) {
	client := &fakeLLM{replies: []string{"SIM", `{"overallScore": 7}`}}
	svc, _, _ := newTestService(client)

	analysis, err := svc.AnalyzeUpload(context.Background(), UploadInput{
		UserID:   "owner",
		FileName: "cv.doc",
		MimeType: "application/msword",
		Data:     cvBytes(),
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := svc.GetForUser(context.Background(), "owner", analysis.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := svc.GetForUser(context.Background(), "intruder", analysis.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign user, got %v", err)
	}
}

func TestIsAffirmative(t *testing.T) {
	cases := []struct {
		reply string
		want  bool
	}{
		{"SIM", true},
		{"sim", true},
		{"  Sim, é um currículo válido.  ", true},
		{"NÃO", false},
		{"não parece um currículo", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isAffirmative(tc.reply); got != tc.want {
			t.Errorf("isAffirmative(%q) = %v, want %v", tc.reply, got, tc.want)
		}
	}
}
