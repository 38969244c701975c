package analyses

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-analyzer-backend/internal/shared/server/middleware"
	"cv-analyzer-backend/internal/shared/server/respond"
	"cv-analyzer-backend/internal/shared/util"
)

// Handler serves the CV analysis routes.
type Handler struct {
	Service *Service
}

// RegisterRoutes mounts the CV routes on group. uploadGuards run only on the
// upload route (rate limiting).
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, uploadGuards ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, uploadGuards...), h.Upload)
	group.POST("/cv/upload", handlers...)
	group.GET("/cv/analyses", h.List)
	group.GET("/cv/analysis/:id", h.Get)
}

// Upload receives a multipart CV, runs the analysis pipeline and returns the
// persisted record.
func (h *Handler) Upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fileHeader, err := c.FormFile("cv")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Nenhum arquivo foi enviado")
		return
	}
	if fileHeader.Size > MaxFileSize {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Arquivo muito grande. Tamanho máximo: 10MB.")
		return
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if !AllowedMimeTypes[mimeType] {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Tipo de arquivo não suportado. Use PDF, DOC ou DOCX.")
		return
	}
	fileName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Nome de arquivo inválido")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "Erro interno do servidor ao processar o CV")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "Erro interno do servidor ao processar o CV")
		return
	}
	if len(data) > MaxFileSize {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Arquivo muito grande. Tamanho máximo: 10MB.")
		return
	}

	analysis, err := h.Service.AnalyzeUpload(c.Request.Context(), UploadInput{
		UserID:   userID,
		FileName: fileName,
		MimeType: mimeType,
		Data:     data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrExtraction), errors.Is(err, ErrTextTooShort):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation,
				"Não foi possível extrair texto suficiente do arquivo. Verifique se o arquivo não está corrompido.")
		case errors.Is(err, ErrNotResume):
			respond.Error(c, http.StatusBadRequest, ErrorCodeNotCV,
				"O arquivo enviado não parece ser um currículo válido. Certifique-se de enviar um CV com suas informações profissionais.")
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage,
				"Erro interno do servidor ao processar o CV")
		}
		return
	}

	c.Set("analysisId", analysis.ID)
	respond.OK(c, gin.H{
		"success":  true,
		"analysis": analysis,
		"message":  "CV analisado com sucesso!",
	})
}

// List returns the caller's analyses, newest first.
func (h *Handler) List(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	analyses, err := h.Service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "Erro ao buscar análises do usuário")
		return
	}
	respond.OK(c, analyses)
}

// Get returns one analysis when the caller owns it.
func (h *Handler) Get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	analysis, err := h.Service.GetForUser(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, ErrorCodeValidation, "Análise não encontrada")
			return
		}
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "Erro ao buscar análise")
		return
	}
	c.Set("analysisId", analysis.ID)
	respond.OK(c, analysis)
}
