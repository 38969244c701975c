package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-analyzer-backend/internal/shared/server/middleware"
	"cv-analyzer-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/user", h.currentUser)
}

func (h *Handler) currentUser(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Erro ao buscar usuário")
		return
	}
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// No row yet (e.g. token minted before the first upsert); answer
			// from the session claims so the dashboard still renders.
			respond.JSON(c, http.StatusOK, User{
				ID:              userID,
				Email:           middleware.UserEmailFromContext(c),
				FirstName:       middleware.UserFirstNameFromContext(c),
				LastName:        middleware.UserLastNameFromContext(c),
				ProfileImageURL: middleware.UserPictureFromContext(c),
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Erro ao buscar usuário")
		return
	}
	respond.JSON(c, http.StatusOK, user)
}
