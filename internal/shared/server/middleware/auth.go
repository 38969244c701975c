package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cv-analyzer-backend/internal/shared/auth"
	"cv-analyzer-backend/internal/shared/server/respond"
)

const (
	userIDKey       = "userId"
	userEmailKey    = "userEmail"
	userFirstKey    = "userFirstName"
	userLastKey     = "userLastName"
	userPictureKey  = "userPicture"
	sessionCookie   = "cv_session"
	unauthedMessage = "Não autenticado. Faça login para continuar."
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = sessionCookie

// Auth validates the session token (Authorization bearer or cookie) and
// stores the caller identity in the request context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/auth/google/") {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(sessionCookie); err == nil {
				token = strings.TrimSpace(cookie)
			}
		}
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", unauthedMessage)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", unauthedMessage)
			return
		}

		c.Set(userIDKey, claims.Sub)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		if claims.GivenName != "" {
			c.Set(userFirstKey, claims.GivenName)
		}
		if claims.FamilyName != "" {
			c.Set(userLastKey, claims.FamilyName)
		}
		if claims.Picture != "" {
			c.Set(userPictureKey, claims.Picture)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

// UserFirstNameFromContext fetches the given name set by the auth middleware.
func UserFirstNameFromContext(c *gin.Context) string {
	return stringFromContext(c, userFirstKey)
}

// UserLastNameFromContext fetches the family name set by the auth middleware.
func UserLastNameFromContext(c *gin.Context) string {
	return stringFromContext(c, userLastKey)
}

// UserPictureFromContext fetches the picture URL set by the auth middleware.
func UserPictureFromContext(c *gin.Context) string {
	return stringFromContext(c, userPictureKey)
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
