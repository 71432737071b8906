package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
)

// SessionHandler stores tokens issued by the auth service in the session cookie.
type SessionHandler struct {
	facade SessionFacade
}

// NewSessionHandler creates SessionHandler instance.
func NewSessionHandler(facade SessionFacade) *SessionHandler {
	return &SessionHandler{facade: facade}
}

// Open handles POST /api/session.
func (h *SessionHandler) Open(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	actor, err := h.facade.ParseToken(req.Token)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrInvalidToken) {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	middleware.SetAuthCookie(c, req.Token)
	c.JSON(http.StatusOK, dto.SessionResponse{UserID: actor.UserID, Role: string(actor.Role)})
}

// Current handles GET /api/session.
func (h *SessionHandler) Current(c *gin.Context) {
	actor := CurrentActor(c)
	c.JSON(http.StatusOK, dto.SessionResponse{UserID: actor.UserID, Role: string(actor.Role)})
}

// Close handles DELETE /api/session.
func (h *SessionHandler) Close(c *gin.Context) {
	middleware.ClearAuthCookie(c)
	c.Status(http.StatusNoContent)
}
