package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// CurrentActor extracts the authenticated user and role from context.
func CurrentActor(c *gin.Context) model.Actor {
	actor := model.Actor{UserID: CurrentUserID(c)}
	if val, ok := c.Get(middleware.RoleContextKey); ok {
		actor.Role, _ = val.(model.Role)
	}
	return actor
}

// StatusFor maps a domain error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrValidation),
		errors.Is(err, domainErrors.ErrMissingEvidence),
		errors.Is(err, domainErrors.ErrUnknownRegion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrRemainderPending),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// abortOnError writes the error response and reports whether the handler must stop.
// A failed side effect keeps the committed result, so it only adds a Warning header.
func abortOnError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domainErrors.ErrSideEffectFailed) {
		c.Header("Warning", fmt.Sprintf("199 - %q", err.Error()))
		return false
	}

	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		c.Status(status)
		return true
	}
	c.JSON(status, dto.ErrorResponse{Error: err.Error()})
	return true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}
