// Package handlers – dispatch endpoint.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/services"
)

// DispatchRequest is the payload for POST /api/v1/dispatch.
type DispatchRequest struct {
	EventKey      string            `json:"event_key"      binding:"required" example:"booking.created"`
	RecipientID   string            `json:"recipient_id"   binding:"required" example:"user-42"`
	RecipientRole string            `json:"recipient_role" binding:"required" example:"customer"`
	Variables     map[string]string `json:"variables"`
}

// HandleDispatch godoc
// @Summary      Dispatch a notification
// @Description  Runs one dispatch attempt through the full pipeline (template
// @Description  resolution, preferences, rate limiting, deduplication,
// @Description  scheduling, channel fan-out) and returns the structured
// @Description  outcome. Deferred and suppressed attempts are not errors;
// @Description  inspect the outcome field.
// @Tags         dispatch
// @Accept       json
// @Produce      json
// @Param        request  body      DispatchRequest  true  "Dispatch attempt"
// @Success      200      {object}  domain.DispatchResult
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      422      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /dispatch [post]
func (h *Handlers) HandleDispatch(c *gin.Context) {
	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	role, valid := domain.ParseRole(req.RecipientRole)
	if !valid {
		fail(c, http.StatusBadRequest, CodeBadRequest, "recipient_role must be customer, provider, or admin")
		return
	}

	res, err := h.Dispatch.Dispatch(c.Request.Context(), &domain.DispatchAttempt{
		EventKey:      req.EventKey,
		RecipientID:   req.RecipientID,
		RecipientRole: role,
		Variables:     req.Variables,
		RequestedAt:   time.Now().UTC(),
	})
	switch {
	case errors.Is(err, services.ErrUnknownEvent):
		fail(c, http.StatusNotFound, CodeUnknownEvent, "no active event with that key")
		return
	case errors.Is(err, services.ErrNoTemplate):
		fail(c, http.StatusUnprocessableEntity, CodeNoTemplate, "no active template for that recipient role")
		return
	case errors.Is(err, services.ErrEmptyRecipient), errors.Is(err, services.ErrInvalidRole):
		fail(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, CodeDispatchFailed, "dispatch failed")
		return
	}

	ok(c, http.StatusOK, res)
}
