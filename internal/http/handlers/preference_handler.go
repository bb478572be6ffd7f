// Package handlers – preference endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-notify-backend/internal/services"
)

// PreferenceRequest is the payload for PUT /api/v1/preferences/{event_key}.
// Channel fields are nullable: omitted or null inherits the template default,
// an explicit boolean overrides it.
type PreferenceRequest struct {
	EmailEnabled    *bool `json:"email_enabled"`
	ToastEnabled    *bool `json:"toast_enabled"`
	DatabaseEnabled *bool `json:"database_enabled"`
	PushEnabled     *bool `json:"push_enabled"`

	QuietHoursEnabled bool   `json:"quiet_hours_enabled"`
	QuietHoursStart   string `json:"quiet_hours_start" example:"22:00"`
	QuietHoursEnd     string `json:"quiet_hours_end"   example:"08:00"`

	Frequency    string `json:"frequency" example:"instant"`
	BatchEnabled bool   `json:"batch_enabled"`
	Timezone     string `json:"timezone"  example:"Europe/Athens"`
}

// HandleGetPreference godoc
// @Summary      Get preference for an event
// @Description  Returns the caller's stored preference for the event, or the
// @Description  defaults (instant frequency, all channels inherited) when the
// @Description  event was never configured.
// @Tags         preferences
// @Produce      json
// @Param        event_key  path      string  true  "Event key"
// @Success      200        {object}  domain.UserPreference
// @Failure      404        {object}  ErrorResponse
// @Failure      500        {object}  ErrorResponse
// @Router       /preferences/{event_key} [get]
func (h *Handlers) HandleGetPreference(c *gin.Context) {
	uid := userID(c)
	eventKey := c.Param("event_key")

	pref, err := h.Preferences.Get(c.Request.Context(), uid, eventKey)
	switch {
	case errors.Is(err, services.ErrUnknownEvent):
		fail(c, http.StatusNotFound, CodeUnknownEvent, "no active event with that key")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, CodeInternalError, "could not load preference")
		return
	}
	ok(c, http.StatusOK, pref)
}

// HandleUpdatePreference godoc
// @Summary      Update preference for an event
// @Description  Validates and stores the caller's delivery settings for one
// @Description  event, creating the row on first write.
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        event_key  path      string             true  "Event key"
// @Param        request    body      PreferenceRequest  true  "New settings"
// @Success      200        {object}  domain.UserPreference
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Failure      500        {object}  ErrorResponse
// @Router       /preferences/{event_key} [put]
func (h *Handlers) HandleUpdatePreference(c *gin.Context) {
	uid := userID(c)
	eventKey := c.Param("event_key")

	var req PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}
	if req.Frequency == "" {
		req.Frequency = "instant"
	}

	pref, err := h.Preferences.Update(c.Request.Context(), uid, eventKey, services.PreferenceUpdate{
		EmailEnabled:      req.EmailEnabled,
		ToastEnabled:      req.ToastEnabled,
		DatabaseEnabled:   req.DatabaseEnabled,
		PushEnabled:       req.PushEnabled,
		QuietHoursEnabled: req.QuietHoursEnabled,
		QuietHoursStart:   req.QuietHoursStart,
		QuietHoursEnd:     req.QuietHoursEnd,
		Frequency:         req.Frequency,
		BatchEnabled:      req.BatchEnabled,
		Timezone:          req.Timezone,
	})
	switch {
	case errors.Is(err, services.ErrUnknownEvent):
		fail(c, http.StatusNotFound, CodeUnknownEvent, "no active event with that key")
		return
	case errors.Is(err, services.ErrInvalidFrequency):
		fail(c, http.StatusBadRequest, CodeInvalidFrequency, "frequency must be instant, hourly, daily, weekly, or off")
		return
	case errors.Is(err, services.ErrInvalidQuietHours):
		fail(c, http.StatusBadRequest, CodeInvalidQuietHours, "quiet hours bounds must be 24h HH:MM times")
		return
	case errors.Is(err, services.ErrInvalidTimezone):
		fail(c, http.StatusBadRequest, CodeInvalidTimezone, "timezone must be a valid IANA zone name")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, CodePreferenceFailed, "could not store preference")
		return
	}
	ok(c, http.StatusOK, pref)
}
