// Package handlers – notification feed endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-notify-backend/internal/domain"
	"github.com/tbourn/go-notify-backend/internal/services"
	"github.com/tbourn/go-notify-backend/internal/utils"
)

// Pagination describes the page window of a list response.
type Pagination struct {
	Page    int   `json:"page"     example:"1"`
	PerPage int   `json:"per_page" example:"20"`
	Total   int64 `json:"total"    example:"57"`
}

// FeedResponse is the payload of GET /api/v1/notifications.
type FeedResponse struct {
	Items      []domain.Notification `json:"items"`
	Unread     int64                 `json:"unread" example:"3"`
	Pagination Pagination            `json:"pagination"`
}

// MarkAllResponse reports how many notifications a read-all touched.
type MarkAllResponse struct {
	Updated int64 `json:"updated" example:"3"`
}

// HandleListNotifications godoc
// @Summary      List in-app notifications
// @Description  Returns one page of the caller's notification feed, newest
// @Description  first, with total and unread counts.
// @Tags         notifications
// @Produce      json
// @Param        page      query     int  false  "Page number (1-based)"      default(1)
// @Param        per_page  query     int  false  "Items per page (max 100)"   default(20)
// @Success      200       {object}  FeedResponse
// @Failure      500       {object}  ErrorResponse
// @Router       /notifications [get]
func (h *Handlers) HandleListNotifications(c *gin.Context) {
	uid := userID(c)
	page := utils.AtoiDefault(c.Query("page"), 1)
	perPage := utils.AtoiDefault(c.Query("per_page"), 20)
	// Mirror the service clamps so the echoed pagination matches what ran.
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	feed, err := h.Notifications.List(c.Request.Context(), uid, page, perPage)
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeListFailed, "could not list notifications")
		return
	}

	items := feed.Items
	if items == nil {
		items = []domain.Notification{}
	}
	ok(c, http.StatusOK, FeedResponse{
		Items:  items,
		Unread: feed.Unread,
		Pagination: Pagination{
			Page:    page,
			PerPage: perPage,
			Total:   feed.Total,
		},
	})
}

// HandleMarkRead godoc
// @Summary      Mark one notification read
// @Description  Marks a single owned notification as read. Idempotent.
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification id"
// @Success      204  "marked read"
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /notifications/{id}/read [post]
func (h *Handlers) HandleMarkRead(c *gin.Context) {
	uid := userID(c)
	id := c.Param("id")

	err := h.Notifications.MarkRead(c.Request.Context(), uid, id)
	switch {
	case errors.Is(err, services.ErrNotificationNotFound):
		fail(c, http.StatusNotFound, CodeNotFound, "notification not found")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, CodeMarkFailed, "could not mark notification read")
		return
	}
	noContent(c)
}

// HandleMarkAllRead godoc
// @Summary      Mark all notifications read
// @Description  Marks every unread notification in the caller's feed as read
// @Description  and reports how many rows changed.
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  MarkAllResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /notifications/read-all [post]
func (h *Handlers) HandleMarkAllRead(c *gin.Context) {
	uid := userID(c)

	n, err := h.Notifications.MarkAllRead(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, CodeMarkFailed, "could not mark notifications read")
		return
	}
	ok(c, http.StatusOK, MarkAllResponse{Updated: n})
}
