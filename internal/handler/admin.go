package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/procedure-booking-bot/internal/model"
	"github.com/iliyamo/procedure-booking-bot/internal/repository"
	"github.com/iliyamo/procedure-booking-bot/internal/service"
)

// AdminHandler exposes the read-and-operate surface of the booking engine
// over HTTP: event listings, per-event applications, closing events and
// blocking users. Everything here sits behind JWT auth.
type AdminHandler struct {
	Events *service.EventService
	Apps   *service.ApplicationService
}

func NewAdminHandler(events *service.EventService, apps *service.ApplicationService) *AdminHandler {
	if events == nil || apps == nil {
		panic("nil service passed to NewAdminHandler")
	}
	return &AdminHandler{Events: events, Apps: apps}
}

type eventResp struct {
	ID         int64   `json:"id"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Procedure  string  `json:"procedure"`
	NeedsPhoto bool    `json:"needs_photo"`
	Comment    *string `json:"comment,omitempty"`
	Status     string  `json:"status"`
}

type applicationResp struct {
	ID        int64    `json:"id"`
	EventID   int64    `json:"event_id"`
	UserID    int64    `json:"user_id"`
	FullName  string   `json:"full_name"`
	Phone     string   `json:"phone"`
	Status    string   `json:"status"`
	IsPrimary bool     `json:"is_primary"`
	Photos    []string `json:"photos,omitempty"`
}

// ListEvents returns open events, or past ones with ?scope=past.
func (h *AdminHandler) ListEvents(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var err error
	var events []eventResp
	switch c.QueryParam("scope") {
	case "past":
		list, e := h.Events.ListPast(ctx)
		err, events = e, toEventResps(list)
	default:
		list, e := h.Events.ListOpen(ctx)
		err, events = e, toEventResps(list)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// ListApplications returns every application of one event.
func (h *AdminHandler) ListApplications(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	apps, err := h.Apps.ListByEvent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	resp := make([]applicationResp, 0, len(apps))
	for _, a := range apps {
		photos, err := h.Apps.Photos(ctx, a.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
		}
		resp = append(resp, applicationResp{
			ID: a.ID, EventID: a.EventID, UserID: a.UserID,
			FullName: a.FullName, Phone: a.Phone,
			Status: a.Status, IsPrimary: a.IsPrimary,
			Photos: photos,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"applications": resp})
}

// CloseEvent closes an open event so it stops accepting applications.
func (h *AdminHandler) CloseEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	switch err := h.Events.Close(ctx, id); {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"status": "closed"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, service.ErrStateConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "event is not open"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "close failed"})
	}
}

// BlockUser marks a user blocked so their future applications are refused.
func (h *AdminHandler) BlockUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Apps.BlockUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "block failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "blocked"})
}

func toEventResps(list []model.Event) []eventResp {
	resp := make([]eventResp, 0, len(list))
	for _, ev := range list {
		resp = append(resp, eventResp{
			ID: ev.ID, Date: ev.Date, Time: ev.Time,
			Procedure: ev.Procedure, NeedsPhoto: ev.NeedsPhoto,
			Comment: ev.Comment, Status: ev.Status,
		})
	}
	return resp
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// reqCtx bounds a handler's database work to a fixed timeout.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
