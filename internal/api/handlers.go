// Package api exposes HTTP handlers for the roster service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/config"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/domain"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/resolver"
	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/roster"
)

// Handler coordinates HTTP requests with the roster service.
type Handler struct {
	service *roster.Service
}

// NewHandler builds a Handler.
func NewHandler(service *roster.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/days", h.days)
	mux.HandleFunc("/v1/days/", h.dayRoutes)
	mux.HandleFunc("/v1/events/", h.eventRoutes)
	mux.HandleFunc("/v1/roles", h.roles)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) days(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// dayRoutes serves /v1/days/{weekday} and /v1/days/{weekday}/activities.
func (h *Handler) dayRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/days/"), "/")
	weekday, sub, _ := strings.Cut(rest, "/")
	if weekday == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing weekday")
		return
	}

	switch sub {
	case "":
		h.day(w, r, weekday)
	case "activities":
		h.activities(w, r, weekday)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
	}
}

func (h *Handler) day(w http.ResponseWriter, r *http.Request, weekday string) {
	day, events, err := h.service.Day(r.Context(), weekday)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DayResponse{Weekday: day.String(), Events: events})
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request, weekday string) {
	roles := config.SplitList(r.URL.Query().Get("roles"))

	blocks, err := h.service.Activities(r.Context(), weekday, roles)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	day, _ := domain.ParseWeekday(weekday)
	resp := ActivitiesResponse{
		Weekday: day.String(),
		Blocks:  make([]BlockView, 0, len(blocks)),
	}
	for _, block := range blocks {
		resp.Blocks = append(resp.Blocks, toBlockView(block))
	}
	writeJSON(w, http.StatusOK, resp)
}

// eventRoutes serves /v1/events/{id}/linked.
func (h *Handler) eventRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/events/"), "/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing event id")
		return
	}
	if sub != "linked" {
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
		return
	}

	event, linked, err := h.service.Linked(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkedResponse{Event: event, Linked: linked})
}

func (h *Handler) roles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	roles, err := h.service.Roles(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RolesResponse{Roles: roles})
}

// DayResponse lists the events of one weekday.
type DayResponse struct {
	Weekday string         `json:"weekday"`
	Events  []domain.Event `json:"events"`
}

// BlockView is one agenda block with the activity of every role. Annotations
// holds the display hint of roles whose activity does not cover the block.
type BlockView struct {
	Anchor      domain.Event                 `json:"anchor"`
	Activities  map[string]resolver.Activity `json:"activities"`
	Annotations map[string]string            `json:"annotations,omitempty"`
}

// ActivitiesResponse packages the resolved blocks of a weekday.
type ActivitiesResponse struct {
	Weekday string      `json:"weekday"`
	Blocks  []BlockView `json:"blocks"`
}

// LinkedResponse returns an event with its related events.
type LinkedResponse struct {
	Event  domain.Event   `json:"event"`
	Linked []domain.Event `json:"linked"`
}

// RolesResponse lists roles and their assigned people.
type RolesResponse struct {
	Roles []roster.RoleInfo `json:"roles"`
}

func toBlockView(block resolver.AnchorActivities) BlockView {
	view := BlockView{Anchor: block.Anchor, Activities: block.Activities}
	for role, act := range block.Activities {
		note := act.Annotation()
		if note == "" {
			continue
		}
		if view.Annotations == nil {
			view.Annotations = make(map[string]string)
		}
		view.Annotations[role] = note
	}
	return view
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, roster.ErrNoSnapshot):
		writeError(w, http.StatusNotFound, "no_snapshot", err.Error())
	case errors.Is(err, roster.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrUnknownWeekday):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
