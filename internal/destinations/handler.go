package destinations

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wayfarer-travel/wayfarer/internal/platform/httpx"
	"github.com/wayfarer-travel/wayfarer/internal/rbac"
	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// Handler serves public and administrative destination endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	rbac     rbac.Middleware
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: mw, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// MountPublicRoutes registers unauthenticated read-only routes.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/", h.listPublished)
	r.Get("/regions", h.listRegions)
	r.Get("/{slug}", h.getPublished)
}

// MountAdminRoutes registers back-office routes behind permission gates.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewDestinations, rbac.PermManageDestinations))
		r.Get("/", h.listAll)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermCreateDestinations, rbac.PermManageDestinations))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditDestinations, rbac.PermManageDestinations))
		r.Put("/{id}", h.update)
		r.Post("/{id}/publish", h.publish)
		r.Post("/{id}/unpublish", h.unpublish)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermDeleteDestinations, rbac.PermManageDestinations))
		r.Delete("/{id}", h.delete)
	})
}

type destinationPayload struct {
	Name        string `json:"name" validate:"required,max=200"`
	Region      string `json:"region" validate:"max=100"`
	Country     string `json:"country" validate:"max=100"`
	Summary     string `json:"summary" validate:"max=500"`
	Description string `json:"description"`
}

func (h *Handler) listPublished(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("list published destinations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"destinations": toResponses(list)})
}

func (h *Handler) listRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.service.ListRegions(r.Context())
	if err != nil {
		h.logger.Error("list regions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"regions": regions})
}

func (h *Handler) getPublished(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list destinations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"destinations": toResponses(list)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	actorID, _ := shared.UserIDFromContext(r.Context())
	d, err := h.service.Create(r.Context(), actorID, payload.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(d))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	actorID, _ := shared.UserIDFromContext(r.Context())
	d, err := h.service.Update(r.Context(), actorID, id, payload.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

func (h *Handler) unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *Handler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	actorID, _ := shared.UserIDFromContext(r.Context())
	if err := h.service.SetPublished(r.Context(), actorID, id, published); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": id, "published": published})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	actorID, _ := shared.UserIDFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actorID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (destinationPayload, bool) {
	var payload destinationPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return payload, false
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return payload, false
	}
	return payload, true
}

func (p destinationPayload) toInput() DestinationInput {
	return DestinationInput{
		Name:        p.Name,
		Region:      p.Region,
		Country:     p.Country,
		Summary:     p.Summary,
		Description: p.Description,
	}
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return 0, false
	}
	return id, true
}

type destinationResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Region      string `json:"region"`
	Country     string `json:"country"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Published   bool   `json:"published"`
}

func toResponse(d Destination) destinationResponse {
	return destinationResponse{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Region:      d.Region,
		Country:     d.Country,
		Summary:     d.Summary,
		Description: d.Description,
		Published:   d.Published,
	}
}

func toResponses(list []Destination) []destinationResponse {
	out := make([]destinationResponse, len(list))
	for i, d := range list {
		out[i] = toResponse(d)
	}
	return out
}
