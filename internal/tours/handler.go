package tours

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

// Handler serves public and administrative tour endpoints.
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
	r.Get("/{slug}", h.getPublished)
}

// MountAdminRoutes registers back-office routes behind permission gates.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewTours, rbac.PermManageTours))
		r.Get("/", h.listAll)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermCreateTours, rbac.PermManageTours))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditTours, rbac.PermManageTours))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermPublishTours, rbac.PermManageTours))
		r.Post("/{id}/publish", h.publish)
		r.Post("/{id}/unpublish", h.unpublish)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermDeleteTours, rbac.PermManageTours))
		r.Delete("/{id}", h.delete)
	})
}

type tourPayload struct {
	DestinationID *int64 `json:"destination_id"`
	Title         string `json:"title" validate:"required,max=200"`
	Summary       string `json:"summary" validate:"max=500"`
	Description   string `json:"description"`
	DurationDays  int    `json:"duration_days" validate:"required,gt=0"`
	PriceCents    int64  `json:"price_cents" validate:"gte=0"`
	Currency      string `json:"currency" validate:"omitempty,len=3"`
}

func (h *Handler) listPublished(w http.ResponseWriter, r *http.Request) {
	tours, err := h.service.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("list published tours", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tours": toResponses(tours)})
}

func (h *Handler) getPublished(w http.ResponseWriter, r *http.Request) {
	tour, err := h.service.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(tour))
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	tours, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list tours", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tours": toResponses(tours)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	tour, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(tour))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	actorID, _ := shared.UserIDFromContext(r.Context())
	tour, err := h.service.Create(r.Context(), actorID, payload.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(tour))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	actorID, _ := shared.UserIDFromContext(r.Context())
	tour, err := h.service.Update(r.Context(), actorID, id, payload.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(tour))
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

func (h *Handler) unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *Handler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	id, ok := parseID(w, r)
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
	id, ok := parseID(w, r)
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

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (tourPayload, bool) {
	var payload tourPayload
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

func (p tourPayload) toInput() TourInput {
	return TourInput{
		DestinationID: p.DestinationID,
		Title:         p.Title,
		Summary:       p.Summary,
		Description:   p.Description,
		DurationDays:  p.DurationDays,
		PriceCents:    p.PriceCents,
		Currency:      p.Currency,
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return 0, false
	}
	return id, true
}

type tourResponse struct {
	ID            int64  `json:"id"`
	DestinationID *int64 `json:"destination_id,omitempty"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Summary       string `json:"summary"`
	Description   string `json:"description"`
	DurationDays  int    `json:"duration_days"`
	PriceCents    int64  `json:"price_cents"`
	Currency      string `json:"currency"`
	Published     bool   `json:"published"`
}

func toResponse(t Tour) tourResponse {
	return tourResponse{
		ID:            t.ID,
		DestinationID: t.DestinationID,
		Title:         t.Title,
		Slug:          t.Slug,
		Summary:       t.Summary,
		Description:   t.Description,
		DurationDays:  t.DurationDays,
		PriceCents:    t.PriceCents,
		Currency:      t.Currency,
		Published:     t.Published,
	}
}

func toResponses(tours []Tour) []tourResponse {
	out := make([]tourResponse, len(tours))
	for i, t := range tours {
		out[i] = toResponse(t)
	}
	return out
}
