package testimonials

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

// Handler serves public and administrative testimonial endpoints.
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
}

// MountAdminRoutes registers back-office routes. Testimonials live under
// the blog management permission rather than carrying their own.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Use(h.rbac.RequireAny(rbac.PermManageBlog))
	r.Get("/", h.listAll)
	r.Get("/{id}", h.get)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Post("/{id}/publish", h.publish)
	r.Post("/{id}/unpublish", h.unpublish)
	r.Delete("/{id}", h.delete)
}

type testimonialPayload struct {
	AuthorName string `json:"author_name" validate:"required,max=120"`
	Location   string `json:"location" validate:"max=120"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Quote      string `json:"quote" validate:"required,max=2000"`
}

func (h *Handler) listPublished(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("list published testimonials", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"testimonials": toResponses(items)})
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list testimonials", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"testimonials": toResponses(items)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(item))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	actorID, _ := shared.UserIDFromContext(r.Context())
	item, err := h.service.Create(r.Context(), actorID, payload.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(item))
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
	item, err := h.service.Update(r.Context(), actorID, id, payload.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(item))
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

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (testimonialPayload, bool) {
	var payload testimonialPayload
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

func (p testimonialPayload) toInput() TestimonialInput {
	return TestimonialInput{AuthorName: p.AuthorName, Location: p.Location, Rating: p.Rating, Quote: p.Quote}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return 0, false
	}
	return id, true
}

type testimonialResponse struct {
	ID         int64  `json:"id"`
	AuthorName string `json:"author_name"`
	Location   string `json:"location"`
	Rating     int    `json:"rating"`
	Quote      string `json:"quote"`
	Published  bool   `json:"published"`
}

func toResponse(t Testimonial) testimonialResponse {
	return testimonialResponse{
		ID:         t.ID,
		AuthorName: t.AuthorName,
		Location:   t.Location,
		Rating:     t.Rating,
		Quote:      t.Quote,
		Published:  t.Published,
	}
}

func toResponses(items []Testimonial) []testimonialResponse {
	out := make([]testimonialResponse, len(items))
	for i, t := range items {
		out[i] = toResponse(t)
	}
	return out
}
