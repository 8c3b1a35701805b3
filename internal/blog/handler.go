package blog

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wayfarer-travel/wayfarer/internal/platform/httpx"
	"github.com/wayfarer-travel/wayfarer/internal/rbac"
	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// Handler serves public and administrative blog endpoints.
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
		r.Use(h.rbac.RequireAny(rbac.PermViewPosts, rbac.PermManageBlog))
		r.Get("/", h.listAll)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermCreatePosts, rbac.PermManageBlog))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditPosts, rbac.PermManageBlog))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermPublishPosts, rbac.PermManageBlog))
		r.Post("/{id}/publish", h.publish)
		r.Post("/{id}/unpublish", h.unpublish)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermDeletePosts, rbac.PermManageBlog))
		r.Delete("/{id}", h.delete)
	})
}

type postPayload struct {
	Title   string `json:"title" validate:"required,max=200"`
	Excerpt string `json:"excerpt" validate:"max=500"`
	Body    string `json:"body" validate:"required"`
}

func (h *Handler) listPublished(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("list published posts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"posts": toResponses(posts)})
}

func (h *Handler) getPublished(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(post))
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list posts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"posts": toResponses(posts)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	post, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(post))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	actorID, _ := shared.UserIDFromContext(r.Context())
	post, err := h.service.Create(r.Context(), actorID, payload.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(post))
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
	post, err := h.service.Update(r.Context(), actorID, id, payload.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(post))
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

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (postPayload, bool) {
	var payload postPayload
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

func (p postPayload) toInput() PostInput {
	return PostInput{Title: p.Title, Excerpt: p.Excerpt, Body: p.Body}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return 0, false
	}
	return id, true
}

type postResponse struct {
	ID          int64      `json:"id"`
	AuthorID    int64      `json:"author_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func toResponse(p Post) postResponse {
	return postResponse{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Body:        p.Body,
		Published:   p.Published,
		PublishedAt: p.PublishedAt,
	}
}

func toResponses(posts []Post) []postResponse {
	out := make([]postResponse, len(posts))
	for i, p := range posts {
		out[i] = toResponse(p)
	}
	return out
}
