package bookings

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

// Handler serves the public submission endpoint and the back-office views.
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

// MountPublicRoutes registers the lead-capture endpoint. Rate limiting is
// applied by the router, not here.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/", h.submit)
}

// MountAdminRoutes registers back-office routes behind permission gates.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewBookings, rbac.PermManageBookings))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditBookings, rbac.PermManageBookings))
		r.Post("/{id}/status", h.setStatus)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermDeleteBookings, rbac.PermManageBookings))
		r.Delete("/{id}", h.delete)
	})
}

type submitPayload struct {
	Name       string  `json:"name" validate:"required,max=120"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      string  `json:"phone" validate:"max=40"`
	TourID     *int64  `json:"tour_id" validate:"omitempty,gt=0"`
	PartySize  int     `json:"party_size" validate:"required,gt=0,lte=50"`
	TravelDate *string `json:"travel_date"`
	Message    string  `json:"message" validate:"max=4000"`
}

type statusPayload struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var payload submitPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	var travelDate *time.Time
	if payload.TravelDate != nil && *payload.TravelDate != "" {
		parsed, err := time.Parse("2006-01-02", *payload.TravelDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "travel_date must be YYYY-MM-DD")
			return
		}
		travelDate = &parsed
	}

	booking, err := h.service.Submit(r.Context(), SubmitInput{
		Name:       payload.Name,
		Email:      payload.Email,
		Phone:      payload.Phone,
		TourID:     payload.TourID,
		PartySize:  payload.PartySize,
		TravelDate: travelDate,
		Message:    payload.Message,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": booking.ID, "status": booking.Status})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	status := Status(r.URL.Query().Get("status"))
	list, err := h.service.List(r.Context(), status)
	if err != nil {
		h.logger.Error("list bookings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bookings": toResponses(list)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	booking, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(booking))
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var payload statusPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actorID, _ := shared.UserIDFromContext(r.Context())
	booking, err := h.service.SetStatus(r.Context(), actorID, id, Status(payload.Status))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(booking))
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

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return 0, false
	}
	return id, true
}

type bookingResponse struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customer_id"`
	TourID     *int64     `json:"tour_id,omitempty"`
	Status     Status     `json:"status"`
	PartySize  int        `json:"party_size"`
	TravelDate *time.Time `json:"travel_date,omitempty"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toResponse(b Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		CustomerID: b.CustomerID,
		TourID:     b.TourID,
		Status:     b.Status,
		PartySize:  b.PartySize,
		TravelDate: b.TravelDate,
		Message:    b.Message,
		CreatedAt:  b.CreatedAt,
	}
}

func toResponses(list []Booking) []bookingResponse {
	out := make([]bookingResponse, len(list))
	for i, b := range list {
		out[i] = toResponse(b)
	}
	return out
}
