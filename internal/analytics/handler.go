package analytics

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer/internal/platform/httpx"
	"github.com/wayfarer-travel/wayfarer/internal/rbac"
)

// Handler serves reporting endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: mw}
}

// MountAdminRoutes registers back-office routes behind permission gates.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewDashboard, rbac.PermViewAnalytics))
		r.Get("/dashboard", h.dashboard)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewAnalytics))
		r.Get("/bookings/monthly", h.monthly)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermExportAnalytics))
		r.Get("/bookings/monthly.csv", h.exportCSV)
	})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("analytics dashboard", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.MonthlyBookings(r.Context(), monthsParam(r))
	if err != nil {
		h.logger.Error("analytics monthly bookings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"months": rows})
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings-monthly.csv"`)
	if err := h.service.ExportMonthlyBookingsCSV(r.Context(), w, monthsParam(r)); err != nil {
		h.logger.Error("analytics export", slog.Any("error", err))
	}
}

func monthsParam(r *http.Request) int {
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))
	return months
}
