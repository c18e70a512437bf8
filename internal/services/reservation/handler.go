package reservation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/grizztep/Karinderya/internal/apperrors"
	"github.com/grizztep/Karinderya/internal/logger"
	"github.com/grizztep/Karinderya/internal/middleware"
	"github.com/grizztep/Karinderya/internal/models"
)

// Handler handles HTTP requests for reservations.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a reservation handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterPublic mounts the routes that need no authentication.
func (h *Handler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/check-availability", h.CheckAvailability).Methods(http.MethodPost)
}

// RegisterProtected mounts the authenticated routes.
func (h *Handler) RegisterProtected(r *mux.Router) {
	r.HandleFunc("/reservations", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/reservations", h.List).Methods(http.MethodGet)
	r.HandleFunc("/reservations/statistics", h.Statistics).Methods(http.MethodGet)
	r.HandleFunc("/reservations/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/reservations/{id}/status", h.UpdateStatus).Methods(http.MethodPut)
	r.HandleFunc("/reservations/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/reservations/{id}/cancel", h.CancelOwn).Methods(http.MethodPost)
}

// CheckAvailability handles POST /check-availability.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	resp, err := h.service.CheckAvailability(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, requestID, "availability_check_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"availability":  resp.Availability,
		"booked_tables": resp.BookedTables,
		"total_tables":  resp.TotalTables,
	})
}

// Create handles POST /reservations.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	requester, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	reservation, err := h.service.Create(r.Context(), requester, &req)
	if err != nil {
		h.writeServiceError(w, requestID, "reservation_create_failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"message":     "Reservation confirmed! Your reservation is now pending approval.",
		"reservation": reservation,
	})
}

// Get handles GET /reservations/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, requestID, "reservation_get_failed", err)
		return
	}

	reservation, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, requestID, "reservation_get_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"reservation": reservation,
	})
}

// List handles GET /reservations with optional status and date filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	filter := ListFilter{
		Status: r.URL.Query().Get("status"),
		Date:   r.URL.Query().Get("date"),
	}

	reservations, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, requestID, "reservation_list_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"reservations": reservations,
	})
}

// UpdateStatus handles PUT /reservations/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, requestID, "reservation_update_failed", err)
		return
	}

	var req models.UpdateReservationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	reservation, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeServiceError(w, requestID, "reservation_update_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Reservation status updated successfully",
		"reservation": reservation,
	})
}

// Delete handles DELETE /reservations/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, requestID, "reservation_delete_failed", err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		var state apperrors.StateError
		if errors.As(err, &state) {
			writeError(w, http.StatusForbidden, "Cannot delete confirmed or completed reservations")
			return
		}
		h.writeServiceError(w, requestID, "reservation_delete_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Reservation deleted successfully",
	})
}

// CancelOwn handles POST /reservations/{id}/cancel for customers.
func (h *Handler) CancelOwn(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	requester, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, requestID, "reservation_cancel_failed", err)
		return
	}

	reservation, err := h.service.CancelOwn(r.Context(), id, requester.UserID)
	if err != nil {
		var notFound apperrors.NotFoundError
		if errors.As(err, &notFound) {
			writeError(w, http.StatusNotFound, "Reservation not found or cannot be cancelled.")
			return
		}
		h.writeServiceError(w, requestID, "reservation_cancel_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Reservation cancelled successfully.",
		"reservation": reservation,
	})
}

// Statistics handles GET /reservations/statistics.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		h.writeServiceError(w, requestID, "statistics_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stats,
	})
}

// writeServiceError maps the error taxonomy to HTTP responses.
func (h *Handler) writeServiceError(w http.ResponseWriter, requestID, action string, err error) {
	var (
		validation apperrors.ValidationError
		notFound   apperrors.NotFoundError
		conflict   apperrors.ConflictError
		state      apperrors.StateError
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"success": false,
			"message": "Validation failed.",
			"errors":  map[string]string{validation.Field: validation.Message},
		})
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, conflict.Message)
	case errors.As(err, &state):
		writeError(w, http.StatusBadRequest, state.Reason)
	default:
		h.logger.Error(action, "Unexpected error", requestID, err, nil)
		writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
