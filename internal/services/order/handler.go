package order

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

// Handler handles HTTP requests for orders.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates an order handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterProtected mounts the authenticated order routes.
func (h *Handler) RegisterProtected(r *mux.Router) {
	r.HandleFunc("/orders", h.PlaceOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/group/{group_id}", h.GetGroup).Methods(http.MethodGet)
	r.HandleFunc("/orders/user/{user_id}", h.UserOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders/status/{status}", h.OrdersByStatus).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", h.GetLine).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/status", h.UpdateStatus).Methods(http.MethodPut)
	r.HandleFunc("/orders/{id}/cancel", h.CancelOwn).Methods(http.MethodPost)
}

// PlaceOrder handles POST /orders, single or bulk carts alike.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	buyer, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.PlaceOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	group, err := h.service.PlaceOrder(r.Context(), buyer, &req)
	if err != nil {
		h.writeServiceError(w, requestID, "order_place_failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":            true,
		"message":            "Orders placed successfully",
		"group_id":           group.GroupID,
		"orders":             group.Lines,
		"items_count":        len(group.Lines),
		"subtotal_cents":     group.SubtotalCents,
		"delivery_fee_cents": group.DeliveryFeeCents,
		"grand_total_cents":  group.GrandTotalCents,
	})
}

// GetGroup handles GET /orders/group/{group_id}.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	group, err := h.service.GetGroup(r.Context(), mux.Vars(r)["group_id"])
	if err != nil {
		h.writeServiceError(w, requestID, "order_group_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":            true,
		"group_id":           group.GroupID,
		"orders":             group.Lines,
		"subtotal_cents":     group.SubtotalCents,
		"delivery_fee_cents": group.DeliveryFeeCents,
		"grand_total_cents":  group.GrandTotalCents,
	})
}

// GetLine handles GET /orders/{id}.
func (h *Handler) GetLine(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, requestID, "order_get_failed", err)
		return
	}

	line, err := h.service.GetLine(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, requestID, "order_get_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"order":   line,
	})
}

// UserOrders handles GET /orders/user/{user_id}.
func (h *Handler) UserOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	lines, err := h.service.UserOrders(r.Context(), mux.Vars(r)["user_id"])
	if err != nil {
		h.writeServiceError(w, requestID, "order_list_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  lines,
	})
}

// OrdersByStatus handles GET /orders/status/{status}.
func (h *Handler) OrdersByStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	lines, err := h.service.OrdersByStatus(r.Context(), mux.Vars(r)["status"])
	if err != nil {
		h.writeServiceError(w, requestID, "order_list_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  lines,
	})
}

// UpdateStatus handles PUT /orders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, requestID, "order_update_failed", err)
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	line, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeServiceError(w, requestID, "order_update_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order status updated successfully",
		"order":   line,
	})
}

// CancelOwn handles POST /orders/{id}/cancel for customers.
func (h *Handler) CancelOwn(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	buyer, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, requestID, "order_cancel_failed", err)
		return
	}

	line, err := h.service.CancelOwn(r.Context(), id, buyer.UserID)
	if err != nil {
		var notFound apperrors.NotFoundError
		if errors.As(err, &notFound) {
			writeError(w, http.StatusNotFound, "Order not found or cannot be cancelled.")
			return
		}
		h.writeServiceError(w, requestID, "order_cancel_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order cancelled successfully.",
		"order":   line,
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
