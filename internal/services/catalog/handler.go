package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/grizztep/Karinderya/internal/apperrors"
	"github.com/grizztep/Karinderya/internal/logger"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Register mounts the catalog routes.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/menu", h.ListDishes).Methods(http.MethodGet)
	r.HandleFunc("/menu/{dish_id}", h.GetDish).Methods(http.MethodGet)
	r.HandleFunc("/tables", h.ListTables).Methods(http.MethodGet)
}

// ListDishes handles GET /menu.
func (h *Handler) ListDishes(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	dishes, err := h.service.ListDishes(r.Context())
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list dishes", requestID, err, nil)
		writeError(w, http.StatusInternalServerError, "Unable to fetch the menu")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"dishes":  dishes,
	})
}

// GetDish handles GET /menu/{dish_id}.
func (h *Handler) GetDish(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	dishID, err := strconv.ParseInt(mux.Vars(r)["dish_id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid dish id")
		return
	}

	dish, err := h.service.GetDish(r.Context(), dishID)
	if err != nil {
		var notFound apperrors.NotFoundError
		if errors.As(err, &notFound) {
			writeError(w, http.StatusNotFound, "Dish not found")
			return
		}
		h.logger.Error("db_query_failed", "Failed to get dish", requestID, err, map[string]interface{}{
			"dish_id": dishID,
		})
		writeError(w, http.StatusInternalServerError, "Unable to fetch the dish")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"dish":    dish,
	})
}

// ListTables handles GET /tables.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	tables, err := h.service.ListTables(r.Context())
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list tables", requestID, err, nil)
		writeError(w, http.StatusInternalServerError, "Unable to fetch tables")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tables":  tables,
	})
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
