package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"trading-ledger-go/internal/ledger"
	"trading-ledger-go/internal/models"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log *zap.Logger
	svc *ledger.Service
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, svc *ledger.Service) *APIHandler {
	return &APIHandler{log: log, svc: svc}
}

// PortfolioHandler returns a user's positions ordered by instrument.
func (h *APIHandler) PortfolioHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user_id", http.StatusBadRequest)
		return
	}

	summary, err := h.svc.PortfolioSummary(r.Context(), userID)
	if err != nil {
		h.log.Error("Failed to get portfolio summary", zap.Error(err))
		http.Error(w, "Failed to get portfolio summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, summary)
}

// TradesHandler returns a user's trade history, newest first.
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := strconv.ParseInt(q.Get("user_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user_id", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	trades, err := h.svc.UserTrades(r.Context(), userID, limit, offset)
	if err != nil {
		h.log.Error("Failed to get trades from database", zap.Error(err))
		http.Error(w, "Failed to get trades", http.StatusInternalServerError)
		return
	}
	writeJSON(w, trades)
}

// AuditHandler searches the audit log. All query parameters are optional and
// combine conjunctively.
func (h *APIHandler) AuditHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter ledger.AuditEventFilter

	if v := q.Get("user_id"); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid user_id", http.StatusBadRequest)
			return
		}
		filter.UserID = &userID
	}
	if v := q.Get("event_type"); v != "" {
		eventType := models.AuditEventType(v)
		filter.EventType = &eventType
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid since timestamp", http.StatusBadRequest)
			return
		}
		filter.Since = &since
	}
	if v := q.Get("until"); v != "" {
		until, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid until timestamp", http.StatusBadRequest)
			return
		}
		filter.Until = &until
	}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	events, err := h.svc.AuditEvents(r.Context(), filter)
	if err != nil {
		h.log.Error("Failed to search audit events", zap.Error(err))
		http.Error(w, "Failed to search audit events", http.StatusInternalServerError)
		return
	}
	writeJSON(w, events)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
