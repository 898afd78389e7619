package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-inspire-bot/internal/application/subscription"
	"github.com/go-inspire-bot/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ConfirmSubscriptionRequest promotes a user's pending number to confirmed.
// This is the out-of-band confirmation hook: the bot itself never promotes.
type ConfirmSubscriptionRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// SubscriptionHandler handles admin subscription endpoints.
type SubscriptionHandler struct {
	svc subscription.Service
}

func NewSubscriptionHandler(svc subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

func (h *SubscriptionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := h.svc.Confirm(r.Context(), req.UserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "no subscription for user")
		return
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "subscription is not pending")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SubscriptionEnvelope{Subscription: sub})
}
