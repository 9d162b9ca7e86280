package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NizanHulq/portfolio-web/errs"
	"github.com/NizanHulq/portfolio-web/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// chatReplier is satisfied by services.ChatRelay
type chatReplier interface {
	Reply(ctx context.Context, history []services.Message) (string, error)
}

type chatHandler struct {
	responder Responder
	logger    zerolog.Logger
	relay     chatReplier
}

func newChatHandler(relay chatReplier) chatHandler {
	logger := log.With().Str("handlerName", "chatHandler").Logger()

	return chatHandler{
		responder: NewResponder(logger),
		logger:    logger,
		relay:     relay,
	}
}

// chat relays the visitor conversation to the assistant
func (h chatHandler) chat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []services.Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.writeFailure(w, http.StatusBadRequest, "Messages array is required")
			return
		}
		if len(body.Messages) == 0 {
			h.writeFailure(w, http.StatusBadRequest, "Messages array is required")
			return
		}

		answer, err := h.relay.Reply(r.Context(), body.Messages)
		if err != nil {
			status := http.StatusInternalServerError
			message := "Failed to get AI response. Please try again."

			var apiErr *errs.ApiErr
			if errors.As(err, &apiErr) {
				status = apiErr.StatusCode
				if apiErr.Details != "" {
					message = apiErr.Details
				} else {
					message = apiErr.Error()
				}
			}

			h.writeFailure(w, status, message)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"message": answer,
		})
	}
}

func (h chatHandler) writeFailure(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	h.responder.WriteJSON(w, map[string]any{
		"success": false,
		"error":   message,
	})
}
