package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/NizanHulq/portfolio-web/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	passwordHash string
	secret       []byte
	now          func() time.Time
}

func newAuthHandler(passwordHash string, secret []byte) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		passwordHash: passwordHash,
		secret:       secret,
		now:          time.Now,
	}
}

// login exchanges the admin password for a signed session token
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if h.passwordHash == "" {
			h.logger.Error().Msg("ADMIN_PASSWORD_HASH not configured")
			h.responder.WriteError(w, errs.NewInternalError("Admin not configured"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(body.Password)); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			h.responder.WriteJSON(w, map[string]any{
				"success": false,
				"error":   "Invalid password",
			})
			return
		}

		token, err := issueSessionToken(h.secret, h.now())
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to sign session token")
			h.responder.WriteError(w, errs.NewInternalError("Authentication failed"))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"token":   token,
			"message": "Authentication successful",
		})
	}
}
