package api

import (
	"net/http"
	"strings"

	"github.com/NizanHulq/portfolio-web/database"
	"github.com/NizanHulq/portfolio-web/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// contentHandler serves the public read endpoints that feed the site pages
type contentHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newContentHandler(db database.Database) contentHandler {
	logger := log.With().Str("handlerName", "contentHandler").Logger()

	return contentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// getProjects returns all projects ordered by order_index, optionally
// filtered by ?category=web2|web3 and ?featured=true.
func (h contentHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		if category != "" && category != "web2" && category != "web3" {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid category"))
			return
		}
		featuredOnly := r.URL.Query().Get("featured") == "true"

		projects, err := h.db.ProjectRepo().FindAll(category, featuredOnly)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"data": projects})
	}
}

func (h contentHandler) getExperiences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		experiences, err := h.db.ExperienceRepo().FindAll()
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "experiences", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"data": experiences})
	}
}

func (h contentHandler) getSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skills, err := h.db.SkillRepo().FindAll()
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "skills", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"data": skills})
	}
}

// getSettings returns the requested settings as a key/value map,
// e.g. ?keys=cv_link,whatsapp_number.
func (h contentHandler) getSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keysParam := r.URL.Query().Get("keys")
		if keysParam == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("keys"))
			return
		}

		keys := strings.Split(keysParam, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}

		values, err := h.db.SettingRepo().FindByKeys(keys)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "settings", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"data": values})
	}
}
