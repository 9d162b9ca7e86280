package api

import (
	"encoding/json"
	"net/http"

	"github.com/NizanHulq/portfolio-web/database"
	"github.com/NizanHulq/portfolio-web/errs"
	"github.com/NizanHulq/portfolio-web/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// adminHandler exposes uniform CRUD over the whitelisted admin collections.
// Every successful write invalidates the chat context cache so the assistant
// picks up edits before the TTL expires.
type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     *database.CollectionStore
	cache     *services.ContextCache
}

func newAdminHandler(store *database.CollectionStore, cache *services.ContextCache) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
		cache:     cache,
	}
}

// collection resolves the {table} path parameter against the whitelist,
// writing a 400 before anything touches storage when it is not a member.
func (h adminHandler) collection(w http.ResponseWriter, r *http.Request) (database.Collection, bool) {
	table := chi.URLParam(r, "table")
	c, ok := database.LookupCollection(table)
	if !ok {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid table"))
		return database.Collection{}, false
	}
	return c, true
}

// list returns all rows of the collection ordered by its identity column
func (h adminHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := h.collection(w, r)
		if !ok {
			return
		}

		rows, err := h.store.FindAll(c)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", c.Name, err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"data": rows})
	}
}

// create inserts the request body as a new row and returns it with its
// generated identity.
func (h adminHandler) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := h.collection(w, r)
		if !ok {
			return
		}

		record := c.NewRecord()
		if err := json.NewDecoder(r.Body).Decode(record); err != nil {
			h.logger.Error().Err(err).Str("table", c.Name).Msg("Failed to decode create request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if err := h.store.Insert(c, record); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("create", c.Name, err))
			return
		}

		h.cache.Invalidate()

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]any{"data": []any{record}})
	}
}

// update applies the body as a patch to the rows matching the identity field.
// The identity itself is immutable: both id and key are stripped from the
// patch before it is applied.
func (h adminHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := h.collection(w, r)
		if !ok {
			return
		}

		patch, identity, ok := h.decodeBodyWithIdentity(w, r, c)
		if !ok {
			return
		}

		delete(patch, c.IdentityColumn)
		delete(patch, "id")
		if len(patch) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("no fields to update"))
			return
		}

		rows, err := h.store.Update(c, identity, patch)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", c.Name, err))
			return
		}

		h.cache.Invalidate()

		h.responder.WriteJSON(w, map[string]any{"data": rows})
	}
}

// remove deletes the rows matching the identity field in the body
func (h adminHandler) remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := h.collection(w, r)
		if !ok {
			return
		}

		_, identity, ok := h.decodeBodyWithIdentity(w, r, c)
		if !ok {
			return
		}

		if err := h.store.Delete(c, identity); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("delete", c.Name, err))
			return
		}

		h.cache.Invalidate()

		h.responder.WriteJSON(w, map[string]any{"success": true})
	}
}

// decodeBodyWithIdentity parses a write body and extracts the collection's
// identity field, rejecting the request before any storage call when the
// field is absent.
func (h adminHandler) decodeBodyWithIdentity(w http.ResponseWriter, r *http.Request, c database.Collection) (map[string]any, any, bool) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Error().Err(err).Str("table", c.Name).Msg("Failed to decode request body")
		h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
		return nil, nil, false
	}

	identity, present := body[c.IdentityColumn]
	if !present || identity == nil {
		h.responder.WriteError(w, errs.NewMissingRequiredFieldError(c.IdentityColumn))
		return nil, nil, false
	}

	return body, identity, true
}
