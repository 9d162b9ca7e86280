package api

import (
	"github.com/NizanHulq/portfolio-web/config"
	"github.com/NizanHulq/portfolio-web/database"
	"github.com/NizanHulq/portfolio-web/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler    authHandler
	adminHandler   adminHandler
	contentHandler contentHandler
	uploadHandler  uploadHandler
	chatHandler    chatHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, cfg map[string]string, cache *services.ContextCache, relay chatReplier, uploader services.Uploader) *routeHandlers {
	passwordHash := config.GetString(cfg, "ADMIN_PASSWORD_HASH", "")
	secret := []byte(config.GetString(cfg, "SESSION_SECRET", ""))

	return &routeHandlers{
		authHandler:    newAuthHandler(passwordHash, secret),
		adminHandler:   newAdminHandler(db.CollectionStore(), cache),
		contentHandler: newContentHandler(db),
		uploadHandler:  newUploadHandler(uploader),
		chatHandler:    newChatHandler(relay),
	}
}
