package api

import (
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/NizanHulq/portfolio-web/errs"
	"github.com/NizanHulq/portfolio-web/services"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 5 << 20 // 5MB

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  services.Uploader
}

func newUploadHandler(uploader services.Uploader) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
	}
}

// upload stores a project image in the object-storage bucket under a
// generated key and returns its public URL.
func (h uploadHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Headroom over the file cap for multipart framing and other fields
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+512*1024)

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxUploadSize))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("No image file provided"))
			return
		}
		defer file.Close()

		if header.Size > maxUploadSize {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxUploadSize))
			return
		}

		contentType := header.Header.Get("Content-Type")
		if !slices.Contains(allowedImageTypes, contentType) {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(contentType, allowedImageTypes))
			return
		}

		ext := strings.ToLower(path.Ext(header.Filename))
		key := "projects/" + uuid.NewString() + ext

		imageURL, err := h.uploader.Upload(r.Context(), key, contentType, file)
		if err != nil {
			h.logger.Error().Err(err).Str("key", key).Msg("Failed to store uploaded image")
			h.responder.WriteError(w, errs.NewInternalError("Failed to upload image"))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success":  true,
			"filename": path.Base(key),
			"imageUrl": imageURL,
			"message":  "Image uploaded successfully",
		})
	}
}
