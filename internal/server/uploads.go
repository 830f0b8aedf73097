package server

import (
	"net/http"
	"strings"

	"revive/internal/storage"
	"revive/pkg/types"
)

const uploadFormField = "image"

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type uploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		s.logger.WithError(err).Debug("failed to parse upload")
		s.writeError(w, r, types.NewError(types.ErrValidation, "Image must be a multipart upload within the size limit"))
		return
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		s.writeError(w, r, types.NewValidationError(map[string]string{uploadFormField: "Image file is required"}))
		return
	}
	defer file.Close()

	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if !allowedImageTypes[contentType] {
		s.writeError(w, r, types.NewValidationError(map[string]string{uploadFormField: "Image must be jpeg, png, webp or gif"}))
		return
	}

	caller := principal(r)
	key, err := s.images.UploadFile(r.Context(), storage.Key(caller.ID, header.Filename), file, contentType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithField("user_id", caller.ID).WithField("key", key).Info("image uploaded")

	s.writeJSON(w, http.StatusCreated, uploadResponse{Key: key, URL: s.images.PublicURL(key)})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.logger.WithError(err).Error("database ping failed")
			s.writeJSON(w, http.StatusServiceUnavailable, messageResponse{Message: "database unavailable"})
			return
		}
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}
