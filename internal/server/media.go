package server

import (
	"errors"
	"net/http"

	"sponsors/internal/utils"
	"sponsors/pkg/types"

	"github.com/sirupsen/logrus"
)

// handleUploadMedia stores the request body as the file behind a registered
// media slot. The original file name travels in the filename query
// parameter; without it the extension comes from Content-Type.
func (s *Service) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	filename := r.URL.Query().Get("filename")
	contentType := r.Header.Get("Content-Type")

	media, err := s.media.Upload(r.Context(), id, filename, contentType, r.Body)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrMediaNotFound):
			s.writeError(w, http.StatusNotFound, "Media not found")
		case errors.Is(err, types.ErrMediaTooLarge):
			s.writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
		case errors.Is(err, types.ErrMediaExtension):
			s.writeError(w, http.StatusUnsupportedMediaType, "File type is not allowed")
		case errors.Is(err, types.ErrMediaExists):
			s.writeError(w, http.StatusConflict, "Media already uploaded")
		default:
			s.requestLogger(r).WithError(err).WithField("media_id", id).Error("failed to upload media")
			s.internalServerError(w)
		}
		return
	}

	s.requestLogger(r).WithFields(logrus.Fields{
		"media_id":   media.ID,
		"size_bytes": utils.PtrInt64(media.SizeBytes),
	}).Info("media uploaded")

	s.writeJSON(w, http.StatusOK, media)
}

func (s *Service) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	url, err := s.media.URL(r.Context(), id)
	if err != nil {
		if errors.Is(err, types.ErrMediaNotFound) {
			s.writeError(w, http.StatusNotFound, "Media not found")
			return
		}
		s.requestLogger(r).WithError(err).WithField("media_id", id).Error("failed to presign media url")
		s.internalServerError(w)
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
