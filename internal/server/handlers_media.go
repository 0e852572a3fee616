package server

import (
	"net/http"

	"github.com/mesh-intelligence/garden/internal/media"
)

type mediaPathRequest struct {
	Path string `json:"path"`
}

// mediaInfoResponse is the wire shape of an import result. The content field
// carries the ready-to-store block content for the imported file.
type mediaInfoResponse struct {
	FilePath    string   `json:"filePath"`
	MimeType    string   `json:"mimeType"`
	OriginalURL *string  `json:"originalUrl,omitempty"`
	Width       *int     `json:"width,omitempty"`
	Height      *int     `json:"height,omitempty"`
	Duration    *float64 `json:"duration,omitempty"`
}

func mediaInfoFrom(info media.Info) mediaInfoResponse {
	return mediaInfoResponse{
		FilePath:    info.FilePath,
		MimeType:    info.MimeType,
		OriginalURL: info.OriginalURL,
		Width:       info.Width,
		Height:      info.Height,
		Duration:    info.Duration,
	}
}

func (s *Server) handleMediaImportFromURL(w http.ResponseWriter, r *http.Request) {
	if !s.requireMedia(w) {
		return
	}
	var req struct {
		URL string `json:"url"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	info, err := s.media.ImportFromURL(r.Context(), req.URL)
	if err != nil {
		s.writeMediaError(w, err)
		return
	}
	s.respond(w, http.StatusOK, mediaInfoFrom(info))
}

func (s *Server) handleMediaImportFromFile(w http.ResponseWriter, r *http.Request) {
	if !s.requireMedia(w) {
		return
	}
	var req mediaPathRequest
	if !s.decode(w, r, &req) {
		return
	}
	info, err := s.media.ImportFromFile(r.Context(), req.Path)
	if err != nil {
		s.writeMediaError(w, err)
		return
	}
	s.respond(w, http.StatusOK, mediaInfoFrom(info))
}

func (s *Server) handleMediaDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireMedia(w) {
		return
	}
	var req mediaPathRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.media.Delete(req.Path); err != nil {
		s.writeMediaError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct{}{})
}

func (s *Server) handleMediaExists(w http.ResponseWriter, r *http.Request) {
	if !s.requireMedia(w) {
		return
	}
	var req mediaPathRequest
	if !s.decode(w, r, &req) {
		return
	}
	ok, err := s.media.Exists(req.Path)
	if err != nil {
		s.writeMediaError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct {
		Exists bool `json:"exists"`
	}{ok})
}

func (s *Server) handleMediaFullPath(w http.ResponseWriter, r *http.Request) {
	if !s.requireMedia(w) {
		return
	}
	var req mediaPathRequest
	if !s.decode(w, r, &req) {
		return
	}
	full, err := s.media.FullPath(req.Path)
	if err != nil {
		s.writeMediaError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct {
		FullPath string `json:"fullPath"`
	}{full})
}
