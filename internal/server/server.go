// Package server exposes the garden service over HTTP. Every operation is a
// named POST endpoint under /api with a JSON request and response; domain
// errors leave this package only as the {code, message, entityId} envelope.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/garden/internal/media"
	"github.com/mesh-intelligence/garden/pkg/garden"
)

// Server routes operation requests to the service and media importer.
type Server struct {
	svc   *garden.Service
	media *media.Importer
	log   *zap.SugaredLogger
}

// New creates a Server. The importer may be nil, in which case media
// operations report that no media root is configured. A nil logger disables
// logging.
func New(svc *garden.Service, importer *media.Importer, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{svc: svc, media: importer, log: log}
}

// Router builds the chi router with all operation endpoints mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Post("/channel.create", s.handleChannelCreate)
		r.Post("/channel.get", s.handleChannelGet)
		r.Post("/channel.list", s.handleChannelList)
		r.Post("/channel.update", s.handleChannelUpdate)
		r.Post("/channel.delete", s.handleChannelDelete)
		r.Post("/channel.count", s.handleChannelCount)

		r.Post("/block.create", s.handleBlockCreate)
		r.Post("/block.createBatch", s.handleBlockCreateBatch)
		r.Post("/block.get", s.handleBlockGet)
		r.Post("/block.update", s.handleBlockUpdate)
		r.Post("/block.delete", s.handleBlockDelete)

		r.Post("/connection.connect", s.handleConnect)
		r.Post("/connection.connectBatch", s.handleConnectBatch)
		r.Post("/connection.disconnect", s.handleDisconnect)
		r.Post("/connection.get", s.handleConnectionGet)
		r.Post("/connection.blocksInChannel", s.handleBlocksInChannel)
		r.Post("/connection.blocksWithPositions", s.handleBlocksWithPositions)
		r.Post("/connection.channelsForBlock", s.handleChannelsForBlock)
		r.Post("/connection.reorder", s.handleReorder)

		r.Post("/media.importFromURL", s.handleMediaImportFromURL)
		r.Post("/media.importFromFile", s.handleMediaImportFromFile)
		r.Post("/media.delete", s.handleMediaDelete)
		r.Post("/media.exists", s.handleMediaExists)
		r.Post("/media.fullPath", s.handleMediaFullPath)
	})
	return r
}

// logRequests logs one line per request with method, path, status, and
// duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// decode parses the request body into dst, treating malformed input as a
// validation failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		s.writeEnvelope(w, http.StatusBadRequest, errorEnvelope{
			Code:    codeValidation,
			Message: "malformed request body: " + err.Error(),
		})
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Errorw("encode response", "error", err)
	}
}
