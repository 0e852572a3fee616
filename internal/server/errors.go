package server

import (
	"errors"
	"net/http"

	"github.com/mesh-intelligence/garden/internal/media"
	"github.com/mesh-intelligence/garden/pkg/garden"
)

// Envelope codes. Clients branch on these, never on message text.
const (
	codeChannelNotFound    = "CHANNEL_NOT_FOUND"
	codeBlockNotFound      = "BLOCK_NOT_FOUND"
	codeConnectionNotFound = "CONNECTION_NOT_FOUND"
	codeValidation         = "VALIDATION_ERROR"
	codeDuplicate          = "DUPLICATE_ERROR"
	codeDatabase           = "DATABASE_ERROR"
	codeInitialization     = "INITIALIZATION_ERROR"
	codeMedia              = "MEDIA_ERROR"
	codeInternal           = "INTERNAL_ERROR"
)

// errorEnvelope is the wire shape of every failed operation.
type errorEnvelope struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	EntityID string `json:"entityId,omitempty"`
}

func (s *Server) writeEnvelope(w http.ResponseWriter, status int, env errorEnvelope) {
	s.respond(w, status, env)
}

// writeError classifies a domain error into its envelope and HTTP status.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	env, status := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Errorw("operation failed", "code", env.Code, "error", err)
	}
	s.writeEnvelope(w, status, env)
}

func classify(err error) (errorEnvelope, int) {
	var (
		channelNotFound    *garden.ChannelNotFoundError
		blockNotFound      *garden.BlockNotFoundError
		connectionNotFound *garden.ConnectionNotFoundError
		invalidInput       *garden.InvalidInputError
	)
	switch {
	case errors.As(err, &channelNotFound):
		return errorEnvelope{Code: codeChannelNotFound, Message: err.Error(), EntityID: string(channelNotFound.ID)}, http.StatusNotFound
	case errors.As(err, &blockNotFound):
		return errorEnvelope{Code: codeBlockNotFound, Message: err.Error(), EntityID: string(blockNotFound.ID)}, http.StatusNotFound
	case errors.As(err, &connectionNotFound):
		return errorEnvelope{Code: codeConnectionNotFound, Message: err.Error(), EntityID: string(connectionNotFound.BlockID)}, http.StatusNotFound
	case errors.As(err, &invalidInput):
		return errorEnvelope{Code: codeValidation, Message: err.Error()}, http.StatusBadRequest
	case errors.Is(err, garden.ErrDuplicate):
		return errorEnvelope{Code: codeDuplicate, Message: err.Error()}, http.StatusConflict
	case errors.Is(err, garden.ErrNotFound),
		errors.Is(err, garden.ErrDatabase),
		errors.Is(err, garden.ErrInvalidDatetime):
		// A bare repository not-found means the service skipped its
		// existence check; report it as a storage fault, not a lookup miss.
		return errorEnvelope{Code: codeDatabase, Message: err.Error()}, http.StatusInternalServerError
	case errors.Is(err, media.ErrTooLarge), errors.Is(err, media.ErrUnsupportedType):
		return errorEnvelope{Code: codeMedia, Message: err.Error()}, http.StatusBadRequest
	default:
		return errorEnvelope{Code: codeInternal, Message: err.Error()}, http.StatusInternalServerError
	}
}

// writeMediaError is writeError for media operations: anything unclassified
// stays a MEDIA_ERROR rather than leaking as INTERNAL_ERROR.
func (s *Server) writeMediaError(w http.ResponseWriter, err error) {
	env, status := classify(err)
	if env.Code == codeInternal {
		env.Code = codeMedia
		status = http.StatusBadRequest
	}
	s.writeEnvelope(w, status, env)
}

// errMediaUnconfigured reports media operations on a server started without
// a media root.
var errMediaUnconfigured = errors.New("media storage is not configured")

func (s *Server) requireMedia(w http.ResponseWriter) bool {
	if s.media == nil {
		s.writeEnvelope(w, http.StatusInternalServerError, errorEnvelope{
			Code:    codeInitialization,
			Message: errMediaUnconfigured.Error(),
		})
		return false
	}
	return true
}
