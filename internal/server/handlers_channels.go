package server

import (
	"net/http"

	"github.com/mesh-intelligence/garden/pkg/garden"
)

type channelIDRequest struct {
	ID garden.ChannelID `json:"id"`
}

func (s *Server) handleChannelCreate(w http.ResponseWriter, r *http.Request) {
	var req garden.NewChannel
	if !s.decode(w, r, &req) {
		return
	}
	channel, err := s.svc.CreateChannel(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, channel)
}

func (s *Server) handleChannelGet(w http.ResponseWriter, r *http.Request) {
	var req channelIDRequest
	if !s.decode(w, r, &req) {
		return
	}
	channel, err := s.svc.GetChannel(r.Context(), req.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, channel)
}

func (s *Server) handleChannelList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	page, err := s.svc.ListChannels(r.Context(), req.Limit, req.Offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, page)
}

func (s *Server) handleChannelUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     garden.ChannelID     `json:"id"`
		Update garden.ChannelUpdate `json:"update"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	channel, err := s.svc.UpdateChannel(r.Context(), req.ID, req.Update)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, channel)
}

func (s *Server) handleChannelDelete(w http.ResponseWriter, r *http.Request) {
	var req channelIDRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.svc.DeleteChannel(r.Context(), req.ID); err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct{}{})
}

func (s *Server) handleChannelCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.svc.CountChannels(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct {
		Count int `json:"count"`
	}{count})
}
