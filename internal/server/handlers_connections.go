package server

import (
	"net/http"

	"github.com/mesh-intelligence/garden/pkg/garden"
)

type pairRequest struct {
	BlockID   garden.BlockID   `json:"blockId"`
	ChannelID garden.ChannelID `json:"channelId"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BlockID   garden.BlockID   `json:"blockId"`
		ChannelID garden.ChannelID `json:"channelId"`
		Position  *int             `json:"position"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	conn, err := s.svc.ConnectBlock(r.Context(), req.BlockID, req.ChannelID, req.Position)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, conn)
}

func (s *Server) handleConnectBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BlockIDs         []garden.BlockID `json:"blockIds"`
		ChannelID        garden.ChannelID `json:"channelId"`
		StartingPosition *int             `json:"startingPosition"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	conns, err := s.svc.ConnectBlocks(r.Context(), req.BlockIDs, req.ChannelID, req.StartingPosition)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct {
		Connections []garden.Connection `json:"connections"`
	}{conns})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.svc.DisconnectBlock(r.Context(), req.BlockID, req.ChannelID); err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct{}{})
}

func (s *Server) handleConnectionGet(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if !s.decode(w, r, &req) {
		return
	}
	conn, err := s.svc.GetConnection(r.Context(), req.BlockID, req.ChannelID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, conn)
}

func (s *Server) handleBlocksInChannel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID garden.ChannelID `json:"channelId"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	blocks, err := s.svc.GetBlocksInChannel(r.Context(), req.ChannelID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct {
		Blocks []garden.Block `json:"blocks"`
	}{blocks})
}

func (s *Server) handleBlocksWithPositions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID garden.ChannelID `json:"channelId"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	blocks, err := s.svc.GetBlocksInChannelWithPositions(r.Context(), req.ChannelID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct {
		Blocks []garden.BlockWithPosition `json:"blocks"`
	}{blocks})
}

func (s *Server) handleChannelsForBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BlockID garden.BlockID `json:"blockId"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	channels, err := s.svc.GetChannelsForBlock(r.Context(), req.BlockID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct {
		Channels []garden.Channel `json:"channels"`
	}{channels})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID garden.ChannelID `json:"channelId"`
		BlockID   garden.BlockID   `json:"blockId"`
		Position  int              `json:"position"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.svc.ReorderBlock(r.Context(), req.ChannelID, req.BlockID, req.Position); err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct{}{})
}
