package server

import (
	"net/http"

	"github.com/mesh-intelligence/garden/pkg/garden"
)

type blockIDRequest struct {
	ID garden.BlockID `json:"id"`
}

func (s *Server) handleBlockCreate(w http.ResponseWriter, r *http.Request) {
	var req garden.NewBlock
	if !s.decode(w, r, &req) {
		return
	}
	block, err := s.svc.CreateBlock(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, block)
}

func (s *Server) handleBlockCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Blocks []garden.NewBlock `json:"blocks"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	blocks, err := s.svc.CreateBlocks(r.Context(), req.Blocks)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct {
		Blocks []garden.Block `json:"blocks"`
	}{blocks})
}

func (s *Server) handleBlockGet(w http.ResponseWriter, r *http.Request) {
	var req blockIDRequest
	if !s.decode(w, r, &req) {
		return
	}
	block, err := s.svc.GetBlock(r.Context(), req.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, block)
}

func (s *Server) handleBlockUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     garden.BlockID     `json:"id"`
		Update garden.BlockUpdate `json:"update"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	block, err := s.svc.UpdateBlock(r.Context(), req.ID, req.Update)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, block)
}

func (s *Server) handleBlockDelete(w http.ResponseWriter, r *http.Request) {
	var req blockIDRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.svc.DeleteBlock(r.Context(), req.ID); err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, struct{}{})
}
