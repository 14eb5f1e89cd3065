package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// statusResponse reports the storage selection made at startup.
type statusResponse struct {
	Storage      core.StorageMode         `json:"storage"`
	AuthRequired bool                     `json:"authRequired"`
	Available    bool                     `json:"available"`
	Imports      core.UploadLimiterStatus `json:"imports"`
}

// bulkRequest is the body of POST /api/businesses/bulk.
type bulkRequest struct {
	Businesses *[]core.BusinessInput `json:"businesses"`
}

// handleStatus is served outside the access gate so clients can tell
// whether they need a key or whether the service is down.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	mode := s.service.Mode()
	writeJSON(w, r, http.StatusOK, statusResponse{
		Storage:      mode,
		AuthRequired: mode.AuthRequired(),
		Available:    mode.Available(),
		Imports:      s.service.UploadStatus(),
	})
}

func (s *Server) handleListBusinesses(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	businesses, err := s.service.List(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, businesses)
}

func (s *Server) handleGetBusiness(w http.ResponseWriter, r *http.Request) {
	b, err := s.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

func (s *Server) handleCreateBusiness(w http.ResponseWriter, r *http.Request) {
	var in core.BusinessInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	b, err := s.service.Create(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, b)
}

func (s *Server) handleUpdateBusiness(w http.ResponseWriter, r *http.Request) {
	var patch core.BusinessPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.respondError(w, r, err)
		return
	}
	b, err := s.service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

func (s *Server) handleDeleteBusiness(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleBulkCreate(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Businesses == nil {
		s.respondError(w, r, badRequest("businesses must be an array", nil))
		return
	}
	created, err := s.service.BulkCreate(r.Context(), *req.Businesses)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.service.Tags(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tags)
}
