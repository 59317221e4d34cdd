package httpapi

import (
	"encoding/json"
	"net/http"
)

type skillsRequest struct {
	Skills []string `json:"skills"`
}

type skillsResponse struct {
	Skills []string `json:"skills"`
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	userSkills, err := s.skillSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if userSkills == nil {
		userSkills = []string{}
	}
	writeJSON(w, http.StatusOK, skillsResponse{Skills: userSkills})
}

func (s *Server) handleReplaceSkills(w http.ResponseWriter, r *http.Request) {
	var req skillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := s.skillSvc.Replace(r.Context(), req.Skills)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skillsResponse{Skills: saved})
}
