package httpapi

import (
	"net/http"
)

// maxPDFUploadBytes caps JD uploads at 10 MiB.
const maxPDFUploadBytes = 10 << 20

type jdResponse struct {
	Text string `json:"text"`
}

type downloadURLResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleUploadJD(w http.ResponseWriter, r *http.Request) {
	id, ok := driveIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid drive id")
		return
	}

	if err := r.ParseMultipartForm(maxPDFUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	text, err := s.jdSvc.Upload(r.Context(), id, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jdResponse{Text: text})
}

func (s *Server) handleGetJD(w http.ResponseWriter, r *http.Request) {
	id, ok := driveIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid drive id")
		return
	}

	jd, err := s.jdSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jdResponse{Text: jd.Text})
}

func (s *Server) handleJDDownloadURL(w http.ResponseWriter, r *http.Request) {
	id, ok := driveIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid drive id")
		return
	}

	url, err := s.jdSvc.DownloadURL(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadURLResponse{URL: url})
}
