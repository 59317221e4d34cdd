package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/adithya/trackfolio/internal/server/models"
	"github.com/adithya/trackfolio/internal/server/services"
)

type driveDTO struct {
	ID            int64     `json:"id,omitempty"`
	CompanyName   string    `json:"companyName"`
	Role          string    `json:"role"`
	DriveDatetime time.Time `json:"driveDatetime"`
	OnCampus      bool      `json:"onCampus"`
}

type noteDTO struct {
	ID        int64  `json:"id,omitempty"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
}

type checklistItemDTO struct {
	ID        int64  `json:"id,omitempty"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
}

type driveDetailsDTO struct {
	Drive     driveDTO           `json:"drive"`
	Notes     []noteDTO          `json:"notes"`
	Checklist []checklistItemDTO `json:"checklist"`
}

type saveDriveRequest struct {
	driveDetailsDTO
	IsUpdate bool `json:"isUpdate"`
}

func toDriveDTO(d *models.Drive) driveDTO {
	return driveDTO{
		ID:            d.ID,
		CompanyName:   d.CompanyName,
		Role:          d.Role,
		DriveDatetime: d.DriveDatetime,
		OnCampus:      d.OnCampus,
	}
}

func toDetailsDTO(details *services.DriveDetails) driveDetailsDTO {
	out := driveDetailsDTO{
		Drive:     toDriveDTO(details.Drive),
		Notes:     make([]noteDTO, 0, len(details.Notes)),
		Checklist: make([]checklistItemDTO, 0, len(details.Checklist)),
	}
	for _, n := range details.Notes {
		out.Notes = append(out.Notes, noteDTO{ID: n.ID, Content: n.Content, Completed: n.Completed})
	}
	for _, c := range details.Checklist {
		out.Checklist = append(out.Checklist, checklistItemDTO{ID: c.ID, Content: c.Content, Completed: c.Completed})
	}
	return out
}

func toDriveList(drives []*models.Drive) []driveDTO {
	out := make([]driveDTO, 0, len(drives))
	for _, d := range drives {
		out = append(out, toDriveDTO(d))
	}
	return out
}

func driveIDFromRequest(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["driveId"], 10, 64)
	return id, err == nil
}

func (s *Server) handleSaveDrive(w http.ResponseWriter, r *http.Request) {
	var req saveDriveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	details := &services.DriveDetails{
		Drive: &models.Drive{
			ID:            req.Drive.ID,
			CompanyName:   req.Drive.CompanyName,
			Role:          req.Drive.Role,
			DriveDatetime: req.Drive.DriveDatetime,
			OnCampus:      req.Drive.OnCampus,
		},
	}
	for _, n := range req.Notes {
		details.Notes = append(details.Notes, &models.Note{Content: n.Content, Completed: n.Completed})
	}
	for _, c := range req.Checklist {
		details.Checklist = append(details.Checklist, &models.ChecklistItem{Content: c.Content, Completed: c.Completed})
	}

	saved, err := s.driveSvc.Save(r.Context(), details, req.IsUpdate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusCreated
	if req.IsUpdate {
		status = http.StatusOK
	}
	writeJSON(w, status, toDetailsDTO(saved))
}

func (s *Server) handleFetchDrive(w http.ResponseWriter, r *http.Request) {
	id, ok := driveIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid drive id")
		return
	}

	details, err := s.driveSvc.Fetch(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDetailsDTO(details))
}

func (s *Server) handleDeleteDrive(w http.ResponseWriter, r *http.Request) {
	id, ok := driveIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid drive id")
		return
	}

	if err := s.driveSvc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDrivesByDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", mux.Vars(r)["date"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	drives, err := s.driveSvc.ListByDate(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDriveList(drives))
}

func (s *Server) handleDrivesByType(w http.ResponseWriter, r *http.Request) {
	drives, err := s.driveSvc.ListByType(r.Context(), mux.Vars(r)["driveType"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDriveList(drives))
}

func (s *Server) handleDrivesByCompany(w http.ResponseWriter, r *http.Request) {
	drives, err := s.driveSvc.FindByCompany(r.Context(), mux.Vars(r)["companyName"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDriveList(drives))
}
