package request

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/service"
	v1 "github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1"
)

type Handler struct {
	Log      *log.Logger
	Workflow *service.RequestWorkflow
}

type createDTO struct {
	Information string    `json:"information"`
	PatientID   uuid.UUID `json:"patient_id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
}

type statusDTO struct {
	Status string `json:"status"`
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	req, err := h.Workflow.GetByID(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto createDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		v1.WriteDomainError(w, r, fmt.Errorf("%w: malformed body", domain.ErrBadRequest))
		return
	}
	if dto.PatientID == uuid.Nil || dto.DoctorID == uuid.Nil {
		v1.WriteDomainError(w, r, fmt.Errorf("%w: patient_id and doctor_id are required", domain.ErrBadRequest))
		return
	}
	req, err := h.Workflow.Create(r.Context(), dto.Information, dto.PatientID, dto.DoctorID)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, http.StatusCreated, req)
}

// SetStatus overwrites the request status; any status may replace any other.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	var dto statusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		v1.WriteDomainError(w, r, fmt.Errorf("%w: malformed body", domain.ErrBadRequest))
		return
	}
	status, err := domain.ParseRequestStatus(dto.Status)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	req, err := h.Workflow.SetStatus(r.Context(), id, status)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Workflow.Delete(r.Context(), id); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /requests?doctorId=&status=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var doctorID *domain.DoctorID
	if raw := r.URL.Query().Get("doctorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			v1.WriteDomainError(w, r, fmt.Errorf("%w: invalid doctorId %q", domain.ErrBadRequest, raw))
			return
		}
		doctorID = &id
	}
	status, err := v1.StatusFilter(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	reqs, err := h.Workflow.Search(r.Context(), doctorID, status)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if reqs == nil {
		reqs = []domain.Request{}
	}
	v1.WriteJSON(w, http.StatusOK, reqs)
}
