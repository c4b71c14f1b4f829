package patient

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/service"
	v1 "github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1"
)

type Handler struct {
	Log      *log.Logger
	Registry *service.Registry
	Assoc    *service.AssociationManager
	Requests *service.RequestWorkflow
}

type createDTO struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type updateDTO struct {
	Name    *string `json:"name,omitempty"`
	Surname *string `json:"surname,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	p, err := h.Registry.GetPatient(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patients, err := h.Registry.ListPatients(r.Context())
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if patients == nil {
		patients = []domain.Patient{}
	}
	v1.WriteJSON(w, http.StatusOK, patients)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto createDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		v1.WriteDomainError(w, r, fmt.Errorf("%w: malformed body", domain.ErrBadRequest))
		return
	}
	p, err := h.Registry.CreatePatient(r.Context(), domain.Patient{
		Name: dto.Name, Surname: dto.Surname, Email: dto.Email, Phone: dto.Phone,
	})
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	var dto updateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		v1.WriteDomainError(w, r, fmt.Errorf("%w: malformed body", domain.ErrBadRequest))
		return
	}
	p, err := h.Registry.UpdatePatient(r.Context(), id, service.PatientUpdate{
		Name: dto.Name, Surname: dto.Surname, Email: dto.Email, Phone: dto.Phone,
	})
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Registry.DeletePatient(r.Context(), id); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	doctors, err := h.Assoc.ListDoctorsForPatient(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if doctors == nil {
		doctors = []domain.Doctor{}
	}
	v1.WriteJSON(w, http.StatusOK, doctors)
}

func (h *Handler) AddDoctor(w http.ResponseWriter, r *http.Request) {
	patientID, doctorID, err := h.pairIDs(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Assoc.AddDoctor(r.Context(), patientID, doctorID); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveDoctor(w http.ResponseWriter, r *http.Request) {
	patientID, doctorID, err := h.pairIDs(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Assoc.RemoveDoctor(r.Context(), patientID, doctorID); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	status, err := v1.StatusFilter(r)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	reqs, err := h.Requests.ListForPatient(r.Context(), id, status)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if reqs == nil {
		reqs = []domain.Request{}
	}
	v1.WriteJSON(w, http.StatusOK, reqs)
}

func (h *Handler) pairIDs(r *http.Request) (domain.PatientID, domain.DoctorID, error) {
	patientID, err := v1.PathID(r, "id")
	if err != nil {
		return domain.PatientID{}, domain.DoctorID{}, err
	}
	doctorID, err := v1.PathID(r, "doctorId")
	if err != nil {
		return domain.PatientID{}, domain.DoctorID{}, err
	}
	return patientID, doctorID, nil
}
