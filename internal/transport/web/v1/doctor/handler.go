package doctor

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
	Requests *service.RequestWorkflow
}

type createDTO struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Profession string `json:"profession"`
}

type updateDTO struct {
	Name       *string `json:"name,omitempty"`
	Surname    *string `json:"surname,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Profession *string `json:"profession,omitempty"`
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	d, err := h.Registry.GetDoctor(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto createDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		v1.WriteDomainError(w, r, fmt.Errorf("%w: malformed body", domain.ErrBadRequest))
		return
	}
	profession, err := domain.ParseDoctorProfession(dto.Profession)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	d, err := h.Registry.CreateDoctor(r.Context(), domain.Doctor{
		Name: dto.Name, Surname: dto.Surname, Email: dto.Email,
		Phone: dto.Phone, Profession: profession,
	})
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, http.StatusCreated, d)
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
	upd := service.DoctorUpdate{
		Name: dto.Name, Surname: dto.Surname, Email: dto.Email, Phone: dto.Phone,
	}
	if dto.Profession != nil {
		p, err := domain.ParseDoctorProfession(*dto.Profession)
		if err != nil {
			v1.WriteDomainError(w, r, err)
			return
		}
		upd.Profession = &p
	}
	d, err := h.Registry.UpdateDoctor(r.Context(), id, upd)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Registry.DeleteDoctor(r.Context(), id); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List returns doctors, optionally filtered by ?profession=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var profession domain.DoctorProfession
	if raw := r.URL.Query().Get("profession"); raw != "" {
		p, err := domain.ParseDoctorProfession(raw)
		if err != nil {
			v1.WriteDomainError(w, r, err)
			return
		}
		profession = p
	}
	doctors, err := h.Registry.FindDoctors(r.Context(), profession)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if doctors == nil {
		doctors = []domain.Doctor{}
	}
	v1.WriteJSON(w, http.StatusOK, doctors)
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
	reqs, err := h.Requests.ListForDoctor(r.Context(), id, status)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if reqs == nil {
		reqs = []domain.Request{}
	}
	v1.WriteJSON(w, http.StatusOK, reqs)
}
