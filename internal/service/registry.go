package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

// Registry is the thin CRUD layer over patient and doctor profiles. Uniqueness
// is enforced by the database; this layer only adds input validation.
type Registry struct {
	log      *log.Logger
	patients domain.PatientRepo
	doctors  domain.DoctorRepo
}

func NewRegistry(logger *log.Logger, patients domain.PatientRepo, doctors domain.DoctorRepo) *Registry {
	return &Registry{log: logger, patients: patients, doctors: doctors}
}

func validateProfile(name, surname, email, phone string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrBadRequest)
	case strings.TrimSpace(surname) == "":
		return fmt.Errorf("%w: surname is required", domain.ErrBadRequest)
	case !domain.ValidEmail(email):
		return fmt.Errorf("%w: invalid email %q", domain.ErrBadRequest, email)
	case strings.TrimSpace(phone) == "":
		return fmt.Errorf("%w: phone is required", domain.ErrBadRequest)
	}
	return nil
}

// ---- Patients ----

func (r *Registry) GetPatient(ctx context.Context, id domain.PatientID) (domain.Patient, error) {
	return r.patients.PatientByID(ctx, id)
}

func (r *Registry) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	return r.patients.ListPatients(ctx)
}

func (r *Registry) CreatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	if err := validateProfile(p.Name, p.Surname, p.Email, p.Phone); err != nil {
		return domain.Patient{}, err
	}
	saved, err := r.patients.CreatePatient(ctx, p)
	if err != nil {
		return domain.Patient{}, err
	}
	r.log.Printf("patient %s created", saved.ID)
	return saved, nil
}

// PatientUpdate carries the optional fields of a partial update.
type PatientUpdate struct {
	Name    *string
	Surname *string
	Email   *string
	Phone   *string
}

func (r *Registry) UpdatePatient(ctx context.Context, id domain.PatientID, upd PatientUpdate) (domain.Patient, error) {
	p, err := r.patients.PatientByID(ctx, id)
	if err != nil {
		return domain.Patient{}, err
	}
	applyStr(&p.Name, upd.Name)
	applyStr(&p.Surname, upd.Surname)
	applyStr(&p.Email, upd.Email)
	applyStr(&p.Phone, upd.Phone)
	if err := validateProfile(p.Name, p.Surname, p.Email, p.Phone); err != nil {
		return domain.Patient{}, err
	}
	return r.patients.UpdatePatient(ctx, p)
}

func (r *Registry) DeletePatient(ctx context.Context, id domain.PatientID) error {
	if err := r.patients.DeletePatient(ctx, id); err != nil {
		return err
	}
	r.log.Printf("patient %s deleted with its requests", id)
	return nil
}

// ---- Doctors ----

func (r *Registry) GetDoctor(ctx context.Context, id domain.DoctorID) (domain.Doctor, error) {
	return r.doctors.DoctorByID(ctx, id)
}

func (r *Registry) CreateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error) {
	if err := validateProfile(d.Name, d.Surname, d.Email, d.Phone); err != nil {
		return domain.Doctor{}, err
	}
	if d.Profession == "" {
		return domain.Doctor{}, fmt.Errorf("%w: profession is required", domain.ErrBadRequest)
	}
	saved, err := r.doctors.CreateDoctor(ctx, d)
	if err != nil {
		return domain.Doctor{}, err
	}
	r.log.Printf("doctor %s created", saved.ID)
	return saved, nil
}

type DoctorUpdate struct {
	Name       *string
	Surname    *string
	Email      *string
	Phone      *string
	Profession *domain.DoctorProfession
}

func (r *Registry) UpdateDoctor(ctx context.Context, id domain.DoctorID, upd DoctorUpdate) (domain.Doctor, error) {
	d, err := r.doctors.DoctorByID(ctx, id)
	if err != nil {
		return domain.Doctor{}, err
	}
	applyStr(&d.Name, upd.Name)
	applyStr(&d.Surname, upd.Surname)
	applyStr(&d.Email, upd.Email)
	applyStr(&d.Phone, upd.Phone)
	if upd.Profession != nil {
		d.Profession = *upd.Profession
	}
	if err := validateProfile(d.Name, d.Surname, d.Email, d.Phone); err != nil {
		return domain.Doctor{}, err
	}
	return r.doctors.UpdateDoctor(ctx, d)
}

// DeleteDoctor is blocked with a conflict while requests still reference the
// doctor; the repository enforces it inside the deleting transaction.
func (r *Registry) DeleteDoctor(ctx context.Context, id domain.DoctorID) error {
	if err := r.doctors.DeleteDoctor(ctx, id); err != nil {
		return err
	}
	r.log.Printf("doctor %s deleted", id)
	return nil
}

func (r *Registry) FindDoctors(ctx context.Context, profession domain.DoctorProfession) ([]domain.Doctor, error) {
	return r.doctors.DoctorsByProfession(ctx, profession)
}

func applyStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
