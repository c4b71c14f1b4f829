package service

import (
	"context"
	"log"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

// AssociationManager mutates the patient<->doctor relation set. Duplicate adds
// are reported, not swallowed; removing an absent pair succeeds.
type AssociationManager struct {
	log      *log.Logger
	patients domain.PatientRepo
	doctors  domain.DoctorRepo
	assoc    domain.AssociationRepo
}

func NewAssociationManager(logger *log.Logger, patients domain.PatientRepo, doctors domain.DoctorRepo, assoc domain.AssociationRepo) *AssociationManager {
	return &AssociationManager{log: logger, patients: patients, doctors: doctors, assoc: assoc}
}

func (m *AssociationManager) AddDoctor(ctx context.Context, patientID domain.PatientID, doctorID domain.DoctorID) error {
	if _, err := m.patients.PatientByID(ctx, patientID); err != nil {
		return err
	}
	if _, err := m.doctors.DoctorByID(ctx, doctorID); err != nil {
		return err
	}
	if err := m.assoc.AddDoctor(ctx, patientID, doctorID); err != nil {
		return err
	}
	m.log.Printf("doctor %s added to patient %s", doctorID, patientID)
	return nil
}

func (m *AssociationManager) RemoveDoctor(ctx context.Context, patientID domain.PatientID, doctorID domain.DoctorID) error {
	if _, err := m.patients.PatientByID(ctx, patientID); err != nil {
		return err
	}
	if _, err := m.doctors.DoctorByID(ctx, doctorID); err != nil {
		return err
	}
	if err := m.assoc.RemoveDoctor(ctx, patientID, doctorID); err != nil {
		return err
	}
	m.log.Printf("doctor %s removed from patient %s", doctorID, patientID)
	return nil
}

func (m *AssociationManager) ListDoctorsForPatient(ctx context.Context, patientID domain.PatientID) ([]domain.Doctor, error) {
	if _, err := m.patients.PatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	return m.assoc.DoctorsForPatient(ctx, patientID)
}
