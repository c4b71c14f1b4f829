package domain

import "context"

type PatientRepo interface {
	CreatePatient(ctx context.Context, p Patient) (Patient, error)
	PatientByID(ctx context.Context, id PatientID) (Patient, error)
	ListPatients(ctx context.Context) ([]Patient, error)
	UpdatePatient(ctx context.Context, p Patient) (Patient, error)
	// DeletePatient removes the patient, its requests and its association rows
	// in one transaction; document rows lose their patient link but survive.
	DeletePatient(ctx context.Context, id PatientID) error
}

type DoctorRepo interface {
	CreateDoctor(ctx context.Context, d Doctor) (Doctor, error)
	DoctorByID(ctx context.Context, id DoctorID) (Doctor, error)
	UpdateDoctor(ctx context.Context, d Doctor) (Doctor, error)
	// DeleteDoctor fails with ErrConflict while requests still reference the
	// doctor. Association rows are removed, document links nulled.
	DeleteDoctor(ctx context.Context, id DoctorID) error
	DoctorsByProfession(ctx context.Context, p DoctorProfession) ([]Doctor, error)
}

// AssociationRepo mutates the patient<->doctor relation with set semantics.
type AssociationRepo interface {
	// AddDoctor inserts the pair; an existing pair yields ErrConflict.
	// Concurrent inserts race at the unique constraint, the loser observes
	// ErrConflict as well.
	AddDoctor(ctx context.Context, patientID PatientID, doctorID DoctorID) error
	// RemoveDoctor is idempotent: removing an absent pair succeeds.
	RemoveDoctor(ctx context.Context, patientID PatientID, doctorID DoctorID) error
	DoctorsForPatient(ctx context.Context, patientID PatientID) ([]Doctor, error)
}

// RequestFilter: nil field = no constraint on that dimension.
type RequestFilter struct {
	PatientID *PatientID
	DoctorID  *DoctorID
	Status    *RequestStatus
}

type RequestRepo interface {
	CreateRequest(ctx context.Context, r Request) (Request, error)
	RequestByID(ctx context.Context, id RequestID) (Request, error)
	// UpdateRequestStatus overwrites status and refreshes updated_at.
	UpdateRequestStatus(ctx context.Context, id RequestID, s RequestStatus) (Request, error)
	DeleteRequest(ctx context.Context, id RequestID) error
	SearchRequests(ctx context.Context, f RequestFilter) ([]Request, error)
}

type DocumentRepo interface {
	CreateDocument(ctx context.Context, d MedicalDocument) (MedicalDocument, error)
	DocumentByID(ctx context.Context, id DocumentID) (MedicalDocument, error)
	DeleteDocument(ctx context.Context, id DocumentID) error
	DocumentsByPatient(ctx context.Context, id PatientID) ([]MedicalDocument, error)
	DocumentsByDoctor(ctx context.Context, id DoctorID) ([]MedicalDocument, error)
	DocumentsByRequest(ctx context.Context, id RequestID) ([]MedicalDocument, error)
}
