package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity identifiers
type PatientID = uuid.UUID
type DoctorID = uuid.UUID
type RequestID = uuid.UUID
type DocumentID = uuid.UUID

type Patient struct {
	ID      PatientID `json:"id"`
	Name    string    `json:"name"`
	Surname string    `json:"surname"`
	Email   string    `json:"email"` // unique among patients
	Phone   string    `json:"phone"`
}

type Doctor struct {
	ID         DoctorID         `json:"id"`
	Name       string           `json:"name"`
	Surname    string           `json:"surname"`
	Email      string           `json:"email"` // unique among doctors
	Phone      string           `json:"phone"`
	Profession DoctorProfession `json:"profession"`
}

// Request is a care interaction between exactly one patient and one doctor.
// Status is the only field mutable after creation; every status write
// refreshes UpdatedAt.
type Request struct {
	ID          RequestID     `json:"id"`
	Information string        `json:"information"`
	Status      RequestStatus `json:"status"`
	PatientID   PatientID     `json:"patient_id"`
	DoctorID    DoctorID      `json:"doctor_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// MedicalDocument is the relational half of a stored file. The bytes live in
// the blob store under ObjectKey; the key is server-generated and never
// derived from the client file name.
type MedicalDocument struct {
	ID          DocumentID   `json:"id"`
	FileName    string       `json:"file_name"` // display name only
	ObjectKey   string       `json:"-"`
	ContentType string       `json:"content_type"`
	SizeBytes   int64        `json:"file_size"`
	PatientID   *PatientID   `json:"patient_id,omitempty"`
	DoctorID    *DoctorID    `json:"doctor_id,omitempty"`
	RequestID   *RequestID   `json:"request_id,omitempty"`
	Description string       `json:"description,omitempty"`
	Type        DocumentType `json:"document_type"`
	UploadedAt  time.Time    `json:"upload_at"`
}
