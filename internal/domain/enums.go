package domain

import (
	"fmt"
	"strings"
)

type RequestStatus string

// Every request starts as StatusNew. Any status may be overwritten with any
// other status; there is deliberately no transition graph.
const (
	StatusNew        RequestStatus = "NEW"
	StatusInProgress RequestStatus = "IN_PROGRESS"
	StatusClosed     RequestStatus = "CLOSED"
	StatusRejected   RequestStatus = "REJECTED"
)

func ParseRequestStatus(s string) (RequestStatus, error) {
	switch RequestStatus(strings.ToUpper(s)) {
	case StatusNew, StatusInProgress, StatusClosed, StatusRejected:
		return RequestStatus(strings.ToUpper(s)), nil
	}
	return "", fmt.Errorf("%w: unknown request status %q", ErrBadRequest, s)
}

type DoctorProfession string

const (
	ProfessionTherapist    DoctorProfession = "THERAPIST"
	ProfessionSurgeon      DoctorProfession = "SURGEON"
	ProfessionCardiologist DoctorProfession = "CARDIOLOGIST"
	ProfessionNeurologist  DoctorProfession = "NEUROLOGIST"
	ProfessionDentist      DoctorProfession = "DENTIST"
	ProfessionPediatrician DoctorProfession = "PEDIATRICIAN"
	ProfessionOther        DoctorProfession = "OTHER"
)

func ParseDoctorProfession(s string) (DoctorProfession, error) {
	switch DoctorProfession(strings.ToUpper(s)) {
	case ProfessionTherapist, ProfessionSurgeon, ProfessionCardiologist,
		ProfessionNeurologist, ProfessionDentist, ProfessionPediatrician, ProfessionOther:
		return DoctorProfession(strings.ToUpper(s)), nil
	}
	return "", fmt.Errorf("%w: unknown profession %q", ErrBadRequest, s)
}

type DocumentType string

const (
	DocTypeAnalysis         DocumentType = "ANALYSIS"
	DocTypeXRay             DocumentType = "XRAY"
	DocTypePrescription     DocumentType = "PRESCRIPTION"
	DocTypeDischargeSummary DocumentType = "DISCHARGE_SUMMARY"
	DocTypeReport           DocumentType = "REPORT"
	DocTypeOther            DocumentType = "OTHER"
)

func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(strings.ToUpper(s)) {
	case DocTypeAnalysis, DocTypeXRay, DocTypePrescription,
		DocTypeDischargeSummary, DocTypeReport, DocTypeOther:
		return DocumentType(strings.ToUpper(s)), nil
	}
	return "", fmt.Errorf("%w: unknown document type %q", ErrBadRequest, s)
}
