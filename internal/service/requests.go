package service

import (
	"context"
	"log"
	"time"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

// RequestWorkflow owns the request status field. Transitions are an
// unconditional overwrite: any status may move to any other status.
type RequestWorkflow struct {
	log      *log.Logger
	requests domain.RequestRepo
	patients domain.PatientRepo
	doctors  domain.DoctorRepo
	notifier domain.Notifier // optional
	now      func() time.Time
	dispatch func(fn func()) // detached notification execution
}

func NewRequestWorkflow(logger *log.Logger, requests domain.RequestRepo, patients domain.PatientRepo, doctors domain.DoctorRepo, notifier domain.Notifier) *RequestWorkflow {
	return &RequestWorkflow{
		log:      logger,
		requests: requests,
		patients: patients,
		doctors:  doctors,
		notifier: notifier,
		now:      time.Now,
		dispatch: func(fn func()) { go fn() },
	}
}

// Create persists the request with status NEW and fires the patient email as
// a detached best-effort task. Notification failures never roll back or fail
// the create.
func (w *RequestWorkflow) Create(ctx context.Context, information string, patientID domain.PatientID, doctorID domain.DoctorID) (domain.Request, error) {
	patient, err := w.patients.PatientByID(ctx, patientID)
	if err != nil {
		return domain.Request{}, err
	}
	doctor, err := w.doctors.DoctorByID(ctx, doctorID)
	if err != nil {
		return domain.Request{}, err
	}

	now := w.now().UTC()
	saved, err := w.requests.CreateRequest(ctx, domain.Request{
		Information: information,
		Status:      domain.StatusNew,
		PatientID:   patientID,
		DoctorID:    doctorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return domain.Request{}, err
	}
	w.log.Printf("request %s created for patient %s and doctor %s", saved.ID, patientID, doctorID)

	if w.notifier != nil {
		n := domain.RequestNotification{
			To:          patient.Email,
			PatientName: patient.Name,
			DoctorName:  doctor.Name,
			Status:      saved.Status,
			CreatedAt:   saved.CreatedAt,
		}
		w.dispatch(func() {
			// Detached from the request context: the caller is not waiting.
			sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := w.notifier.SendRequestCreated(sendCtx, n); err != nil {
				w.log.Printf("request %s notification failed: %v", saved.ID, err)
			}
		})
	}
	return saved, nil
}

func (w *RequestWorkflow) GetByID(ctx context.Context, id domain.RequestID) (domain.Request, error) {
	return w.requests.RequestByID(ctx, id)
}

func (w *RequestWorkflow) SetStatus(ctx context.Context, id domain.RequestID, status domain.RequestStatus) (domain.Request, error) {
	updated, err := w.requests.UpdateRequestStatus(ctx, id, status)
	if err != nil {
		return domain.Request{}, err
	}
	w.log.Printf("request %s status updated to %s", id, status)
	return updated, nil
}

func (w *RequestWorkflow) Delete(ctx context.Context, id domain.RequestID) error {
	return w.requests.DeleteRequest(ctx, id)
}

// Search applies the optional doctor and status filters; absent filter means
// no constraint on that dimension.
func (w *RequestWorkflow) Search(ctx context.Context, doctorID *domain.DoctorID, status *domain.RequestStatus) ([]domain.Request, error) {
	return w.requests.SearchRequests(ctx, domain.RequestFilter{DoctorID: doctorID, Status: status})
}

func (w *RequestWorkflow) ListForPatient(ctx context.Context, patientID domain.PatientID, status *domain.RequestStatus) ([]domain.Request, error) {
	if _, err := w.patients.PatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	return w.requests.SearchRequests(ctx, domain.RequestFilter{PatientID: &patientID, Status: status})
}

func (w *RequestWorkflow) ListForDoctor(ctx context.Context, doctorID domain.DoctorID, status *domain.RequestStatus) ([]domain.Request, error) {
	if _, err := w.doctors.DoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return w.requests.SearchRequests(ctx, domain.RequestFilter{DoctorID: &doctorID, Status: status})
}
