package domain

import (
	"context"
	"time"
)

type RequestNotification struct {
	To          string
	PatientName string
	DoctorName  string
	Status      RequestStatus
	CreatedAt   time.Time
}

// Notifier delivers the best-effort email fired after a request is created.
// Failures are logged by the caller and never affect the primary operation.
type Notifier interface {
	SendRequestCreated(ctx context.Context, n RequestNotification) error
}
