package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

func discardLog() *log.Logger { return log.New(io.Discard, "", 0) }

// memStore is an in-memory stand-in for the Postgres repository implementing
// every repo port the services consume.
type memStore struct {
	mu       sync.Mutex
	patients map[domain.PatientID]domain.Patient
	doctors  map[domain.DoctorID]domain.Doctor
	requests map[domain.RequestID]domain.Request
	docs     map[domain.DocumentID]domain.MedicalDocument
	pairs    map[string]struct{}

	failCreateDocument error
	failDeleteDocument error
}

func newMemStore() *memStore {
	return &memStore{
		patients: make(map[domain.PatientID]domain.Patient),
		doctors:  make(map[domain.DoctorID]domain.Doctor),
		requests: make(map[domain.RequestID]domain.Request),
		docs:     make(map[domain.DocumentID]domain.MedicalDocument),
		pairs:    make(map[string]struct{}),
	}
}

func pairKey(p domain.PatientID, d domain.DoctorID) string {
	return p.String() + "/" + d.String()
}

func (m *memStore) addPatient(email string) domain.Patient {
	p := domain.Patient{ID: uuid.New(), Name: "Anna", Surname: "Ivanova", Email: email, Phone: "+100200300"}
	m.patients[p.ID] = p
	return p
}

func (m *memStore) addDoctor(email string) domain.Doctor {
	d := domain.Doctor{ID: uuid.New(), Name: "Boris", Surname: "Petrov", Email: email, Phone: "+400500600", Profession: domain.ProfessionTherapist}
	m.doctors[d.ID] = d
	return d
}

// ---- PatientRepo ----

func (m *memStore) CreatePatient(_ context.Context, p domain.Patient) (domain.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.patients {
		if other.Email == p.Email {
			return domain.Patient{}, fmt.Errorf("%w: patient with email %s already exists", domain.ErrBadRequest, p.Email)
		}
	}
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return p, nil
}

func (m *memStore) PatientByID(_ context.Context, id domain.PatientID) (domain.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[id]
	if !ok {
		return domain.Patient{}, fmt.Errorf("%w: patient not found with id %s", domain.ErrNotFound, id)
	}
	return p, nil
}

func (m *memStore) ListPatients(_ context.Context) ([]domain.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Patient
	for _, p := range m.patients {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) UpdatePatient(_ context.Context, p domain.Patient) (domain.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.patients[p.ID]; !ok {
		return domain.Patient{}, fmt.Errorf("%w: patient not found with id %s", domain.ErrNotFound, p.ID)
	}
	m.patients[p.ID] = p
	return p, nil
}

func (m *memStore) DeletePatient(_ context.Context, id domain.PatientID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.patients[id]; !ok {
		return fmt.Errorf("%w: patient not found with id %s", domain.ErrNotFound, id)
	}
	delete(m.patients, id)
	for rid, r := range m.requests {
		if r.PatientID == id {
			delete(m.requests, rid)
		}
	}
	for k := range m.pairs {
		if len(k) > 36 && k[:36] == id.String() {
			delete(m.pairs, k)
		}
	}
	return nil
}

// ---- DoctorRepo ----

func (m *memStore) CreateDoctor(_ context.Context, d domain.Doctor) (domain.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.doctors {
		if other.Email == d.Email {
			return domain.Doctor{}, fmt.Errorf("%w: doctor with email %s already exists", domain.ErrBadRequest, d.Email)
		}
	}
	d.ID = uuid.New()
	m.doctors[d.ID] = d
	return d, nil
}

func (m *memStore) DoctorByID(_ context.Context, id domain.DoctorID) (domain.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doctors[id]
	if !ok {
		return domain.Doctor{}, fmt.Errorf("%w: doctor not found with id %s", domain.ErrNotFound, id)
	}
	return d, nil
}

func (m *memStore) UpdateDoctor(_ context.Context, d domain.Doctor) (domain.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.doctors[d.ID]; !ok {
		return domain.Doctor{}, fmt.Errorf("%w: doctor not found with id %s", domain.ErrNotFound, d.ID)
	}
	m.doctors[d.ID] = d
	return d, nil
}

func (m *memStore) DeleteDoctor(_ context.Context, id domain.DoctorID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.doctors[id]; !ok {
		return fmt.Errorf("%w: doctor not found with id %s", domain.ErrNotFound, id)
	}
	for _, r := range m.requests {
		if r.DoctorID == id {
			return fmt.Errorf("%w: doctor %s still has requests", domain.ErrConflict, id)
		}
	}
	delete(m.doctors, id)
	return nil
}

func (m *memStore) DoctorsByProfession(_ context.Context, p domain.DoctorProfession) ([]domain.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Doctor
	for _, d := range m.doctors {
		if p == "" || d.Profession == p {
			out = append(out, d)
		}
	}
	return out, nil
}

// ---- AssociationRepo ----

func (m *memStore) AddDoctor(_ context.Context, patientID domain.PatientID, doctorID domain.DoctorID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := pairKey(patientID, doctorID)
	if _, ok := m.pairs[k]; ok {
		return fmt.Errorf("%w: doctor is already associated with this patient", domain.ErrConflict)
	}
	m.pairs[k] = struct{}{}
	return nil
}

func (m *memStore) RemoveDoctor(_ context.Context, patientID domain.PatientID, doctorID domain.DoctorID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pairs, pairKey(patientID, doctorID))
	return nil
}

func (m *memStore) DoctorsForPatient(_ context.Context, patientID domain.PatientID) ([]domain.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Doctor
	for id, d := range m.doctors {
		if _, ok := m.pairs[pairKey(patientID, id)]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// ---- RequestRepo ----

func (m *memStore) CreateRequest(_ context.Context, r domain.Request) (domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.New()
	m.requests[r.ID] = r
	return r, nil
}

func (m *memStore) RequestByID(_ context.Context, id domain.RequestID) (domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return domain.Request{}, fmt.Errorf("%w: request not found with id %s", domain.ErrNotFound, id)
	}
	return r, nil
}

func (m *memStore) UpdateRequestStatus(_ context.Context, id domain.RequestID, s domain.RequestStatus) (domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return domain.Request{}, fmt.Errorf("%w: request not found with id %s", domain.ErrNotFound, id)
	}
	r.Status = s
	r.UpdatedAt = time.Now().UTC()
	m.requests[id] = r
	return r, nil
}

func (m *memStore) DeleteRequest(_ context.Context, id domain.RequestID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[id]; !ok {
		return fmt.Errorf("%w: request not found with id %s", domain.ErrNotFound, id)
	}
	delete(m.requests, id)
	return nil
}

func (m *memStore) SearchRequests(_ context.Context, f domain.RequestFilter) ([]domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Request
	for _, r := range m.requests {
		if f.PatientID != nil && r.PatientID != *f.PatientID {
			continue
		}
		if f.DoctorID != nil && r.DoctorID != *f.DoctorID {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ---- DocumentRepo ----

func (m *memStore) CreateDocument(_ context.Context, d domain.MedicalDocument) (domain.MedicalDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateDocument != nil {
		return domain.MedicalDocument{}, m.failCreateDocument
	}
	d.ID = uuid.New()
	m.docs[d.ID] = d
	return d, nil
}

func (m *memStore) DocumentByID(_ context.Context, id domain.DocumentID) (domain.MedicalDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return domain.MedicalDocument{}, fmt.Errorf("%w: document not found with id %s", domain.ErrNotFound, id)
	}
	return d, nil
}

func (m *memStore) DeleteDocument(_ context.Context, id domain.DocumentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDeleteDocument != nil {
		return m.failDeleteDocument
	}
	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("%w: document not found with id %s", domain.ErrNotFound, id)
	}
	delete(m.docs, id)
	return nil
}

func (m *memStore) DocumentsByPatient(_ context.Context, id domain.PatientID) ([]domain.MedicalDocument, error) {
	return m.documentsWhere(func(d domain.MedicalDocument) bool {
		return d.PatientID != nil && *d.PatientID == id
	})
}

func (m *memStore) DocumentsByDoctor(_ context.Context, id domain.DoctorID) ([]domain.MedicalDocument, error) {
	return m.documentsWhere(func(d domain.MedicalDocument) bool {
		return d.DoctorID != nil && *d.DoctorID == id
	})
}

func (m *memStore) DocumentsByRequest(_ context.Context, id domain.RequestID) ([]domain.MedicalDocument, error) {
	return m.documentsWhere(func(d domain.MedicalDocument) bool {
		return d.RequestID != nil && *d.RequestID == id
	})
}

func (m *memStore) documentsWhere(keep func(domain.MedicalDocument) bool) ([]domain.MedicalDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.MedicalDocument
	for _, d := range m.docs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// ---- BlobStorage fake ----

type fakeBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
	ctypes  map[string]string

	failPut    error
	failGet    error
	failDelete error
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: make(map[string][]byte), ctypes: make(map[string]string)}
}

func (b *fakeBlob) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	if b.failPut != nil {
		return b.failPut
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	b.ctypes[key] = contentType
	return nil
}

func (b *fakeBlob) Get(_ context.Context, key string) (io.ReadCloser, int64, string, error) {
	if b.failGet != nil {
		return nil, 0, "", b.failGet
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, 0, "", fmt.Errorf("object %q does not exist", key)
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), b.ctypes[key], nil
}

func (b *fakeBlob) Delete(_ context.Context, key string) error {
	if b.failDelete != nil {
		return b.failDelete
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	delete(b.ctypes, key)
	return nil
}

func (b *fakeBlob) Ping(context.Context) error { return nil }

func (b *fakeBlob) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

// ---- Notifier fake ----

type fakeNotifier struct {
	mu   sync.Mutex
	sent []domain.RequestNotification
	fail error
}

func (n *fakeNotifier) SendRequestCreated(_ context.Context, msg domain.RequestNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, msg)
	return nil
}
