package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

// DocumentService keeps the blob store and the metadata table in sync. The two
// stores share no transaction, so every mutation follows a fixed order that
// prefers an unreferenced blob over a metadata row pointing at nothing.
type DocumentService struct {
	log      *log.Logger
	docs     domain.DocumentRepo
	patients domain.PatientRepo
	doctors  domain.DoctorRepo
	requests domain.RequestRepo
	blobs    domain.BlobStorage
	cache    domain.Cache // optional
	cacheTTL int          // seconds
	now      func() time.Time
}

func NewDocumentService(
	logger *log.Logger,
	docs domain.DocumentRepo,
	patients domain.PatientRepo,
	doctors domain.DoctorRepo,
	requests domain.RequestRepo,
	blobs domain.BlobStorage,
	cache domain.Cache,
) *DocumentService {
	return &DocumentService{
		log:      logger,
		docs:     docs,
		patients: patients,
		doctors:  doctors,
		requests: requests,
		blobs:    blobs,
		cache:    cache,
		cacheTTL: 60,
		now:      time.Now,
	}
}

type UploadInput struct {
	File        io.Reader
	FileName    string
	ContentType string
	SizeBytes   int64
	PatientID   domain.PatientID
	DoctorID    *domain.DoctorID
	RequestID   *domain.RequestID
	Description string
	Type        domain.DocumentType
}

// Upload validates, resolves the owner references, writes the blob and then
// the metadata row. A failed blob write leaves no row behind; a failed
// metadata write triggers a best-effort compensating delete of the fresh blob
// before the original error is surfaced.
func (s *DocumentService) Upload(ctx context.Context, in UploadInput) (domain.MedicalDocument, error) {
	if err := domain.ValidateDocumentUpload(in.SizeBytes, in.ContentType); err != nil {
		return domain.MedicalDocument{}, err
	}

	patient, err := s.patients.PatientByID(ctx, in.PatientID)
	if err != nil {
		return domain.MedicalDocument{}, err
	}
	if in.DoctorID != nil {
		if _, err := s.doctors.DoctorByID(ctx, *in.DoctorID); err != nil {
			return domain.MedicalDocument{}, err
		}
	}
	if in.RequestID != nil {
		if _, err := s.requests.RequestByID(ctx, *in.RequestID); err != nil {
			return domain.MedicalDocument{}, err
		}
	}

	key := generateObjectKey(in.FileName)
	s.log.Printf("uploading file %q for patient %s as %s", in.FileName, patient.ID, key)

	if err := s.blobs.Put(ctx, key, in.File, in.SizeBytes, in.ContentType); err != nil {
		return domain.MedicalDocument{}, fmt.Errorf("%w: file upload failed: %v", domain.ErrExternal, err)
	}

	pid := in.PatientID
	doc := domain.MedicalDocument{
		FileName:    in.FileName,
		ObjectKey:   key,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		PatientID:   &pid,
		DoctorID:    in.DoctorID,
		RequestID:   in.RequestID,
		Description: in.Description,
		Type:        in.Type,
		UploadedAt:  s.now().UTC(),
	}

	saved, err := s.docs.CreateDocument(ctx, doc)
	if err != nil {
		// The blob is now an orphan. Try to remove it, but always surface the
		// metadata error; a failed cleanup is logged, never hidden.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.Printf("compensating delete of blob %s failed: %v", key, delErr)
		} else {
			s.log.Printf("compensating delete of blob %s after metadata failure", key)
		}
		return domain.MedicalDocument{}, err
	}

	s.cacheSet(ctx, saved)
	s.log.Printf("document %s saved (key=%s, %d bytes)", saved.ID, key, saved.SizeBytes)
	return saved, nil
}

// Download streams the stored bytes. Metadata without a readable blob is an
// inconsistency and is reported as an external-service error, not a NotFound.
func (s *DocumentService) Download(ctx context.Context, id domain.DocumentID) (domain.MedicalDocument, io.ReadCloser, error) {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.MedicalDocument{}, nil, err
	}

	rc, _, _, err := s.blobs.Get(ctx, doc.ObjectKey)
	if err != nil {
		s.log.Printf("blob %s missing for document %s: %v", doc.ObjectKey, doc.ID, err)
		return domain.MedicalDocument{}, nil, fmt.Errorf("%w: file download failed for document %s: %v", domain.ErrExternal, id, err)
	}
	return doc, rc, nil
}

// Delete removes the blob first and the metadata row second. A blob failure
// aborts with the prior state intact; a metadata failure after a successful
// blob delete leaves a dangling row and is surfaced distinctly so operators
// can reconcile.
func (s *DocumentService) Delete(ctx context.Context, id domain.DocumentID) error {
	doc, err := s.docs.DocumentByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, doc.ObjectKey); err != nil {
		return fmt.Errorf("%w: file deletion failed for document %s: %v", domain.ErrExternal, id, err)
	}

	if err := s.docs.DeleteDocument(ctx, id); err != nil {
		s.log.Printf("metadata delete failed after blob %s was removed: %v", doc.ObjectKey, err)
		return fmt.Errorf("%w: document %s metadata not removed after blob deletion: %v", domain.ErrExternal, id, err)
	}

	s.cacheDel(ctx, id)
	s.log.Printf("document %s deleted (key=%s)", id, doc.ObjectKey)
	return nil
}

func (s *DocumentService) GetByID(ctx context.Context, id domain.DocumentID) (domain.MedicalDocument, error) {
	if cached, ok := s.cacheGet(ctx, id); ok {
		return cached, nil
	}
	doc, err := s.docs.DocumentByID(ctx, id)
	if err != nil {
		return domain.MedicalDocument{}, err
	}
	s.cacheSet(ctx, doc)
	return doc, nil
}

func (s *DocumentService) ListByPatient(ctx context.Context, id domain.PatientID) ([]domain.MedicalDocument, error) {
	if _, err := s.patients.PatientByID(ctx, id); err != nil {
		return nil, err
	}
	return s.docs.DocumentsByPatient(ctx, id)
}

func (s *DocumentService) ListByDoctor(ctx context.Context, id domain.DoctorID) ([]domain.MedicalDocument, error) {
	if _, err := s.doctors.DoctorByID(ctx, id); err != nil {
		return nil, err
	}
	return s.docs.DocumentsByDoctor(ctx, id)
}

func (s *DocumentService) ListByRequest(ctx context.Context, id domain.RequestID) ([]domain.MedicalDocument, error) {
	if _, err := s.requests.RequestByID(ctx, id); err != nil {
		return nil, err
	}
	return s.docs.DocumentsByRequest(ctx, id)
}

// generateObjectKey returns a fresh random key. The client file name only
// contributes its extension, never the addressable part.
func generateObjectKey(fileName string) string {
	ext := ""
	if i := strings.LastIndex(fileName, "."); i > 0 {
		ext = fileName[i:]
	}
	return uuid.NewString() + ext
}

// ---- metadata cache (best effort, misses and errors are ignored) ----

func (s *DocumentService) cacheGet(ctx context.Context, id domain.DocumentID) (domain.MedicalDocument, bool) {
	if s.cache == nil {
		return domain.MedicalDocument{}, false
	}
	b, err := s.cache.Get(ctx, domain.CacheKeyDocumentMeta(id))
	if err != nil || len(b) == 0 {
		return domain.MedicalDocument{}, false
	}
	var doc docCacheEntry
	if err := json.Unmarshal(b, &doc); err != nil {
		return domain.MedicalDocument{}, false
	}
	return doc.toDomain(), true
}

func (s *DocumentService) cacheSet(ctx context.Context, doc domain.MedicalDocument) {
	if s.cache == nil {
		return
	}
	if b, err := json.Marshal(newDocCacheEntry(doc)); err == nil {
		_ = s.cache.Set(ctx, domain.CacheKeyDocumentMeta(doc.ID), b, s.cacheTTL)
	}
}

func (s *DocumentService) cacheDel(ctx context.Context, id domain.DocumentID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, domain.CacheKeyDocumentMeta(id))
}

// docCacheEntry exists because ObjectKey is json:"-" on the public model and
// the cache needs it round-tripped.
type docCacheEntry struct {
	domain.MedicalDocument
	ObjectKey string `json:"object_key"`
}

func newDocCacheEntry(d domain.MedicalDocument) docCacheEntry {
	return docCacheEntry{MedicalDocument: d, ObjectKey: d.ObjectKey}
}

func (e docCacheEntry) toDomain() domain.MedicalDocument {
	d := e.MedicalDocument
	d.ObjectKey = e.ObjectKey
	return d
}
