package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

func newDocService(store *memStore, blobs *fakeBlob) *DocumentService {
	return NewDocumentService(discardLog(), store, store, store, store, blobs, nil)
}

func uploadInput(patientID domain.PatientID, content string) UploadInput {
	return UploadInput{
		File:        strings.NewReader(content),
		FileName:    "scan.pdf",
		ContentType: "application/pdf",
		SizeBytes:   int64(len(content)),
		PatientID:   patientID,
		Type:        domain.DocTypeAnalysis,
	}
}

func TestDocumentUploadDownloadRoundTrip(t *testing.T) {
	store := newMemStore()
	blobs := newFakeBlob()
	svc := newDocService(store, blobs)
	patient := store.addPatient("anna@example.com")

	content := "%PDF-1.4 round trip payload"
	doc, err := svc.Upload(context.Background(), uploadInput(patient.ID, content))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.ID == uuid.Nil {
		t.Fatal("expected a generated document id")
	}
	if doc.ObjectKey == "" || doc.ObjectKey == "scan.pdf" {
		t.Fatalf("object key must be server generated, got %q", doc.ObjectKey)
	}
	if !strings.HasSuffix(doc.ObjectKey, ".pdf") {
		t.Fatalf("object key should keep the extension, got %q", doc.ObjectKey)
	}

	got, rc, err := svc.Download(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Equal(data, []byte(content)) {
		t.Fatalf("downloaded bytes differ: got %q want %q", data, content)
	}
	if got.FileName != "scan.pdf" || got.SizeBytes != int64(len(content)) {
		t.Fatalf("unexpected metadata: %+v", got)
	}
}

func TestDocumentUploadValidation(t *testing.T) {
	store := newMemStore()
	blobs := newFakeBlob()
	svc := newDocService(store, blobs)
	patient := store.addPatient("anna@example.com")

	tests := []struct {
		name string
		mod  func(in *UploadInput)
	}{
		{"empty file", func(in *UploadInput) { in.SizeBytes = 0; in.File = strings.NewReader("") }},
		{"text/plain rejected", func(in *UploadInput) { in.ContentType = "text/plain" }},
		{"over 10MiB", func(in *UploadInput) { in.SizeBytes = domain.MaxDocumentSize + 1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := uploadInput(patient.ID, "payload")
			tc.mod(&in)
			_, err := svc.Upload(context.Background(), in)
			if !errors.Is(err, domain.ErrBadRequest) {
				t.Fatalf("want ErrBadRequest, got %v", err)
			}
			if blobs.count() != 0 || len(store.docs) != 0 {
				t.Fatal("rejected upload must leave no blob and no row")
			}
		})
	}
}

func TestDocumentUploadSizeBoundary(t *testing.T) {
	store := newMemStore()
	blobs := newFakeBlob()
	svc := newDocService(store, blobs)
	patient := store.addPatient("anna@example.com")

	in := uploadInput(patient.ID, "x")
	in.SizeBytes = domain.MaxDocumentSize // exactly at the cap
	if _, err := svc.Upload(context.Background(), in); err != nil {
		t.Fatalf("10MiB exactly must be accepted: %v", err)
	}
}

func TestDocumentUploadUnknownPatient(t *testing.T) {
	store := newMemStore()
	blobs := newFakeBlob()
	svc := newDocService(store, blobs)

	_, err := svc.Upload(context.Background(), uploadInput(uuid.New(), "payload"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if blobs.count() != 0 {
		t.Fatal("no blob may be written for a missing patient")
	}
}

func TestDocumentUploadBlobFailureLeavesNoRow(t *testing.T) {
	store := newMemStore()
	blobs := newFakeBlob()
	blobs.failPut = errors.New("minio is down")
	svc := newDocService(store, blobs)
	patient := store.addPatient("anna@example.com")

	_, err := svc.Upload(context.Background(), uploadInput(patient.ID, "payload"))
	if !errors.Is(err, domain.ErrExternal) {
		t.Fatalf("want ErrExternal, got %v", err)
	}
	if len(store.docs) != 0 {
		t.Fatal("no metadata row may exist after a failed blob write")
	}
}

func TestDocumentUploadMetadataFailureCompensates(t *testing.T) {
	store := newMemStore()
	errMeta := errors.New("postgres connection reset")
	store.failCreateDocument = errMeta
	blobs := newFakeBlob()
	svc := newDocService(store, blobs)
	patient := store.addPatient("anna@example.com")

	_, err := svc.Upload(context.Background(), uploadInput(patient.ID, "payload"))
	if !errors.Is(err, errMeta) {
		t.Fatalf("the original metadata error must be surfaced, got %v", err)
	}
	if blobs.count() != 0 {
		t.Fatal("the fresh blob must be compensated away after a metadata failure")
	}
}

func TestDocumentUploadCompensationFailureStillSurfacesOriginal(t *testing.T) {
	store := newMemStore()
	errMeta := errors.New("postgres connection reset")
	store.failCreateDocument = errMeta
	blobs := newFakeBlob()
	blobs.failDelete = errors.New("minio is down too")
	svc := newDocService(store, blobs)
	patient := store.addPatient("anna@example.com")

	_, err := svc.Upload(context.Background(), uploadInput(patient.ID, "payload"))
	if !errors.Is(err, errMeta) {
		t.Fatalf("a failed cleanup must not replace the metadata error, got %v", err)
	}
}

func TestDocumentDeleteOrdering(t *testing.T) {
	store := newMemStore()
	blobs := newFakeBlob()
	svc := newDocService(store, blobs)
	patient := store.addPatient("anna@example.com")

	doc, err := svc.Upload(context.Background(), uploadInput(patient.ID, "payload"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	// Blob delete failure aborts with both halves intact.
	blobs.failDelete = errors.New("minio is down")
	if err := svc.Delete(context.Background(), doc.ID); !errors.Is(err, domain.ErrExternal) {
		t.Fatalf("want ErrExternal on blob delete failure, got %v", err)
	}
	if blobs.count() != 1 || len(store.docs) != 1 {
		t.Fatal("a failed blob delete must leave both stores untouched")
	}

	blobs.failDelete = nil
	if err := svc.Delete(context.Background(), doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if blobs.count() != 0 || len(store.docs) != 0 {
		t.Fatal("delete must remove both halves")
	}
	if err := svc.Delete(context.Background(), doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete must be NotFound, got %v", err)
	}
}

func TestDocumentDeleteDanglingRowIsExternal(t *testing.T) {
	store := newMemStore()
	blobs := newFakeBlob()
	svc := newDocService(store, blobs)
	patient := store.addPatient("anna@example.com")

	doc, err := svc.Upload(context.Background(), uploadInput(patient.ID, "payload"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	store.failDeleteDocument = errors.New("postgres timeout")
	err = svc.Delete(context.Background(), doc.ID)
	if !errors.Is(err, domain.ErrExternal) {
		t.Fatalf("a dangling row must surface as ErrExternal, got %v", err)
	}
	if blobs.count() != 0 {
		t.Fatal("the blob is gone by the time the row delete runs")
	}
}

func TestDocumentDownloadMissingBlobIsExternal(t *testing.T) {
	store := newMemStore()
	blobs := newFakeBlob()
	svc := newDocService(store, blobs)
	patient := store.addPatient("anna@example.com")

	doc, err := svc.Upload(context.Background(), uploadInput(patient.ID, "payload"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	// Simulate the inconsistent state: row present, object gone.
	delete(blobs.objects, doc.ObjectKey)

	_, _, err = svc.Download(context.Background(), doc.ID)
	if !errors.Is(err, domain.ErrExternal) {
		t.Fatalf("metadata without blob must be ErrExternal, got %v", err)
	}
}

func TestDocumentListByOwner(t *testing.T) {
	store := newMemStore()
	blobs := newFakeBlob()
	svc := newDocService(store, blobs)
	patient := store.addPatient("anna@example.com")
	other := store.addPatient("olga@example.com")

	for i := 0; i < 2; i++ {
		if _, err := svc.Upload(context.Background(), uploadInput(patient.ID, "payload")); err != nil {
			t.Fatalf("upload: %v", err)
		}
	}

	docs, err := svc.ListByPatient(context.Background(), patient.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("want 2 documents, got %d", len(docs))
	}

	docs, err = svc.ListByPatient(context.Background(), other.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("want 0 documents for the other patient, got %d", len(docs))
	}

	if _, err := svc.ListByPatient(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("listing for an unknown patient must be NotFound, got %v", err)
	}
}

func TestGenerateObjectKey(t *testing.T) {
	a := generateObjectKey("scan.pdf")
	b := generateObjectKey("scan.pdf")
	if a == b {
		t.Fatal("keys must be unique per upload")
	}
	if !strings.HasSuffix(a, ".pdf") {
		t.Fatalf("extension must survive, got %q", a)
	}
	if k := generateObjectKey("noext"); strings.Contains(k, ".") {
		t.Fatalf("no extension expected, got %q", k)
	}
	if k := generateObjectKey(".hidden"); strings.Contains(k, ".") {
		t.Fatalf("a leading dot is not an extension, got %q", k)
	}
}
