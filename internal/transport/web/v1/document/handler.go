package document

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/service"
	v1 "github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1"
)

type Handler struct {
	Log  *log.Logger
	Docs *service.DocumentService
}

type uploadDTO struct {
	PatientID   uuid.UUID  `json:"patient_id"`
	DoctorID    *uuid.UUID `json:"doctor_id,omitempty"`
	RequestID   *uuid.UUID `json:"request_id,omitempty"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"document_type"`
}

// Upload handles POST /documents: multipart "file" part plus "dto" JSON part.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(domain.MaxDocumentSize + 1); err != nil {
		h.Log.Printf("upload parse form: %v", err)
		v1.WriteDomainError(w, r, fmt.Errorf("%w: malformed multipart body", domain.ErrBadRequest))
		return
	}

	var dto uploadDTO
	if s := r.FormValue("dto"); s != "" {
		if err := json.Unmarshal([]byte(s), &dto); err != nil {
			h.Log.Printf("upload dto json: %v", err)
			v1.WriteDomainError(w, r, fmt.Errorf("%w: malformed dto", domain.ErrBadRequest))
			return
		}
	}
	if dto.PatientID == uuid.Nil {
		v1.WriteDomainError(w, r, fmt.Errorf("%w: patient_id is required", domain.ErrBadRequest))
		return
	}
	docType, err := domain.ParseDocumentType(dto.Type)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		v1.WriteDomainError(w, r, fmt.Errorf("%w: file is empty", domain.ErrBadRequest))
		return
	}
	defer file.Close()

	doc, err := h.Docs.Upload(r.Context(), service.UploadInput{
		File:        file,
		FileName:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		SizeBytes:   hdr.Size,
		PatientID:   dto.PatientID,
		DoctorID:    dto.DoctorID,
		RequestID:   dto.RequestID,
		Description: dto.Description,
		Type:        docType,
	})
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	doc, err := h.Docs.GetByID(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, http.StatusOK, doc)
}

// Download streams the stored bytes with an attachment disposition carrying
// the display file name.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	doc, rc, err := h.Docs.Download(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", doc.SizeBytes))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.Log.Printf("download stream for %s interrupted: %v", doc.ID, err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := v1.PathID(r, "id")
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Docs.Delete(r.Context(), id); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "patientId", h.Docs.ListByPatient)
}

func (h *Handler) ListByDoctor(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "doctorId", h.Docs.ListByDoctor)
}

func (h *Handler) ListByRequest(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "requestId", h.Docs.ListByRequest)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, key string,
	fn func(ctx context.Context, id uuid.UUID) ([]domain.MedicalDocument, error)) {
	id, err := v1.PathID(r, key)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	docs, err := fn(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if docs == nil {
		docs = []domain.MedicalDocument{}
	}
	v1.WriteJSON(w, http.StatusOK, docs)
}
