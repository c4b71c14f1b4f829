package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

const documentCols = "id, file_name, object_key, content_type, file_size, " +
	"patient_id, doctor_id, request_id, description, document_type, upload_at"

func scanDocument(row pgx.Row) (domain.MedicalDocument, error) {
	var d domain.MedicalDocument
	err := row.Scan(&d.ID, &d.FileName, &d.ObjectKey, &d.ContentType, &d.SizeBytes,
		&d.PatientID, &d.DoctorID, &d.RequestID, &d.Description, &d.Type, &d.UploadedAt)
	return d, err
}

func (r *PGRepo) CreateDocument(ctx context.Context, d domain.MedicalDocument) (domain.MedicalDocument, error) {
	q := r.qb().Insert(r.tbl("medical_documents")).
		Columns("file_name", "object_key", "content_type", "file_size",
			"patient_id", "doctor_id", "request_id", "description", "document_type", "upload_at").
		Values(d.FileName, d.ObjectKey, d.ContentType, d.SizeBytes,
			d.PatientID, d.DoctorID, d.RequestID, d.Description, d.Type, d.UploadedAt).
		Suffix("RETURNING " + documentCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateDocument", sqlStr, args)

	start := time.Now()
	out, err := scanDocument(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if isPGCode(err, pgFKViolation) {
			return domain.MedicalDocument{}, fmt.Errorf("%w: referenced owner not found", domain.ErrNotFound)
		}
		r.logger.Printf("CreateDocument error after %s: %v", time.Since(start), err)
		return domain.MedicalDocument{}, err
	}
	r.logger.Printf("CreateDocument ok in %s id=%s key=%s", time.Since(start), out.ID, out.ObjectKey)
	return out, nil
}

func (r *PGRepo) DocumentByID(ctx context.Context, id domain.DocumentID) (domain.MedicalDocument, error) {
	q := r.qb().Select(documentCols).
		From(r.tbl("medical_documents")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DocumentByID", sqlStr, args)

	d, err := scanDocument(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if noRows(err) {
			return domain.MedicalDocument{}, fmt.Errorf("%w: document not found with id %s", domain.ErrNotFound, id)
		}
		return domain.MedicalDocument{}, err
	}
	return d, nil
}

func (r *PGRepo) DeleteDocument(ctx context.Context, id domain.DocumentID) error {
	q := r.qb().Delete(r.tbl("medical_documents")).Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteDocument", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DeleteDocument error after %s: %v", time.Since(start), err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: document not found with id %s", domain.ErrNotFound, id)
	}
	r.logger.Printf("DeleteDocument ok in %s id=%s", time.Since(start), id)
	return nil
}

func (r *PGRepo) DocumentsByPatient(ctx context.Context, id domain.PatientID) ([]domain.MedicalDocument, error) {
	return r.documentsBy(ctx, "DocumentsByPatient", sq.Eq{"patient_id": id})
}

func (r *PGRepo) DocumentsByDoctor(ctx context.Context, id domain.DoctorID) ([]domain.MedicalDocument, error) {
	return r.documentsBy(ctx, "DocumentsByDoctor", sq.Eq{"doctor_id": id})
}

func (r *PGRepo) DocumentsByRequest(ctx context.Context, id domain.RequestID) ([]domain.MedicalDocument, error) {
	return r.documentsBy(ctx, "DocumentsByRequest", sq.Eq{"request_id": id})
}

func (r *PGRepo) documentsBy(ctx context.Context, op string, pred sq.Eq) ([]domain.MedicalDocument, error) {
	q := r.qb().Select(documentCols).
		From(r.tbl("medical_documents")).
		Where(pred).
		OrderBy("upload_at DESC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL(op, sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MedicalDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
