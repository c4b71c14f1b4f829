package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

const requestCols = "id, information, status, patient_id, doctor_id, created_at, updated_at"

func scanRequest(row pgx.Row) (domain.Request, error) {
	var req domain.Request
	err := row.Scan(&req.ID, &req.Information, &req.Status,
		&req.PatientID, &req.DoctorID, &req.CreatedAt, &req.UpdatedAt)
	return req, err
}

func (r *PGRepo) CreateRequest(ctx context.Context, req domain.Request) (domain.Request, error) {
	q := r.qb().Insert(r.tbl("requests")).
		Columns("information", "status", "patient_id", "doctor_id", "created_at", "updated_at").
		Values(req.Information, req.Status, req.PatientID, req.DoctorID, req.CreatedAt, req.UpdatedAt).
		Suffix("RETURNING " + requestCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateRequest", sqlStr, args)

	start := time.Now()
	out, err := scanRequest(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if isPGCode(err, pgFKViolation) {
			return domain.Request{}, fmt.Errorf("%w: patient or doctor not found", domain.ErrNotFound)
		}
		r.logger.Printf("CreateRequest error after %s: %v", time.Since(start), err)
		return domain.Request{}, err
	}
	r.logger.Printf("CreateRequest ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) RequestByID(ctx context.Context, id domain.RequestID) (domain.Request, error) {
	q := r.qb().Select(requestCols).
		From(r.tbl("requests")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("RequestByID", sqlStr, args)

	req, err := scanRequest(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if noRows(err) {
			return domain.Request{}, fmt.Errorf("%w: request not found with id %s", domain.ErrNotFound, id)
		}
		return domain.Request{}, err
	}
	return req, nil
}

// UpdateRequestStatus overwrites the status and refreshes updated_at.
// created_at is never touched.
func (r *PGRepo) UpdateRequestStatus(ctx context.Context, id domain.RequestID, s domain.RequestStatus) (domain.Request, error) {
	q := r.qb().Update(r.tbl("requests")).
		SetMap(map[string]any{
			"status":     s,
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + requestCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateRequestStatus", sqlStr, args)

	start := time.Now()
	out, err := scanRequest(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if noRows(err) {
			return domain.Request{}, fmt.Errorf("%w: request not found with id %s", domain.ErrNotFound, id)
		}
		r.logger.Printf("UpdateRequestStatus error after %s: %v", time.Since(start), err)
		return domain.Request{}, err
	}
	r.logger.Printf("UpdateRequestStatus ok in %s id=%s status=%s", time.Since(start), out.ID, out.Status)
	return out, nil
}

func (r *PGRepo) DeleteRequest(ctx context.Context, id domain.RequestID) error {
	q := r.qb().Delete(r.tbl("requests")).Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteRequest", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("DeleteRequest error after %s: %v", time.Since(start), err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: request not found with id %s", domain.ErrNotFound, id)
	}
	r.logger.Printf("DeleteRequest ok in %s id=%s", time.Since(start), id)
	return nil
}

func (r *PGRepo) SearchRequests(ctx context.Context, f domain.RequestFilter) ([]domain.Request, error) {
	q := r.qb().Select(requestCols).
		From(r.tbl("requests")).
		OrderBy("created_at DESC")
	if f.PatientID != nil {
		q = q.Where(sq.Eq{"patient_id": *f.PatientID})
	}
	if f.DoctorID != nil {
		q = q.Where(sq.Eq{"doctor_id": *f.DoctorID})
	}
	if f.Status != nil {
		q = q.Where(sq.Eq{"status": *f.Status})
	}

	sqlStr, args, _ := q.ToSql()
	r.logSQL("SearchRequests", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
