package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

const patientCols = "id, name, surname, email, phone"

func scanPatient(row pgx.Row) (domain.Patient, error) {
	var p domain.Patient
	err := row.Scan(&p.ID, &p.Name, &p.Surname, &p.Email, &p.Phone)
	return p, err
}

func (r *PGRepo) CreatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	q := r.qb().Insert(r.tbl("patients")).
		Columns("name", "surname", "email", "phone").
		Values(p.Name, p.Surname, p.Email, p.Phone).
		Suffix("RETURNING " + patientCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreatePatient", sqlStr, args)

	start := time.Now()
	out, err := scanPatient(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if isPGCode(err, pgUniqueViolation) {
			return domain.Patient{}, fmt.Errorf("%w: patient with email %s already exists", domain.ErrBadRequest, p.Email)
		}
		r.logger.Printf("CreatePatient error after %s: %v", time.Since(start), err)
		return domain.Patient{}, err
	}
	r.logger.Printf("CreatePatient ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) PatientByID(ctx context.Context, id domain.PatientID) (domain.Patient, error) {
	q := r.qb().Select(patientCols).
		From(r.tbl("patients")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("PatientByID", sqlStr, args)

	p, err := scanPatient(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if noRows(err) {
			return domain.Patient{}, fmt.Errorf("%w: patient not found with id %s", domain.ErrNotFound, id)
		}
		return domain.Patient{}, err
	}
	return p, nil
}

func (r *PGRepo) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	q := r.qb().Select(patientCols).
		From(r.tbl("patients")).
		OrderBy("surname ASC", "name ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ListPatients", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	q := r.qb().Update(r.tbl("patients")).
		SetMap(map[string]any{
			"name":    p.Name,
			"surname": p.Surname,
			"email":   p.Email,
			"phone":   p.Phone,
		}).
		Where(sq.Eq{"id": p.ID}).
		Suffix("RETURNING " + patientCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdatePatient", sqlStr, args)

	start := time.Now()
	out, err := scanPatient(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if noRows(err) {
			return domain.Patient{}, fmt.Errorf("%w: patient not found with id %s", domain.ErrNotFound, p.ID)
		}
		if isPGCode(err, pgUniqueViolation) {
			return domain.Patient{}, fmt.Errorf("%w: patient with email %s already exists", domain.ErrBadRequest, p.Email)
		}
		r.logger.Printf("UpdatePatient error after %s: %v", time.Since(start), err)
		return domain.Patient{}, err
	}
	r.logger.Printf("UpdatePatient ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

// DeletePatient cascades to the patient's requests and association rows in a
// single transaction. Document rows keep their other links; the patient FK is
// nulled by the schema.
func (r *PGRepo) DeletePatient(ctx context.Context, id domain.PatientID) error {
	start := time.Now()
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		for _, del := range []sq.DeleteBuilder{
			r.qb().Delete(r.tbl("patient_doctor")).Where(sq.Eq{"patient_id": id}),
			r.qb().Delete(r.tbl("requests")).Where(sq.Eq{"patient_id": id}),
		} {
			sqlStr, args, _ := del.ToSql()
			r.logSQL("DeletePatient", sqlStr, args)
			if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
				return err
			}
		}

		sqlStr, args, _ := r.qb().Delete(r.tbl("patients")).Where(sq.Eq{"id": id}).ToSql()
		r.logSQL("DeletePatient", sqlStr, args)
		tag, err := tx.Exec(ctx, sqlStr, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: patient not found with id %s", domain.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		r.logger.Printf("DeletePatient error after %s: %v", time.Since(start), err)
		return err
	}
	r.logger.Printf("DeletePatient ok in %s id=%s", time.Since(start), id)
	return nil
}
