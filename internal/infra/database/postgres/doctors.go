package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

const doctorCols = "id, name, surname, email, phone, profession"

func scanDoctor(row pgx.Row) (domain.Doctor, error) {
	var d domain.Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Surname, &d.Email, &d.Phone, &d.Profession)
	return d, err
}

func (r *PGRepo) CreateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error) {
	q := r.qb().Insert(r.tbl("doctors")).
		Columns("name", "surname", "email", "phone", "profession").
		Values(d.Name, d.Surname, d.Email, d.Phone, d.Profession).
		Suffix("RETURNING " + doctorCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateDoctor", sqlStr, args)

	start := time.Now()
	out, err := scanDoctor(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if isPGCode(err, pgUniqueViolation) {
			return domain.Doctor{}, fmt.Errorf("%w: doctor with email %s already exists", domain.ErrBadRequest, d.Email)
		}
		r.logger.Printf("CreateDoctor error after %s: %v", time.Since(start), err)
		return domain.Doctor{}, err
	}
	r.logger.Printf("CreateDoctor ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) DoctorByID(ctx context.Context, id domain.DoctorID) (domain.Doctor, error) {
	q := r.qb().Select(doctorCols).
		From(r.tbl("doctors")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DoctorByID", sqlStr, args)

	d, err := scanDoctor(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if noRows(err) {
			return domain.Doctor{}, fmt.Errorf("%w: doctor not found with id %s", domain.ErrNotFound, id)
		}
		return domain.Doctor{}, err
	}
	return d, nil
}

func (r *PGRepo) UpdateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error) {
	q := r.qb().Update(r.tbl("doctors")).
		SetMap(map[string]any{
			"name":       d.Name,
			"surname":    d.Surname,
			"email":      d.Email,
			"phone":      d.Phone,
			"profession": d.Profession,
		}).
		Where(sq.Eq{"id": d.ID}).
		Suffix("RETURNING " + doctorCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateDoctor", sqlStr, args)

	start := time.Now()
	out, err := scanDoctor(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if noRows(err) {
			return domain.Doctor{}, fmt.Errorf("%w: doctor not found with id %s", domain.ErrNotFound, d.ID)
		}
		if isPGCode(err, pgUniqueViolation) {
			return domain.Doctor{}, fmt.Errorf("%w: doctor with email %s already exists", domain.ErrBadRequest, d.Email)
		}
		r.logger.Printf("UpdateDoctor error after %s: %v", time.Since(start), err)
		return domain.Doctor{}, err
	}
	r.logger.Printf("UpdateDoctor ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

// DeleteDoctor refuses to delete a doctor that requests still reference.
// Association rows are removed in the same transaction.
func (r *PGRepo) DeleteDoctor(ctx context.Context, id domain.DoctorID) error {
	start := time.Now()
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		sqlStr, args, _ := r.qb().Select("COUNT(*)").
			From(r.tbl("requests")).
			Where(sq.Eq{"doctor_id": id}).ToSql()
		r.logSQL("DeleteDoctor", sqlStr, args)

		var n int64
		if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: doctor %s still has %d requests", domain.ErrConflict, id, n)
		}

		sqlStr, args, _ = r.qb().Delete(r.tbl("patient_doctor")).Where(sq.Eq{"doctor_id": id}).ToSql()
		r.logSQL("DeleteDoctor", sqlStr, args)
		if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
			return err
		}

		sqlStr, args, _ = r.qb().Delete(r.tbl("doctors")).Where(sq.Eq{"id": id}).ToSql()
		r.logSQL("DeleteDoctor", sqlStr, args)
		tag, err := tx.Exec(ctx, sqlStr, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: doctor not found with id %s", domain.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		r.logger.Printf("DeleteDoctor error after %s: %v", time.Since(start), err)
		return err
	}
	r.logger.Printf("DeleteDoctor ok in %s id=%s", time.Since(start), id)
	return nil
}

func (r *PGRepo) DoctorsByProfession(ctx context.Context, p domain.DoctorProfession) ([]domain.Doctor, error) {
	q := r.qb().Select(doctorCols).
		From(r.tbl("doctors")).
		OrderBy("surname ASC", "name ASC")
	if p != "" {
		q = q.Where(sq.Eq{"profession": p})
	}

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DoctorsByProfession", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
