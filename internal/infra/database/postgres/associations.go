package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
)

// AddDoctor inserts the (patient, doctor) pair. The primary key on the join
// table is what resolves concurrent duplicate inserts: the loser sees the
// unique violation and gets ErrConflict, never a silent second success.
func (r *PGRepo) AddDoctor(ctx context.Context, patientID domain.PatientID, doctorID domain.DoctorID) error {
	q := r.qb().Insert(r.tbl("patient_doctor")).
		Columns("patient_id", "doctor_id").
		Values(patientID, doctorID)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("AddDoctor", sqlStr, args)

	start := time.Now()
	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		if isPGCode(err, pgUniqueViolation) {
			return fmt.Errorf("%w: doctor is already associated with this patient", domain.ErrConflict)
		}
		if isPGCode(err, pgFKViolation) {
			return fmt.Errorf("%w: patient or doctor not found", domain.ErrNotFound)
		}
		r.logger.Printf("AddDoctor error after %s: %v", time.Since(start), err)
		return err
	}
	r.logger.Printf("AddDoctor ok in %s patient=%s doctor=%s", time.Since(start), patientID, doctorID)
	return nil
}

// RemoveDoctor deletes the pair if present. Zero rows affected is success.
func (r *PGRepo) RemoveDoctor(ctx context.Context, patientID domain.PatientID, doctorID domain.DoctorID) error {
	q := r.qb().Delete(r.tbl("patient_doctor")).
		Where(sq.Eq{"patient_id": patientID, "doctor_id": doctorID})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("RemoveDoctor", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("RemoveDoctor error after %s: %v", time.Since(start), err)
		return err
	}
	r.logger.Printf("RemoveDoctor ok in %s patient=%s doctor=%s rows=%d",
		time.Since(start), patientID, doctorID, tag.RowsAffected())
	return nil
}

func (r *PGRepo) DoctorsForPatient(ctx context.Context, patientID domain.PatientID) ([]domain.Doctor, error) {
	q := r.qb().Select("d.id", "d.name", "d.surname", "d.email", "d.phone", "d.profession").
		From(r.tbl("doctors") + " d").
		Join(r.tbl("patient_doctor") + " pd ON pd.doctor_id = d.id").
		Where(sq.Eq{"pd.patient_id": patientID}).
		OrderBy("d.surname ASC", "d.name ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DoctorsForPatient", sqlStr, args)

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
