package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

// shifts 表对 (staff_id, date) 有唯一约束，这是并发控制的天然粒度

func (r *Repository) GetShiftByStaffAndDate(staffID int64, date string) (*domain.ShiftRecord, error) {
	query := `
		SELECT id, start_time, end_time, role, notes, source, is_override,
			override_reason, original_start, original_end, is_overnight, created_at, version
		FROM shifts
		WHERE staff_id = $1 AND date = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	sr := &domain.ShiftRecord{
		StaffID: staffID,
		Date:    date,
	}

	dst := []any{
		&sr.ID, &sr.StartTime, &sr.EndTime, &sr.Role, &sr.Notes, &sr.Source, &sr.IsOverride,
		&sr.OverrideReason, &sr.OriginalStart, &sr.OriginalEnd, &sr.IsOvernight, &sr.CreatedAt, &sr.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, staffID, date).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("员工 %d 在 %s 没有班次记录", staffID, date)
		}
		return nil, err
	}

	return sr, nil
}

func (r *Repository) GetShiftsByDateRange(from string, to string) ([]*domain.ShiftRecord, error) {
	query := `
		SELECT id, staff_id, date, start_time, end_time, role, notes, source, is_override,
			override_reason, original_start, original_end, is_overnight, created_at, version
		FROM shifts
		WHERE date >= $1 AND date <= $2
		ORDER BY date, staff_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.ShiftRecord, 0)
	for rows.Next() {
		sr := &domain.ShiftRecord{}
		var date time.Time

		dst := []any{
			&sr.ID, &sr.StaffID, &date, &sr.StartTime, &sr.EndTime, &sr.Role, &sr.Notes, &sr.Source, &sr.IsOverride,
			&sr.OverrideReason, &sr.OriginalStart, &sr.OriginalEnd, &sr.IsOvernight, &sr.CreatedAt, &sr.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		sr.Date = date.Format(utils.DateLayout)
		shifts = append(shifts, sr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) CreateShift(sr *domain.ShiftRecord) error {
	query := `
		INSERT INTO shifts (staff_id, date, start_time, end_time, role, notes, source, is_override,
			override_reason, original_start, original_end, is_overnight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		sr.StaffID, sr.Date, sr.StartTime, sr.EndTime, sr.Role, sr.Notes, sr.Source, sr.IsOverride,
		sr.OverrideReason, sr.OriginalStart, sr.OriginalEnd, sr.IsOvernight,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sr.ID, &sr.CreatedAt, &sr.Version); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "shifts_staff_id_date_key" {
			return domain.NewConflictError("员工 %d 在 %s 已经有班次记录", sr.StaffID, sr.Date)
		}
		return err
	}

	return nil
}

// UpdateShift 带乐观锁版本检查，并发修改导致版本号不匹配时返回冲突错误
func (r *Repository) UpdateShift(sr *domain.ShiftRecord) error {
	query := `
		UPDATE shifts
		SET
			start_time = $1,
			end_time = $2,
			role = $3,
			notes = $4,
			override_reason = $5,
			is_overnight = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{sr.StartTime, sr.EndTime, sr.Role, sr.Notes, sr.OverrideReason, sr.IsOvernight, sr.ID, sr.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sr.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewConflictError("班次记录已被其他操作修改，请重新读取后重试")
		}
		return err
	}

	return nil
}

func (r *Repository) DeleteShift(id int64) error {
	query := `
		DELETE FROM shifts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NewNotFoundError("班次记录 %d 不存在", id)
	}

	return nil
}

// MoveShift 在一个事务中把记录重新指向新的 (staffID, date)。
// overwrite 为 true 时先删除目标格子上已有的记录，
// 否则目标格子被占用会触发唯一约束并返回冲突错误。
func (r *Repository) MoveShift(sr *domain.ShiftRecord, newStaffID int64, newDate string, overwrite bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if overwrite {
		query := `DELETE FROM shifts WHERE staff_id = $1 AND date = $2 AND id != $3`
		if _, err := tx.ExecContext(ctx, query, newStaffID, newDate, sr.ID); err != nil {
			return err
		}
	}

	query := `
		UPDATE shifts
		SET
			staff_id = $1,
			date = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	args := []any{newStaffID, newDate, sr.ID, sr.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&sr.Version); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return domain.NewConflictError("班次记录已被其他操作修改，请重新读取后重试")
		default:
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == "shifts_staff_id_date_key" {
				return domain.NewConflictError("目标格子已经有班次记录")
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	sr.StaffID = newStaffID
	sr.Date = newDate
	return nil
}

// ReplaceShift 在一个事务中先删除目标格子上的旧记录再插入新记录，
// 避免删除和插入之间的空格子状态被并发读取到
func (r *Repository) ReplaceShift(sr *domain.ShiftRecord, oldID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, oldID); err != nil {
		return err
	}

	query := `
		INSERT INTO shifts (staff_id, date, start_time, end_time, role, notes, source, is_override,
			override_reason, original_start, original_end, is_overnight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, version
	`

	args := []any{
		sr.StaffID, sr.Date, sr.StartTime, sr.EndTime, sr.Role, sr.Notes, sr.Source, sr.IsOverride,
		sr.OverrideReason, sr.OriginalStart, sr.OriginalEnd, sr.IsOvernight,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&sr.ID, &sr.CreatedAt, &sr.Version); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "shifts_staff_id_date_key" {
			return domain.NewConflictError("目标格子已经有班次记录")
		}
		return err
	}

	return tx.Commit()
}

// InsertShiftSkipConflict 插入记录，目标格子已被占用时跳过而不是报错，
// 返回是否真的插入了。整周克隆用它来实现"冲突跳过并报告"的语义。
func (r *Repository) InsertShiftSkipConflict(sr *domain.ShiftRecord) (bool, error) {
	query := `
		INSERT INTO shifts (staff_id, date, start_time, end_time, role, notes, source, is_override,
			override_reason, original_start, original_end, is_overnight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (staff_id, date) DO NOTHING
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		sr.StaffID, sr.Date, sr.StartTime, sr.EndTime, sr.Role, sr.Notes, sr.Source, sr.IsOverride,
		sr.OverrideReason, sr.OriginalStart, sr.OriginalEnd, sr.IsOvernight,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sr.ID, &sr.CreatedAt, &sr.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// DO NOTHING 没有返回行，说明目标格子已被占用
			return false, nil
		}
		return false, err
	}

	return true, nil
}
