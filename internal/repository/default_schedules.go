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

func (r *Repository) CreateDefaultSchedule(ds *domain.DefaultSchedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO default_schedules (staff_id, effective_from)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, ds.StaffID, ds.EffectiveFrom).Scan(&ds.ID, &ds.CreatedAt, &ds.Version); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "default_schedules_staff_id_effective_from_key" {
			return domain.NewConflictError("该员工在 %s 已经有默认班表", ds.EffectiveFrom)
		}
		return err
	}

	for weekday, day := range ds.Days {
		if day == nil {
			continue
		}

		query = `
			INSERT INTO default_schedule_days (schedule_id, weekday, start_time, end_time, role)
			VALUES ($1, $2, $3, $4, $5)
		`
		params := []any{ds.ID, weekday, day.StartTime, day.EndTime, day.Role}
		if _, err := tx.ExecContext(ctx, query, params...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetEffectiveDefaultSchedule 返回对 date 生效的默认班表，
// 即该员工 effective_from <= date 的记录中 effective_from 最大的那条
func (r *Repository) GetEffectiveDefaultSchedule(staffID int64, date string) (*domain.DefaultSchedule, error) {
	query := `
		SELECT
			ds.id,
			ds.effective_from,
			ds.created_at,
			ds.version,
			d.weekday,
			d.start_time,
			d.end_time,
			d.role
		FROM default_schedules ds
		LEFT JOIN default_schedule_days d ON ds.id = d.schedule_id
		WHERE ds.id = (
			SELECT id FROM default_schedules
			WHERE staff_id = $1 AND effective_from <= $2
			ORDER BY effective_from DESC
			LIMIT 1
		)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, staffID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ds := &domain.DefaultSchedule{
		StaffID: staffID,
	}
	found := false

	for rows.Next() {
		var row struct {
			ID            int64
			EffectiveFrom time.Time
			CreatedAt     time.Time
			Version       int32

			Weekday   sql.NullInt32
			StartTime sql.NullString
			EndTime   sql.NullString
			Role      sql.NullString
		}

		dst := []any{&row.ID, &row.EffectiveFrom, &row.CreatedAt, &row.Version, &row.Weekday, &row.StartTime, &row.EndTime, &row.Role}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			found = true
			ds.ID = row.ID
			ds.EffectiveFrom = row.EffectiveFrom.Format(utils.DateLayout)
			ds.CreatedAt = row.CreatedAt
			ds.Version = row.Version
		}

		// weekday 为空表示这个班表一天班都没有
		if !row.Weekday.Valid {
			continue
		}

		ds.Days[row.Weekday.Int32] = &domain.DayTemplate{
			StartTime: row.StartTime.String,
			EndTime:   row.EndTime.String,
			Role:      row.Role.String,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, domain.NewNotFoundError("员工 %d 在 %s 没有生效的默认班表", staffID, date)
	}

	return ds, nil
}

func (r *Repository) GetDefaultSchedulesByStaff(staffID int64) ([]*domain.DefaultSchedule, error) {
	query := `
		SELECT
			ds.id,
			ds.effective_from,
			ds.created_at,
			ds.version,
			d.weekday,
			d.start_time,
			d.end_time,
			d.role
		FROM default_schedules ds
		LEFT JOIN default_schedule_days d ON ds.id = d.schedule_id
		WHERE ds.staff_id = $1
		ORDER BY ds.effective_from DESC, ds.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedulesMap := make(map[int64]*domain.DefaultSchedule)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID            int64
			EffectiveFrom time.Time
			CreatedAt     time.Time
			Version       int32

			Weekday   sql.NullInt32
			StartTime sql.NullString
			EndTime   sql.NullString
			Role      sql.NullString
		}

		dst := []any{&row.ID, &row.EffectiveFrom, &row.CreatedAt, &row.Version, &row.Weekday, &row.StartTime, &row.EndTime, &row.Role}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		ds, exists := schedulesMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个班表，需要在 map 中初始化它
			ds = &domain.DefaultSchedule{
				ID:            row.ID,
				StaffID:       staffID,
				EffectiveFrom: row.EffectiveFrom.Format(utils.DateLayout),
				CreatedAt:     row.CreatedAt,
				Version:       row.Version,
			}
			schedulesMap[row.ID] = ds
			order = append(order, row.ID)
		}

		if !row.Weekday.Valid {
			continue
		}

		ds.Days[row.Weekday.Int32] = &domain.DayTemplate{
			StartTime: row.StartTime.String,
			EndTime:   row.EndTime.String,
			Role:      row.Role.String,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	schedules := make([]*domain.DefaultSchedule, 0, len(order))
	for _, id := range order {
		schedules = append(schedules, schedulesMap[id])
	}

	return schedules, nil
}
