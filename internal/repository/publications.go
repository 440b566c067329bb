package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

// UpsertWeekPublication 给某一周盖上发布戳，重复发布时覆盖旧的时间戳
func (r *Repository) UpsertWeekPublication(wp *domain.WeekPublication) error {
	query := `
		INSERT INTO week_publications (week_start, published_at, staff_count)
		VALUES ($1, now(), $2)
		ON CONFLICT (week_start) DO UPDATE
		SET
			published_at = now(),
			staff_count = EXCLUDED.staff_count,
			version = week_publications.version + 1
		RETURNING id, published_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, wp.WeekStart, wp.StaffCount).Scan(&wp.ID, &wp.PublishedAt, &wp.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetWeekPublication(weekStart string) (*domain.WeekPublication, error) {
	query := `
		SELECT id, week_start, published_at, staff_count, version
		FROM week_publications
		WHERE week_start = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	wp := &domain.WeekPublication{}
	var weekStartDate time.Time

	dst := []any{&wp.ID, &weekStartDate, &wp.PublishedAt, &wp.StaffCount, &wp.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, weekStart).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("%s 这一周还没有发布过", weekStart)
		}
		return nil, err
	}

	wp.WeekStart = weekStartDate.Format(utils.DateLayout)
	return wp, nil
}
