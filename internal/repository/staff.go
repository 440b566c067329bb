package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func (r *Repository) GetAllStaff() ([]*domain.StaffMember, error) {
	query := `
		SELECT id, username, full_name, email, default_role, is_active, created_at
		FROM staff
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staff := make([]*domain.StaffMember, 0)
	for rows.Next() {
		sm := &domain.StaffMember{}
		dst := []any{&sm.ID, &sm.Username, &sm.FullName, &sm.Email, &sm.DefaultRole, &sm.IsActive, &sm.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		staff = append(staff, sm)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staff, nil
}

func (r *Repository) GetStaffByID(id int64) (*domain.StaffMember, error) {
	query := `
		SELECT username, full_name, email, default_role, is_active, created_at
		FROM staff WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	sm := &domain.StaffMember{
		ID: id,
	}

	dst := []any{&sm.Username, &sm.FullName, &sm.Email, &sm.DefaultRole, &sm.IsActive, &sm.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("员工 %d 不存在", id)
		}
		return nil, err
	}

	return sm, nil
}

// CreateStaff 只给 seed 使用，员工目录对本服务只读
func (r *Repository) CreateStaff(sm *domain.StaffMember) error {
	query := `
		INSERT INTO staff (username, full_name, email, default_role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{sm.Username, sm.FullName, sm.Email, sm.DefaultRole, sm.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sm.ID, &sm.CreatedAt); err != nil {
		return err
	}

	return nil
}
