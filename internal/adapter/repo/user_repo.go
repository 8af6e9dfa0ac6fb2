package repo

import (
	"context"

	"medicab/internal/domain"
	"medicab/internal/infra"
	"medicab/internal/sqlinline"
)

// UserDirectoryPG resolves actors from the users table.
type UserDirectoryPG struct {
	sql infra.SQLExecutor
}

func NewUserDirectory(sql infra.SQLExecutor) *UserDirectoryPG {
	return &UserDirectoryPG{sql: sql}
}

// Resolve returns the actor for id, domain.ErrNotFound when absent.
func (r *UserDirectoryPG) Resolve(ctx context.Context, id string) (*domain.Actor, error) {
	var (
		a    domain.Actor
		role string
	)
	row := r.sql.QueryRow(ctx, sqlinline.QGetUser, id)
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &role); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	a.Role = parsed
	return &a, nil
}

var _ domain.UserDirectory = (*UserDirectoryPG)(nil)
