package repository

import (
	"context"
	"fmt"

	"starwars-api/models"

	"github.com/jmoiron/sqlx"
)

// UserRepository persists users
type UserRepository interface {
	List(ctx context.Context, q Handle, activeOnly bool) ([]models.User, error)
	GetByID(ctx context.Context, q Handle, id int) (*models.User, error)
	GetByEmail(ctx context.Context, q Handle, email string) (*models.User, error)
	Create(ctx context.Context, q Handle, user *models.User) error
	Update(ctx context.Context, q Handle, user *models.User) error
	Delete(ctx context.Context, q Handle, id int) error
}

type userRepository struct{}

// NewUserRepository returns the SQL-backed UserRepository
func NewUserRepository() UserRepository {
	return &userRepository{}
}

const userColumns = "id, name, email, password, is_active"

func (r *userRepository) List(ctx context.Context, q Handle, activeOnly bool) ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users"
	args := []interface{}{}
	if activeOnly {
		query += " WHERE is_active = ?"
		args = append(args, true)
	}
	query += " ORDER BY id"

	var users []models.User
	if err := sqlx.SelectContext(ctx, q, &users, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, q Handle, id int) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, q, &user, q.Rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, q Handle, email string) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, q, &user, q.Rebind("SELECT "+userColumns+" FROM users WHERE email = ?"), email)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, q Handle, user *models.User) error {
	query := q.Rebind("INSERT INTO users (name, email, password, is_active) VALUES (?, ?, ?, ?) RETURNING id")
	err := q.QueryRowxContext(ctx, query, user.Name, user.Email, user.Password, user.IsActive).Scan(&user.ID)
	if err != nil {
		return uniqueViolation(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, q Handle, user *models.User) error {
	query := q.Rebind("UPDATE users SET name = ?, email = ?, password = ?, is_active = ? WHERE id = ?")
	res, err := q.ExecContext(ctx, query, user.Name, user.Email, user.Password, user.IsActive, user.ID)
	if err != nil {
		return uniqueViolation(err)
	}
	return affected(res)
}

func (r *userRepository) Delete(ctx context.Context, q Handle, id int) error {
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return affected(res)
}
