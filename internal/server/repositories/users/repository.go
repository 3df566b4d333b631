package users

import (
	"context"

	"github.com/todoapp/userapi/internal/server/models"
)

// Repository is the user store consumed by the session service. The storage
// layer owns the login uniqueness constraint; Create reports a violation as
// common.ErrDuplicateLogin.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}
