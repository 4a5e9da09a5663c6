package service

import (
	"context"
	"net/http"

	"github.com/target/crms-console/internal/domain/model"
)

// UserService wraps the /users endpoints.
type UserService struct {
	gateway Gateway
}

// NewUserService constructs a UserService.
func NewUserService(gw Gateway) *UserService { return &UserService{gateway: gw} }

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return fetch[[]model.User](ctx, s.gateway, "/users", "list users", "Failed to fetch users")
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	return fetch[model.User](ctx, s.gateway, resourcePath("users", id), "get user", "Failed to fetch user")
}

func (s *UserService) Create(ctx context.Context, in model.UserInput) (model.User, error) {
	return call[model.User](ctx, s.gateway, http.MethodPost, "/users", in, "create user", "Failed to create user")
}

func (s *UserService) Update(ctx context.Context, id int64, in model.UserInput) (model.User, error) {
	return call[model.User](ctx, s.gateway, http.MethodPut, resourcePath("users", id), in,
		"update user", "Failed to update user")
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.gateway, resourcePath("users", id), "delete user", "Failed to delete user")
}

// ListByRole lists users holding the named role (ADMIN, OFFICER, ANALYST).
func (s *UserService) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	return fetch[[]model.User](ctx, s.gateway, resourcePath("users", "role", role),
		"list users by role", "Failed to fetch users by role")
}

func (s *UserService) ListActive(ctx context.Context) ([]model.User, error) {
	return fetch[[]model.User](ctx, s.gateway, "/users/active", "list active users", "Failed to fetch active users")
}
