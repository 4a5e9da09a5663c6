package service

import (
	"context"
	"net/http"

	"github.com/target/crms-console/internal/domain/model"
)

// CaseService wraps the /cases endpoints.
type CaseService struct {
	gateway Gateway
}

// NewCaseService constructs a CaseService.
func NewCaseService(gw Gateway) *CaseService { return &CaseService{gateway: gw} }

func (s *CaseService) List(ctx context.Context) ([]model.Case, error) {
	return fetch[[]model.Case](ctx, s.gateway, "/cases", "list cases", "Failed to fetch cases")
}

func (s *CaseService) Get(ctx context.Context, id int64) (model.Case, error) {
	return fetch[model.Case](ctx, s.gateway, resourcePath("cases", id), "get case", "Failed to fetch case")
}

func (s *CaseService) Create(ctx context.Context, in model.CaseInput) (model.Case, error) {
	return call[model.Case](ctx, s.gateway, http.MethodPost, "/cases", in, "create case", "Failed to create case")
}

func (s *CaseService) Update(ctx context.Context, id int64, in model.CaseInput) (model.Case, error) {
	return call[model.Case](ctx, s.gateway, http.MethodPut, resourcePath("cases", id), in,
		"update case", "Failed to update case")
}

func (s *CaseService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.gateway, resourcePath("cases", id), "delete case", "Failed to delete case")
}

func (s *CaseService) ListByStatus(ctx context.Context, status string) ([]model.Case, error) {
	return fetch[[]model.Case](ctx, s.gateway, resourcePath("cases", "status", status),
		"list cases by status", "Failed to fetch cases by status")
}

func (s *CaseService) ListByAssignee(ctx context.Context, userID int64) ([]model.Case, error) {
	return fetch[[]model.Case](ctx, s.gateway, resourcePath("cases", "assigned", userID),
		"list cases by assignee", "Failed to fetch cases by assigned user")
}

// Close marks a case closed; the server stamps closedAt.
func (s *CaseService) Close(ctx context.Context, id int64) (model.Case, error) {
	return call[model.Case](ctx, s.gateway, http.MethodPut, resourcePath("cases", id, "close"), nil,
		"close case", "Failed to close case")
}
