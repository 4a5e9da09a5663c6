package service

import (
	"context"
	"net/http"

	"github.com/target/crms-console/internal/domain/model"
)

// ReportService wraps the /reports endpoints.
type ReportService struct {
	gateway Gateway
}

// NewReportService constructs a ReportService.
func NewReportService(gw Gateway) *ReportService { return &ReportService{gateway: gw} }

func (s *ReportService) List(ctx context.Context) ([]model.CrimeReport, error) {
	return fetch[[]model.CrimeReport](ctx, s.gateway, "/reports", "list reports", "Failed to fetch reports")
}

func (s *ReportService) Get(ctx context.Context, id int64) (model.CrimeReport, error) {
	return fetch[model.CrimeReport](ctx, s.gateway, resourcePath("reports", id), "get report", "Failed to fetch report")
}

func (s *ReportService) Create(ctx context.Context, in model.ReportInput) (model.CrimeReport, error) {
	return call[model.CrimeReport](ctx, s.gateway, http.MethodPost, "/reports", in,
		"create report", "Failed to create report")
}

func (s *ReportService) Update(ctx context.Context, id int64, in model.ReportInput) (model.CrimeReport, error) {
	return call[model.CrimeReport](ctx, s.gateway, http.MethodPut, resourcePath("reports", id), in,
		"update report", "Failed to update report")
}

func (s *ReportService) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.gateway, resourcePath("reports", id), "delete report", "Failed to delete report")
}

func (s *ReportService) ListByStatus(ctx context.Context, status string) ([]model.CrimeReport, error) {
	return fetch[[]model.CrimeReport](ctx, s.gateway, resourcePath("reports", "status", status),
		"list reports by status", "Failed to fetch reports by status")
}

func (s *ReportService) ListByCategory(ctx context.Context, categoryID int64) ([]model.CrimeReport, error) {
	return fetch[[]model.CrimeReport](ctx, s.gateway, resourcePath("reports", "category", categoryID),
		"list reports by category", "Failed to fetch reports by category")
}

func (s *ReportService) ListByReporter(ctx context.Context, userID int64) ([]model.CrimeReport, error) {
	return fetch[[]model.CrimeReport](ctx, s.gateway, resourcePath("reports", "reporter", userID),
		"list reports by reporter", "Failed to fetch reports by reporter")
}
