package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/target/crms-console/internal/domain/model"
)

// AnalyticsService wraps the /analytics endpoints.
type AnalyticsService struct {
	gateway Gateway
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(gw Gateway) *AnalyticsService { return &AnalyticsService{gateway: gw} }

func (s *AnalyticsService) Dashboard(ctx context.Context) (model.DashboardData, error) {
	return fetch[model.DashboardData](ctx, s.gateway, "/analytics/dashboard",
		"dashboard data", "Failed to fetch dashboard data")
}

func (s *AnalyticsService) Trends(ctx context.Context) (model.CrimeTrends, error) {
	return fetch[model.CrimeTrends](ctx, s.gateway, "/analytics/trends", "crime trends", "Failed to fetch crime trends")
}

func (s *AnalyticsService) CaseStats(ctx context.Context) (model.CaseStats, error) {
	return fetch[model.CaseStats](ctx, s.gateway, "/analytics/case-stats",
		"case stats", "Failed to fetch case resolution stats")
}

// Overview is everything the analytics page shows.
type Overview struct {
	Dashboard model.DashboardData
	Trends    model.CrimeTrends
	CaseStats model.CaseStats
}

// Overview fetches the three analytics payloads concurrently. The first failure is returned.
func (s *AnalyticsService) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.Dashboard(gctx)
		out.Dashboard = d
		return err
	})
	g.Go(func() error {
		t, err := s.Trends(gctx)
		out.Trends = t
		return err
	})
	g.Go(func() error {
		c, err := s.CaseStats(gctx)
		out.CaseStats = c
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}
