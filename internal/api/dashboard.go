package api

import (
	"context"
	"net/http"
)

// Summary returns the dashboard's top-level counters. All dashboard
// reads are derived snapshots fetched per view; nothing here is cached.
func (c *Client) Summary(ctx context.Context) (*DashboardSummary, error) {
	var resp DashboardSummary
	if err := c.do(ctx, http.MethodGet, "/dashboard/summary", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TopicStats returns per-topic accuracy.
func (c *Client) TopicStats(ctx context.Context) (*TopicStatsResponse, error) {
	var resp TopicStatsResponse
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats/topics", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WeeklyStats returns the last week's daily activity histogram.
func (c *Client) WeeklyStats(ctx context.Context) (*WeeklyStatsResponse, error) {
	var resp WeeklyStatsResponse
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats/weekly", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
