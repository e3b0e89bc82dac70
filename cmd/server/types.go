package main

import "github.com/mixlab/mixlab/pkg/models"

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// MetricsResponse provides server health and database metrics
type MetricsResponse struct {
	Status       string             `json:"status"`
	DatabasePath string             `json:"database_path"`
	DatabaseSize string             `json:"database_size"`
	Tables       []models.TableStat `json:"tables"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
