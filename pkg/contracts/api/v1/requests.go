// Package api contains API contract definitions for Superstore Analytics.
// Version v1 represents the current stable API version.
package api

// DateRangeRequest represents a date range in requests
type DateRangeRequest struct {
	From string `json:"from" query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// FilterRequest carries the dashboard filter controls. Empty slices
// mean "no constraint" for that dimension.
type FilterRequest struct {
	DateRangeRequest
	Regions       []string `json:"regions" query:"region" validate:"omitempty,dive,min=1,max=64"`
	Categories    []string `json:"categories" query:"category" validate:"omitempty,dive,min=1,max=64"`
	SubCategories []string `json:"sub_categories" query:"subcategory" validate:"omitempty,dive,min=1,max=64"`
	Segments      []string `json:"segments" query:"segment" validate:"omitempty,dive,min=1,max=64"`
}

// TopCustomersRequest represents a top-customers ranking request
type TopCustomersRequest struct {
	FilterRequest
	Limit int `json:"limit" query:"limit" validate:"omitempty,min=1,max=100"`
}

// ClientLogRequest represents a log entry forwarded by the dashboard
type ClientLogRequest struct {
	Level   string                 `json:"level" validate:"required,oneof=debug info warn error"`
	Message string                 `json:"message" validate:"required,max=4096"`
	Source  string                 `json:"source,omitempty" validate:"max=256"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
