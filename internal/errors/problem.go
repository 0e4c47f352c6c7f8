package errors

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"
)

// ProblemDetails implements RFC 7807 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Additional fields for extensibility
	Extensions map[string]interface{} `json:"-"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON custom marshaler to include extensions
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{})

	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status

	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}

	for k, v := range pd.Extensions {
		data[k] = v
	}

	return json.Marshal(data)
}

// NewProblemDetails creates a new RFC 7807 compliant error
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: make(map[string]interface{}),
	}
}

// WithExtension adds an extension field to the problem details
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	pd.Extensions[key] = value
	return pd
}

// NewDatasetFormatProblem creates a problem response for a malformed dataset file.
// The line and column of the offending cell are carried as extensions when known.
func NewDatasetFormatProblem(detail, instance string, line int, column string) *ProblemDetails {
	problem := NewProblemDetails(
		http.StatusUnprocessableEntity,
		TypeDatasetFormat,
		"Dataset Format Error",
		detail,
		instance,
	).WithExtension("error_code", "DATASET_FORMAT")
	if line > 0 {
		problem.WithExtension("line", line)
	}
	if column != "" {
		problem.WithExtension("column", column)
	}
	return problem
}

// NewInsufficientDataProblem creates a problem response for a regression fit
// that cannot proceed on the available rows.
func NewInsufficientDataProblem(detail, instance string, rows int) *ProblemDetails {
	return NewProblemDetails(
		http.StatusUnprocessableEntity,
		TypeInsufficientData,
		"Insufficient Data",
		detail,
		instance,
	).WithExtension("error_code", "INSUFFICIENT_DATA").WithExtension("rows", rows)
}
