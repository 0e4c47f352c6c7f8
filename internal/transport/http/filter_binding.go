package http

import (
	"net/http"
	"strings"
	"time"

	"superstore/internal/dataset"
	apierrors "superstore/internal/errors"
	apiv1 "superstore/pkg/contracts/api/v1"
)

const dateLayout = "2006-01-02"

// bindFilterRequest reads the dashboard filter controls from the query
// string. Dimension parameters may repeat or carry comma-separated
// lists; both forms produce the same request.
func bindFilterRequest(r *http.Request) apiv1.FilterRequest {
	q := r.URL.Query()
	return apiv1.FilterRequest{
		DateRangeRequest: apiv1.DateRangeRequest{
			From: strings.TrimSpace(q.Get("from")),
			To:   strings.TrimSpace(q.Get("to")),
		},
		Regions:       splitMulti(q["region"]),
		Categories:    splitMulti(q["category"]),
		SubCategories: splitMulti(q["subcategory"]),
		Segments:      splitMulti(q["segment"]),
	}
}

// splitMulti flattens repeated parameters and comma-separated values
// into one trimmed list, dropping empties
func splitMulti(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// filterFromRequest converts a validated request into a dataset filter
func filterFromRequest(req apiv1.FilterRequest) (dataset.Filter, error) {
	f := dataset.Filter{
		Regions:       req.Regions,
		Categories:    req.Categories,
		SubCategories: req.SubCategories,
		Segments:      req.Segments,
	}

	if req.From != "" {
		from, err := time.Parse(dateLayout, req.From)
		if err != nil {
			return dataset.Filter{}, apierrors.ErrValidation("from", "Must be a date in YYYY-MM-DD format")
		}
		f.From = from
	}

	if req.To != "" {
		to, err := time.Parse(dateLayout, req.To)
		if err != nil {
			return dataset.Filter{}, apierrors.ErrValidation("to", "Must be a date in YYYY-MM-DD format")
		}
		f.To = to
	}

	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return dataset.Filter{}, apierrors.ErrValidation("from", "Range start must not be after range end")
	}

	return f, nil
}
