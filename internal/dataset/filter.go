package dataset

import (
	"sort"
	"time"

	"superstore/pkg/contracts/domain"
)

// Filter narrows a cleaned table to the rows the dashboard is looking
// at. Zero-value fields mean "no constraint" for that dimension.
type Filter struct {
	From          time.Time
	To            time.Time
	Regions       []string
	Categories    []string
	SubCategories []string
	Segments      []string
}

// IsZero reports whether the filter constrains nothing
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() &&
		len(f.Regions) == 0 && len(f.Categories) == 0 &&
		len(f.SubCategories) == 0 && len(f.Segments) == 0
}

// Apply returns the matching rows in a new slice; the input is never
// mutated. Rows with a nulled order date match only when no date bound
// is set.
func (f Filter) Apply(records []domain.Record) []domain.Record {
	if f.IsZero() {
		out := make([]domain.Record, len(records))
		copy(out, records)
		return out
	}

	regions := toSet(f.Regions)
	categories := toSet(f.Categories)
	subCategories := toSet(f.SubCategories)
	segments := toSet(f.Segments)
	hasDateBound := !f.From.IsZero() || !f.To.IsZero()

	out := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if hasDateBound {
			if !rec.HasOrderDate() {
				continue
			}
			if !f.From.IsZero() && rec.OrderDate.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && rec.OrderDate.After(f.To) {
				continue
			}
		}
		if !matches(regions, rec.Region) {
			continue
		}
		if !matches(categories, rec.Category) {
			continue
		}
		if !matches(subCategories, rec.SubCategory) {
			continue
		}
		if !matches(segments, rec.Segment) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func matches(set map[string]struct{}, value string) bool {
	if set == nil {
		return true
	}
	_, ok := set[value]
	return ok
}

// DistinctValues collects the filter options the dashboard offers:
// sorted distinct values per dimension plus the order-date bounds.
// Nulled order dates do not contribute to the bounds.
func DistinctValues(records []domain.Record) domain.FilterValues {
	regions := make(map[string]struct{})
	categories := make(map[string]struct{})
	subCategories := make(map[string]struct{})
	segments := make(map[string]struct{})

	var minDate, maxDate time.Time
	for _, rec := range records {
		if rec.Region != "" {
			regions[rec.Region] = struct{}{}
		}
		if rec.Category != "" {
			categories[rec.Category] = struct{}{}
		}
		if rec.SubCategory != "" {
			subCategories[rec.SubCategory] = struct{}{}
		}
		if rec.Segment != "" {
			segments[rec.Segment] = struct{}{}
		}
		if rec.HasOrderDate() {
			if minDate.IsZero() || rec.OrderDate.Before(minDate) {
				minDate = rec.OrderDate
			}
			if maxDate.IsZero() || rec.OrderDate.After(maxDate) {
				maxDate = rec.OrderDate
			}
		}
	}

	values := domain.FilterValues{
		Regions:       sortedKeys(regions),
		Categories:    sortedKeys(categories),
		SubCategories: sortedKeys(subCategories),
		Segments:      sortedKeys(segments),
	}
	if !minDate.IsZero() {
		values.OrderDateMin = &minDate
		values.OrderDateMax = &maxDate
	}
	return values
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
