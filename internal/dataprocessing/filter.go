package dataprocessing

import (
	"fmt"
	"sort"
	"strings"

	"solpedcli/pkg/contracts/domain"
)

// ParseStatusSelection reads a status selection; empty input means All.
func ParseStatusSelection(value string) (domain.StatusSelection, error) {
	switch strings.TrimSpace(value) {
	case "", string(domain.SelectAll), "Todos":
		return domain.SelectAll, nil
	case string(domain.SelectWithPO), domain.StatusLabelWithPO:
		return domain.SelectWithPO, nil
	case string(domain.SelectWithoutPO), domain.StatusLabelWithout:
		return domain.SelectWithoutPO, nil
	default:
		return "", fmt.Errorf("invalid status selection %q", value)
	}
}

// Filter applies the spec to a classified dataset.
//
// An empty requester or center selection leaves that dimension unconstrained,
// as does a dimension whose column is absent from the dataset. The dataset is
// not modified.
func Filter(ds *domain.Dataset, spec domain.FilterSpec) domain.FilteredView {
	var requesters, centers map[string]struct{}
	if len(spec.Requesters) > 0 && ds.HasField(domain.FieldRequester) {
		requesters = toSet(spec.Requesters)
	}
	if len(spec.Centers) > 0 && ds.HasField(domain.FieldCenter) {
		centers = toSet(spec.Centers)
	}

	var status domain.Status
	switch spec.Status {
	case domain.SelectWithPO:
		status = domain.StatusWithPO
	case domain.SelectWithoutPO:
		status = domain.StatusWithoutPO
	}

	view := domain.FilteredView{
		Columns: ds.Columns,
		Records: make([]domain.Record, 0, len(ds.Records)),
	}
	for _, rec := range ds.Records {
		if requesters != nil {
			if _, ok := requesters[rec.Requester]; !ok {
				continue
			}
		}
		if centers != nil {
			if _, ok := centers[rec.Center]; !ok {
				continue
			}
		}
		if status != domain.StatusUnset && rec.Status != status {
			continue
		}
		view.Records = append(view.Records, rec)
	}
	return view
}

// RestrictStatus narrows a view to one status.
func RestrictStatus(view domain.FilteredView, status domain.Status) domain.FilteredView {
	out := domain.FilteredView{Columns: view.Columns}
	for _, rec := range view.Records {
		if rec.Status == status {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

// Options lists the sorted distinct non-empty requesters and centers of a dataset.
// A dimension whose column is absent yields no options.
func Options(ds *domain.Dataset) domain.FilterOptions {
	opts := domain.FilterOptions{
		Requesters: []string{},
		Centers:    []string{},
		Statuses:   []string{string(domain.SelectAll), string(domain.SelectWithPO), string(domain.SelectWithoutPO)},
	}
	if ds.HasField(domain.FieldRequester) {
		opts.Requesters = distinct(ds.Records, func(r domain.Record) string { return r.Requester })
	}
	if ds.HasField(domain.FieldCenter) {
		opts.Centers = distinct(ds.Records, func(r domain.Record) string { return r.Center })
	}
	return opts
}

func distinct(records []domain.Record, key func(domain.Record) string) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, rec := range records {
		v := key(rec)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
