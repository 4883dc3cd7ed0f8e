package dataprocessing

import (
	"sort"

	"solpedcli/pkg/contracts/domain"
)

// ComputeMetrics counts the records of a classified dataset by status.
func ComputeMetrics(records []domain.Record) domain.Summary {
	summary := domain.Summary{Total: len(records)}
	for _, rec := range records {
		if rec.Status == domain.StatusWithoutPO {
			summary.WithoutPO++
		} else {
			summary.WithPO++
		}
	}
	return summary
}

// StatusDistribution returns one entry per status present, most frequent first.
// Ties keep the WithPO, WithoutPO order.
func StatusDistribution(records []domain.Record) []domain.StatusCount {
	summary := ComputeMetrics(records)

	counts := make([]domain.StatusCount, 0, 2)
	if summary.WithPO > 0 {
		counts = append(counts, domain.StatusCount{
			Status: domain.StatusWithPO,
			Label:  domain.StatusWithPO.Label(),
			Count:  summary.WithPO,
		})
	}
	if summary.WithoutPO > 0 {
		counts = append(counts, domain.StatusCount{
			Status: domain.StatusWithoutPO,
			Label:  domain.StatusWithoutPO.Label(),
			Count:  summary.WithoutPO,
		})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
