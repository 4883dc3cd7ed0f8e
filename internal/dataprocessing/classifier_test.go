package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "solpedcli/internal/errors"
	"solpedcli/pkg/contracts/domain"
)

func TestClassifyValue(t *testing.T) {
	tests := []struct {
		value string
		want  domain.Status
	}{
		{"(en blanco)", domain.StatusWithoutPO},
		{"  (en blanco)  ", domain.StatusWithoutPO},
		{"nan", domain.StatusWithoutPO},
		{"", domain.StatusWithoutPO},
		{"   ", domain.StatusWithoutPO},
		{"None", domain.StatusWithoutPO},
		{"\tNone\n", domain.StatusWithoutPO},
		// Membership is case-sensitive.
		{"NaN", domain.StatusWithPO},
		{"none", domain.StatusWithPO},
		{"(En Blanco)", domain.StatusWithPO},
		{"4500012345", domain.StatusWithPO},
		{"PO-55", domain.StatusWithPO},
		{"0", domain.StatusWithPO},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyValue(tt.value))
		})
	}
}

func sampleDataset() *domain.Dataset {
	return BuildDataset("sample", &domain.Table{
		Header: []string{"SOLPED", "Doc.Compra", "Solicitante", "Centro"},
		Rows: [][]string{
			{"1", " PO-1 ", "A", "C1"},
			{"2", "(en blanco)", "B", "C1"},
			{"3", "None", "A", "C2"},
			{"4", "PO-4", "B", "C2"},
			{"5", "nan", "", "C1"},
		},
	})
}

func TestClassify(t *testing.T) {
	raw := sampleDataset()

	ds, err := Classify(raw)
	require.NoError(t, err)

	statuses := make([]domain.Status, ds.Len())
	for i, rec := range ds.Records {
		statuses[i] = rec.Status
	}
	assert.Equal(t, []domain.Status{
		domain.StatusWithPO, domain.StatusWithoutPO, domain.StatusWithoutPO, domain.StatusWithPO, domain.StatusWithoutPO,
	}, statuses)

	assert.Equal(t, domain.StatusColumnName, ds.Columns[len(ds.Columns)-1].Name)
	assert.Equal(t, []string{"1", "PO-1", "A", "C1", "Con OC"}, ds.Records[0].Values)

	// The input dataset is left untouched.
	assert.Len(t, raw.Columns, 4)
	assert.Equal(t, domain.StatusUnset, raw.Records[0].Status)
	assert.Equal(t, " PO-1 ", raw.Records[0].Values[1])
}

func TestClassify_Idempotent(t *testing.T) {
	once, err := Classify(sampleDataset())
	require.NoError(t, err)

	twice, err := Classify(once)
	require.NoError(t, err)

	assert.Equal(t, once.Columns, twice.Columns)
	assert.Equal(t, once.Records, twice.Records)
}

func TestClassify_ExistingStatusColumn(t *testing.T) {
	ds := BuildDataset("export", &domain.Table{
		Header: []string{"SOLPED", "Doc.Compra", "Tiene OC"},
		Rows: [][]string{
			{"1", "PO-1", "Con OC"},
			{"2", "", "Sin OC"},
			{"3", "", "???"},
		},
	})

	out, err := Classify(ds)
	require.NoError(t, err)
	require.Len(t, out.Columns, 3)
	assert.Equal(t, domain.StatusWithPO, out.Records[0].Status)
	assert.Equal(t, domain.StatusWithoutPO, out.Records[1].Status)
	assert.Equal(t, domain.StatusWithoutPO, out.Records[2].Status)
	assert.Equal(t, "Sin OC", out.Records[2].Values[2])
}

func TestClassify_MissingColumn(t *testing.T) {
	ds := BuildDataset("no-doc", &domain.Table{Header: []string{"SOLPED"}, Rows: [][]string{{"1"}}})

	_, err := Classify(ds)
	var missing *apperrors.MissingColumnError
	assert.ErrorAs(t, err, &missing)
}

func TestComputeMetrics_TotalsAlwaysAddUp(t *testing.T) {
	docs := []string{"", "nan", "PO", "None", "(en blanco)", "x", " ", "123"}
	for n := 0; n <= len(docs); n++ {
		rows := make([][]string, n)
		for i := 0; i < n; i++ {
			rows[i] = []string{docs[i]}
		}
		ds, err := Classify(BuildDataset("prop", &domain.Table{Header: []string{"Doc.Compra"}, Rows: rows}))
		require.NoError(t, err)

		m := ComputeMetrics(ds.Records)
		assert.Equal(t, n, m.Total)
		assert.Equal(t, m.Total, m.WithPO+m.WithoutPO)
	}

	assert.Equal(t, domain.Summary{}, ComputeMetrics(nil))
}

func TestStatusDistribution(t *testing.T) {
	ds, err := Classify(sampleDataset())
	require.NoError(t, err)

	dist := StatusDistribution(ds.Records)
	require.Len(t, dist, 2)
	assert.Equal(t, domain.StatusCount{Status: domain.StatusWithoutPO, Label: "Sin OC", Count: 3}, dist[0])
	assert.Equal(t, domain.StatusCount{Status: domain.StatusWithPO, Label: "Con OC", Count: 2}, dist[1])

	assert.Empty(t, StatusDistribution(nil))
}
