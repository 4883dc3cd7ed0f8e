package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"solpedcli/pkg/contracts/domain"
)

func TestFilterQuery_Spec(t *testing.T) {
	q := FilterQuery{
		Requesters: []string{" Ana ", "", "Luis, J."},
		Centers:    []string{"  "},
		Status:     " WithoutPO ",
	}

	spec := q.Spec()
	assert.Equal(t, []string{"Ana", "Luis, J."}, spec.Requesters)
	assert.Nil(t, spec.Centers)
	assert.Equal(t, domain.StatusSelection("WithoutPO"), spec.Status)
}

func TestRemoteIngestRequest_Normalize(t *testing.T) {
	req := RemoteIngestRequest{DocumentID: " doc123\n", TabID: "\t0 "}
	req.Normalize()
	assert.Equal(t, RemoteIngestRequest{DocumentID: "doc123", TabID: "0"}, req)
}
