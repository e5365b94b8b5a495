package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRun(t *testing.T) {
	r := NewRun()
	_, err := uuid.Parse(r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, r.Status)
	assert.False(t, r.StartedAt.IsZero())
	assert.Nil(t, r.FinishedAt)
	assert.NotNil(t, r.Updated)
	assert.Empty(t, r.Updated)

	assert.NotEqual(t, r.ID, NewRun().ID)
}

func TestRun_Record(t *testing.T) {
	r := NewRun()
	r.RecordUpdated("A")
	r.RecordFailed("B")
	r.RecordUpdated("C")
	assert.Equal(t, []string{"A", "C"}, r.Updated)
	assert.Equal(t, []string{"B"}, r.Failed)
}

func TestRun_Finish(t *testing.T) {
	tests := []struct {
		name   string
		finish func(*Run)
		status string
		err    string
	}{
		{"complete", (*Run).Complete, StatusCompleted, ""},
		{"abort", (*Run).Abort, StatusAborted, ""},
		{"fail", func(r *Run) { r.Fail("boom") }, StatusFailed, "boom"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRun()
			tc.finish(r)
			assert.Equal(t, tc.status, r.Status)
			assert.Equal(t, tc.err, r.Error)
			require.NotNil(t, r.FinishedAt)
			assert.False(t, r.FinishedAt.Before(r.StartedAt))
		})
	}
}
