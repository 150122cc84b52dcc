package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/tasktimer/internal/apperr"
	"github.com/ayoisaiah/tasktimer/ledger"
)

func TestParseMode(t *testing.T) {
	testCases := []struct {
		input   string
		want    ledger.Mode
		wantErr bool
	}{
		{input: "focus", want: ledger.Focus},
		{input: " BREAK ", want: ledger.Break},
		{input: "nap", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ledger.ParseMode(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSessionAddDuration(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	sess := &ledger.Session{ID: "s1"}

	sess.AddDuration(ledger.Focus, 60000, now)
	sess.AddDuration(ledger.Focus, 55000, now.Add(time.Minute))
	sess.AddDuration(ledger.Break, 1000, now.Add(2*time.Minute))

	assert.Len(t, sess.Segments, 2)
	assert.Equal(t, 115*time.Second, sess.Total(ledger.Focus))
	assert.Equal(t, time.Second, sess.Total(ledger.Break))
	assert.Equal(t, now.Add(2*time.Minute), sess.UpdatedAt)
}

func TestTaskLatestAndTotal(t *testing.T) {
	task := &ledger.Task{
		VendorTaskID: ledger.LocalVendorID("write report"),
		Sessions: []*ledger.Session{
			{ID: "a", Order: 1, Segments: []ledger.Segment{{Type: ledger.Focus, AccumulatedMs: 1000}}},
			{ID: "b", Order: 2, Segments: []ledger.Segment{{Type: ledger.Focus, AccumulatedMs: 2000}}},
		},
	}

	assert.Equal(t, "b", task.Latest().ID)
	assert.Equal(t, 3*time.Second, task.Total(ledger.Focus))
	assert.True(t, task.IsLocal())
	assert.Nil(t, (&ledger.Task{}).Latest())
}

func TestValidateAppend(t *testing.T) {
	assert.ErrorIs(t, ledger.ValidateAppend("", ledger.Focus, time.Second), apperr.ErrValidation)
	assert.ErrorIs(t, ledger.ValidateAppend("s", "NAP", time.Second), apperr.ErrValidation)
	assert.ErrorIs(t, ledger.ValidateAppend("s", ledger.Focus, 0), apperr.ErrValidation)
	assert.ErrorIs(t, ledger.ValidateAppend("s", ledger.Focus, time.Microsecond), apperr.ErrValidation)
	assert.NoError(t, ledger.ValidateAppend("s", ledger.Break, time.Millisecond))
}
