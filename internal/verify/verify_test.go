package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/tweetsim/internal/domain"
)

var author = domain.User{ID: "u-1", Name: "Jim Bob", ScreenName: "JimBob"}

func tw(id, text string) domain.Tweet {
	return domain.Tweet{CreatedAt: "2026-10-19 10:00:00.000000", ID: id, Text: text, User: author}
}

func batches(sets ...[]domain.Tweet) []domain.Batch {
	out := make([]domain.Batch, len(sets))
	for i, s := range sets {
		out[i] = domain.Batch{Number: i + 1, Tweets: s}
	}
	return out
}

func validRun() []domain.Batch {
	n1 := tw("n1", "not deleted 1 / 3")
	n2 := tw("n2", "not deleted 2 / 3")
	n3 := tw("n3", "not deleted 3 / 3")
	d1 := tw("d1", "deleted 1 / 2")
	d2 := tw("d2", "deleted 2 / 2")
	return batches(
		[]domain.Tweet{d1, n1},
		[]domain.Tweet{n1, d2, n2, d1},
		[]domain.Tweet{n1, n2, n3},
	)
}

func TestCheck_Valid(t *testing.T) {
	report, err := Check(validRun())
	require.NoError(t, err)

	assert.Equal(t, 3, report.NumBatches)
	assert.Equal(t, 3, report.NonDeleted)
	assert.Equal(t, 2, report.Deleted)
	assert.Equal(t, author, report.Author)
	assert.Equal(t, map[string]domain.DeletionInterval{
		"d1": {AppearedIn: 0, DeletedFrom: 2},
		"d2": {AppearedIn: 1, DeletedFrom: 2},
	}, report.Intervals)
}

func TestCheck_NoDeletions(t *testing.T) {
	n1 := tw("n1", "not deleted 1 / 2")
	n2 := tw("n2", "not deleted 2 / 2")
	report, err := Check(batches([]domain.Tweet{n1}, []domain.Tweet{n2, n1}))
	require.NoError(t, err)
	assert.Equal(t, 2, report.NonDeleted)
	assert.Zero(t, report.Deleted)
	assert.Empty(t, report.Intervals)
}

func TestCheck_Violations(t *testing.T) {
	n1 := tw("n1", "not deleted 1 / 1")
	d1 := tw("d1", "deleted 1 / 1")

	tests := []struct {
		name    string
		batches []domain.Batch
		wantMsg string
		wantErr error
	}{
		{
			name:    "single batch",
			batches: batches([]domain.Tweet{n1}),
			wantMsg: "at least 2 batches",
		},
		{
			name: "misnumbered batch",
			batches: []domain.Batch{
				{Number: 1, Tweets: []domain.Tweet{n1}},
				{Number: 3, Tweets: []domain.Tweet{n1}},
			},
			wantMsg: "numbered 3",
		},
		{
			name:    "non-deleted tweet vanishes",
			batches: batches([]domain.Tweet{n1}, []domain.Tweet{}, []domain.Tweet{n1}),
			wantMsg: "missing from 1 later batches",
		},
		{
			name:    "deleted tweet in last batch",
			batches: batches([]domain.Tweet{n1}, []domain.Tweet{n1, d1}),
			wantMsg: "still present in the last batch",
		},
		{
			name:    "deleted tweet reappears",
			batches: batches([]domain.Tweet{n1, d1}, []domain.Tweet{n1}, []domain.Tweet{n1, d1}, []domain.Tweet{n1}),
			wantMsg: "reappears",
		},
		{
			name:    "wrong total",
			batches: batches([]domain.Tweet{tw("n1", "not deleted 1 / 2")}, []domain.Tweet{tw("n1", "not deleted 1 / 2")}),
			wantMsg: "claim a total of 2, found 1",
		},
		{
			name: "duplicate sequence",
			batches: batches(
				[]domain.Tweet{tw("a", "not deleted 1 / 2"), tw("b", "not deleted 1 / 2")},
				[]domain.Tweet{tw("a", "not deleted 1 / 2"), tw("b", "not deleted 1 / 2")},
			),
			wantMsg: "sequence 1 used by tweets a and b",
		},
		{
			name:    "listed twice",
			batches: batches([]domain.Tweet{n1, n1}, []domain.Tweet{n1}),
			wantMsg: "listed twice",
		},
		{
			name:    "author changes",
			batches: batches([]domain.Tweet{n1}, []domain.Tweet{{ID: "n1", Text: "not deleted 1 / 1", User: domain.User{ID: "other"}}}),
			wantMsg: "run author",
		},
		{
			name:    "text changes",
			batches: batches([]domain.Tweet{n1}, []domain.Tweet{tw("n1", "deleted 1 / 1")}),
			wantMsg: "changed text",
		},
		{
			name:    "malformed label",
			batches: batches([]domain.Tweet{tw("x", "hello")}, []domain.Tweet{}),
			wantErr: domain.ErrMalformedLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Check(tt.batches)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvariant)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
