package poller_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redec10/river-monitor/internal/adapter/form"
	"github.com/redec10/river-monitor/internal/config"
	"github.com/redec10/river-monitor/internal/domain"
	"github.com/redec10/river-monitor/internal/poller"
)

type fakeFetcher struct {
	observations map[string]*domain.Observation
	errs         map[string]error
}

func (f *fakeFetcher) FetchLatest(_ context.Context, ref string) (*domain.Observation, error) {
	if err := f.errs[ref]; err != nil {
		return nil, err
	}
	return f.observations[ref], nil
}

type fakeSubmitter struct {
	batches [][]form.Entry
}

func (f *fakeSubmitter) SubmitBatch(_ context.Context, entries []form.Entry) []form.Result {
	f.batches = append(f.batches, entries)
	results := make([]form.Result, len(entries))
	for i, e := range entries {
		results[i] = form.Result{Entry: e}
	}
	return results
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func TestPoller_RunOnce(t *testing.T) {
	stations := []config.Station{
		{RiverID: "R1", MunicipalityID: "M1", Ref: "45902"},
		{RiverID: "R1", MunicipalityID: "M2", Ref: "45910"},
		{RiverID: "R2", MunicipalityID: "M3", Ref: "45977"},
	}

	t.Run("collects observations into one batch", func(t *testing.T) {
		fetcher := &fakeFetcher{observations: map[string]*domain.Observation{
			"45902": {Level: 142.5, Date: "2024-03-02", Time: "06:00"},
			"45910": {Level: 98.0, Date: "2024-03-02", Time: "06:15"},
			"45977": {Level: 310.2, Date: "2024-03-02", Time: "05:45"},
		}}
		submitter := &fakeSubmitter{}
		p := poller.New(fetcher, submitter, stations, testLogger())

		require.False(t, p.Ready())
		require.NoError(t, p.RunOnce(context.Background()))
		assert.True(t, p.Ready())

		require.Len(t, submitter.batches, 1)
		batch := submitter.batches[0]
		require.Len(t, batch, 3)
		assert.Equal(t, "M1", batch[0].MunicipalityID)
		assert.Equal(t, 142.5, *batch[0].Level)
		assert.Equal(t, "2024-03-02", batch[0].Date)
	})

	t.Run("dead station does not block the rest", func(t *testing.T) {
		fetcher := &fakeFetcher{
			observations: map[string]*domain.Observation{
				"45902": {Level: 142.5, Date: "2024-03-02", Time: "06:00"},
				"45977": {Level: 310.2, Date: "2024-03-02", Time: "05:45"},
			},
			errs: map[string]error{"45910": errors.New("connection refused")},
		}
		submitter := &fakeSubmitter{}
		p := poller.New(fetcher, submitter, stations, testLogger())

		require.NoError(t, p.RunOnce(context.Background()))
		require.Len(t, submitter.batches, 1)
		assert.Len(t, submitter.batches[0], 2)
	})

	t.Run("empty stations skipped without submission", func(t *testing.T) {
		fetcher := &fakeFetcher{observations: map[string]*domain.Observation{}}
		submitter := &fakeSubmitter{}
		p := poller.New(fetcher, submitter, stations, testLogger())

		require.NoError(t, p.RunOnce(context.Background()))
		assert.Empty(t, submitter.batches)
		assert.True(t, p.Ready())
	})

	t.Run("no stations configured", func(t *testing.T) {
		submitter := &fakeSubmitter{}
		p := poller.New(&fakeFetcher{}, submitter, nil, testLogger())

		require.NoError(t, p.RunOnce(context.Background()))
		assert.Empty(t, submitter.batches)
		assert.True(t, p.Ready())
	})

	t.Run("cancelled context stops the cycle", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		submitter := &fakeSubmitter{}
		p := poller.New(&fakeFetcher{}, submitter, stations, testLogger())

		require.ErrorIs(t, p.RunOnce(ctx), context.Canceled)
		assert.Empty(t, submitter.batches)
		assert.False(t, p.Ready())
	})
}
