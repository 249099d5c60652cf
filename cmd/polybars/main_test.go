package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polybars/internal/model"
)

func TestRequestFromFlags(t *testing.T) {
	now := time.Date(2024, 6, 15, 22, 0, 0, 0, time.UTC)

	req, err := requestFromFlags(&flags{ticker: " aapl ", timespan: "Minute", multiplier: 5, from: "2024-01-01", to: "2024-01-20"}, now)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", req.Ticker)
	assert.Equal(t, model.Granularity{Timespan: model.Minute, Multiplier: 5}, req.Granularity)
	assert.Equal(t, "2024-01-01", req.Start.Format(model.DateLayout))
	assert.Equal(t, "2024-01-20", req.End.Format(model.DateLayout))
}

func TestRequestFromFlags_Defaults(t *testing.T) {
	now := time.Date(2024, 6, 15, 22, 0, 0, 0, time.UTC)

	req, err := requestFromFlags(&flags{ticker: "msft", timespan: "day", multiplier: 0}, now)
	require.NoError(t, err)
	assert.Equal(t, "2023-06-16", req.Start.Format(model.DateLayout))
	assert.Equal(t, "2024-06-15", req.End.Format(model.DateLayout))
	assert.Equal(t, 1, req.Granularity.Multiplier)
}

func TestRequestFromFlags_Invalid(t *testing.T) {
	now := time.Now()
	_, err := requestFromFlags(&flags{ticker: "x", timespan: "second"}, now)
	assert.Error(t, err)
	_, err = requestFromFlags(&flags{ticker: "x", timespan: "day", from: "01/01/2024"}, now)
	assert.Error(t, err)
	_, err = requestFromFlags(&flags{ticker: "x", timespan: "day", to: "2024-02-30"}, now)
	assert.Error(t, err)
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "ticker", "from", "to", "timespan", "multiplier", "format", "out", "no-export", "interactive"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
