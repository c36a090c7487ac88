package main

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolittle/go-sdk/examples/kitchen/dishes"
)

func TestInspect(t *testing.T) {
	r, results := inspect(slog.New(slog.DiscardHandler))
	require.False(t, results.Failed())
	require.Len(t, r.EventTypes, 2)
	require.Len(t, r.Registrations, 1)
	require.Equal(t, dishes.EmbeddingID, r.Registrations[0].EmbeddingID)
	require.JSONEq(t, `{"dish":"","numberOfTimesPrepared":0}`, r.Registrations[0].InitialState)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	require.NotContains(t, string(b), "failures")
}
