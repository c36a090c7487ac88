package embeddings

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryTimeout(t *testing.T) {
	for attempt := 1; attempt <= 20; attempt++ {
		want := time.Duration(min(5*attempt, 60)) * time.Second
		require.Equal(t, want, RetryTimeout(attempt), "attempt %d", attempt)
	}
	require.Equal(t, 5*time.Second, RetryTimeout(0))
	require.Equal(t, time.Minute, RetryTimeout(1<<40))
}

func TestFailureResponse(t *testing.T) {
	err := errors.New("oven is broken")

	t.Run("terminal without retry state", func(t *testing.T) {
		resp := failureResponse(Request{}, err)
		require.True(t, resp.Failed())
		require.Nil(t, resp.ProcessorFailure)
		require.Equal(t, "oven is broken", resp.Failure.Reason)
	})

	t.Run("retryable with retry state", func(t *testing.T) {
		resp := failureResponse(Request{RetryProcessingState: &RetryProcessingState{RetryCount: 2}}, err)
		require.Nil(t, resp.Failure)
		require.Equal(t, "oven is broken", resp.ProcessorFailure.Reason)
		require.True(t, resp.ProcessorFailure.Retry)
		require.Equal(t, 15*time.Second, resp.ProcessorFailure.RetryTimeout.Std())
	})
}
