package embeddings

import (
	"time"

	"github.com/dolittle/go-sdk/core/reversecall"
)

const (
	retryStep       = 5 * time.Second
	maxRetryTimeout = time.Minute
)

// RetryTimeout is how long the runtime waits before the given retry attempt:
// five seconds per attempt, at most one minute. Attempts start at 1.
func RetryTimeout(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt >= int(maxRetryTimeout/retryStep) {
		return maxRetryTimeout
	}
	return time.Duration(attempt) * retryStep
}

// failureResponse turns err into a retryable processor failure when the
// runtime is retrying the request, and into a terminal failure otherwise.
func failureResponse(req Request, err error) Response {
	if req.RetryProcessingState == nil {
		return Response{Failure: &reversecall.Failure{Reason: err.Error()}}
	}
	attempt := int(req.RetryProcessingState.RetryCount) + 1
	return Response{ProcessorFailure: &ProcessorFailure{
		Reason:       err.Error(),
		Retry:        true,
		RetryTimeout: reversecall.Duration(RetryTimeout(attempt)),
	}}
}
