package dns

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/googleapi"
)

// fixedRetry returns a constant-interval retry policy bounded by deadline
// and cancellable through ctx. The reference behavior retried forever with a
// fixed sleep; the bound turns a provider outage into a reported timeout
// instead of a hang.
func fixedRetry(ctx context.Context, interval, deadline time.Duration) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.MaxInterval = interval
	b.Multiplier = 1
	b.RandomizationFactor = 0
	b.MaxElapsedTime = deadline
	return backoff.WithContext(b, ctx)
}

// retryableProviderError classifies control-plane failures: client errors
// are permanent (4xx, except 429), everything else — network failures, 429,
// 5xx — is worth retrying until the deadline.
func retryableProviderError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return true
		}
		return apiErr.Code < 400 || apiErr.Code >= 500
	}
	return true
}
