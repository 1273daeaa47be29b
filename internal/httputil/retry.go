// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the search client and
// the content fetcher.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// throttled responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 3 * time.Second

const defaultMaxRetries = 3

// Retryable reports whether a response asks the caller to come back later.
// arXiv answers 503 with Retry-After when overloaded and 429 when throttling.
func Retryable(resp *http.Response, err error) bool {
	if err != nil || resp == nil {
		return false
	}
	return resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode == http.StatusServiceUnavailable
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 and 503 with
// exponential backoff starting at RetryBaseDelay.
//
// When maxRetries is 0 the default (3) is used. Transport errors are not
// retried. The body of every superseded response is drained and closed. If
// the context is cancelled during a backoff wait the function returns
// ctx.Err(). After exhausting retries the last throttled response is
// returned so the caller can inspect it.
//
//nolint:bodyclose // *http.Response is a type parameter here
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	policy := retrypolicy.NewBuilder[*http.Response]().
		HandleIf(Retryable).
		WithBackoff(RetryBaseDelay, RetryBaseDelay*16).
		WithMaxRetries(maxRetries).
		ReturnLastFailure().
		Build()

	var prev *http.Response
	resp, err := failsafe.With(policy).WithContext(ctx).Get(func() (*http.Response, error) {
		if prev != nil {
			io.Copy(io.Discard, prev.Body)
			prev.Body.Close()
			prev = nil
		}
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		prev = resp
		return resp, nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		if prev != nil {
			prev.Body.Close()
		}
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
