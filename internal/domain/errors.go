package domain

import "errors"

var (
	// Upstream fetch failures, one sentinel per failure kind.
	ErrNetwork           = errors.New("upstream request failed")
	ErrUpstreamHTTP      = errors.New("upstream returned non-success status")
	ErrMalformedResponse = errors.New("upstream response is not valid JSON")
	ErrUpstreamLogic     = errors.New("upstream returned unsuccessful payload")

	ErrRateNotFound        = errors.New("rate not found")
	ErrCurrencyUnsupported = errors.New("currency not supported")
)
