package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFetchTimeout        = errors.New("fetch timed out")
	ErrPayloadTooLarge     = errors.New("payload exceeds size limit")
	ErrDecode              = errors.New("image could not be decoded")
	ErrSourceUnreachable   = errors.New("feed source unreachable")
	ErrProductNotFound     = errors.New("product not found")
	ErrNoImages            = errors.New("product has no images")
	ErrResolverUnavailable = errors.New("image url resolver not configured")
	ErrUnauthenticated     = errors.New("missing or invalid bearer credential")
	ErrTokenNotFound       = errors.New("auth token not found")
)

// StatusError reports a non-successful upstream response during a fetch.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code on fetch: %d", e.Code)
}
