package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and the
// provisioning client return these (optionally wrapped) so services can
// translate them into domain errors.
//
//   - ErrNotFound: record is absent from the projection or cache
//   - ErrConflict: a write raced with another projection refresh
//   - ErrInvalidState: domain is in the wrong state for the operation
//   - ErrUnavailable: backing service (redis, postgres, remote API) is down
//
// For validation errors (bad input, missing fields), use pkg/platform/validation.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
