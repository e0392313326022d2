package domain

import "errors"

// ErrNotFound is returned when the requested resource does not exist, or when
// the caller is not allowed to know whether it exists (unauthorized reads are
// deliberately reported as not-found so existence is never leaked).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing required field, end date before start date, unknown item type).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the caller is authenticated and the resource
// exists, but the operation requires rights the caller lacks.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyExists is returned when creating something that is already there,
// such as sharing a trip with a user it is already shared with.
// Handlers should map this to HTTP 409.
var ErrAlreadyExists = errors.New("already exists")

// ErrConflict is returned by the trip store when a conditional full-aggregate
// save loses a race against a concurrent writer (the stored version advanced
// since the aggregate was read). Handlers should map this to HTTP 409.
var ErrConflict = errors.New("version conflict")

// ErrUpstream is returned when an external data provider (weather, flights)
// fails or is unreachable. It is confined to the search and weather read
// paths and never surfaces from trip mutations.
// Handlers should map this to HTTP 502.
var ErrUpstream = errors.New("upstream unavailable")
