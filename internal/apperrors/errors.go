package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidTransition indicates a status change that the document lifecycle does not permit.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConflict indicates a concurrent write lost a race (stale version, duplicate number,
// serialization failure). The caller should reload and retry.
var ErrConflict = errors.New("conflicting update")

// ErrGeneration indicates that a document number could not be allocated, either because the
// yearly sequence is exhausted or because stored sequence data is corrupt.
var ErrGeneration = errors.New("document number generation failed")
