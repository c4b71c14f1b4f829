package domain

import "errors"

// Business errors (mapped to HTTP codes at the transport boundary)
var (
	ErrBadRequest = errors.New("bad_request")      // 400: validation, duplicate email
	ErrNotFound   = errors.New("not_found")        // 404: referenced entity absent
	ErrConflict   = errors.New("conflict")         // 409: duplicate association, blocked delete
	ErrExternal   = errors.New("external_service") // 503: blob store unreachable or inconsistent
	ErrUnexpected = errors.New("unexpected")       // 500
)
