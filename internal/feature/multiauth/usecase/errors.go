// Package usecase implements the business logic for the multiauth feature.
package usecase

import "errors"

// ErrRecordNotFound is returned by a RecordStore when no row matches.
var ErrRecordNotFound = errors.New("record not found")
