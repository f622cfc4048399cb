// Package errors provides error handling for xstitch.
//
// It re-exports github.com/cockroachdb/errors and defines the sentinel
// errors that classify pipeline failures. Stage errors are marked with one
// of the sentinels so callers can match them with Is regardless of how much
// context was wrapped around them:
//
//	if errors.Is(err, errors.ErrEmptyPalette) {
//	    // no reference colours to snap to
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping.
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details.
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Error inspection.
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Pipeline failure classes.
var (
	// ErrPaletteLoad reports a missing or malformed reference palette file.
	ErrPaletteLoad = New("palette load failed")

	// ErrEmptyPalette reports that no reference colours are available.
	ErrEmptyPalette = New("reference palette is empty")

	// ErrDuplicateEntry reports two palette entries sharing an identifier.
	ErrDuplicateEntry = New("duplicate palette identifier")

	// ErrInvalidClusterCount reports a cluster count below one.
	ErrInvalidClusterCount = New("invalid cluster count")

	// ErrImageDecode reports an image that could not be read or decoded.
	ErrImageDecode = New("image decode failed")

	// ErrEmptyAlphabet reports that glyphs are needed but none were supplied.
	ErrEmptyAlphabet = New("symbol alphabet is empty")

	// ErrInvalidAssignment reports a per-pixel cluster assignment that does
	// not match the grid or the cluster table.
	ErrInvalidAssignment = New("invalid cluster assignment")
)

// Classify marks err with the given failure class so that Is(err, class)
// holds, while keeping err's own message and stack.
func Classify(err, class error) error {
	if err == nil {
		return nil
	}
	return Mark(err, class)
}
