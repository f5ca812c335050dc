// Package domain defines domain-level errors for the tickers feature.
package domain

import "errors"

// Domain errors for resolving ticker data.
// All of them abort the resolution of a single symbol; none of them are cached,
// so a later lookup retries the whole pipeline.
var (
	// ErrProviderFailed indicates that the external provider returned nothing usable
	// (an error, no rows, or rows without the base OHLCV columns).
	ErrProviderFailed = errors.New("provider returned no usable data")

	// ErrDirectoryCreate indicates that the parent directory of a tier file
	// could not be created or verified after creation.
	ErrDirectoryCreate = errors.New("failed to create directory")

	// ErrNilCollaborator is returned at construction time when a required
	// collaborator (provider, feature transformer, deriver, store) is missing.
	ErrNilCollaborator = errors.New("required collaborator is nil")

	// ErrEmptySymbol is returned when a lookup is made with an empty symbol.
	ErrEmptySymbol = errors.New("symbol is empty")
)
