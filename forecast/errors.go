package forecast

import "errors"

// Error kinds surfaced by the service. Handlers map these to HTTP statuses
// with errors.Is; everything else is treated as an internal error.
var (
	// ErrInvalidInput marks user-correctable input: unparsable datetimes,
	// inverted ranges, unknown frequencies, oversize ranges.
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelUnavailable marks a missing or unloadable model artifact.
	// The API keeps serving and reports it per request instead of exiting.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrSerialization marks a computed value that cannot be represented
	// in the JSON output (NaN or infinite model output).
	ErrSerialization = errors.New("value not serializable")
)
