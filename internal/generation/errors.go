package generation

import "errors"

// Exactly these error categories may cross the generator boundary. The
// orchestrator mints them; callers map them to transport responses and
// must not see any other error type.
var (
	// ErrTimeout is returned when the upstream call exceeds the configured
	// ceiling. Callers may retry.
	ErrTimeout = errors.New("generation timed out waiting for the language model")

	// ErrGateway is returned when the upstream returns an error or an
	// unclassified failure occurs. Callers may retry.
	ErrGateway = errors.New("language model gateway error")

	// ErrServiceUnavailable is returned when the upstream reports transient
	// unavailability. Callers should retry after a delay.
	ErrServiceUnavailable = errors.New("language model service unavailable")

	// ErrNoSuggestions is returned when the upstream responded successfully
	// but produced zero usable suggestions after filtering.
	ErrNoSuggestions = errors.New("no suggestions generated")

	// ErrInvalidConfig is returned when the generator configuration is
	// invalid. It is surfaced at construction time, never per request.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// ErrorCode returns a short stable identifier for a generator error
// category, used for generation log entries and metrics attributes.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrServiceUnavailable):
		return "unavailable"
	case errors.Is(err, ErrNoSuggestions):
		return "no_suggestions"
	case errors.Is(err, ErrGateway):
		return "gateway"
	default:
		return "unknown"
	}
}
