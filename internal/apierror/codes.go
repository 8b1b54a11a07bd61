package apierror

// Error type URIs following the urn:breathe:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request body validation failed (400)
	TypeValidation = "urn:breathe:error:validation"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:breathe:error:bad_request"

	// TypeInvalidDate indicates a start_date or end_date that cannot be parsed (400)
	TypeInvalidDate = "urn:breathe:error:invalid_date"

	// TypeInvalidTimezone indicates a tz_offset that is not +HH:MM (400)
	TypeInvalidTimezone = "urn:breathe:error:invalid_timezone"

	// TypeInvalidWindow indicates an inverted or oversized analysis window (400)
	TypeInvalidWindow = "urn:breathe:error:invalid_window"

	// TypeSuperseded indicates a newer analysis for the same user started first (409)
	TypeSuperseded = "urn:breathe:error:superseded"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:breathe:error:rate_limit"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:breathe:error:unauthorized"

	// TypeUnavailable indicates the wellness log store could not be reached (503)
	TypeUnavailable = "urn:breathe:error:unavailable"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:breathe:error:internal"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation      = "Validation Error"
	TitleBadRequest      = "Bad Request"
	TitleInvalidDate     = "Invalid Date"
	TitleInvalidTimezone = "Invalid Timezone Offset"
	TitleInvalidWindow   = "Invalid Analysis Window"
	TitleSuperseded      = "Analysis Superseded"
	TitleRateLimit       = "Rate Limit Exceeded"
	TitleUnauthorized    = "Authentication Required"
	TitleUnavailable     = "Service Unavailable"
	TitleInternal        = "Internal Server Error"
)
