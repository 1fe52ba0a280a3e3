package errx

// Type represents the category of error
type Type string

const (
	// TypeInternal represents internal server errors
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents malformed input (bad-request)
	TypeValidation Type = "VALIDATION"

	// TypeAuthorization represents missing, invalid or insufficient credentials
	TypeAuthorization Type = "AUTHORIZATION"

	// TypeNotFound represents resource not found errors
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict represents resource conflict errors
	TypeConflict Type = "CONFLICT"

	// TypeBusiness covers invalid credentials and invalid state transitions
	TypeBusiness Type = "BUSINESS"

	// TypeExternal represents errors from upstream providers
	TypeExternal Type = "EXTERNAL"

	// TypeUnavailable represents stale or rejected-for-load requests
	TypeUnavailable Type = "UNAVAILABLE"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}

// typeToHTTPStatus maps error types to HTTP status codes
func typeToHTTPStatus(t Type) int {
	switch t {
	case TypeValidation:
		return 400
	case TypeAuthorization:
		return 401
	case TypeNotFound:
		return 404
	case TypeConflict:
		return 409
	case TypeBusiness:
		return 422
	case TypeExternal:
		return 502
	case TypeUnavailable:
		return 503
	default:
		return 500
	}
}
