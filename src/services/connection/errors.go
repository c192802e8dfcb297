package connection

const (
	CodePaginationError      = "PAGINATION_ERROR"
	CodePaginationTypeError  = "PAGINATION_TYPE_ERROR"
	CodePaginationRangeError = "PAGINATION_RANGE_ERROR"
	CodeLoadError            = "LOAD_ERROR"
)

// userError carries a localized message safe to show to the caller. The
// GraphQL layer exposes Extensions on the error response.
type userError struct {
	message string
	code    string
}

func (e userError) Error() string {
	return e.message
}

func (e userError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func (e userError) Code() string {
	return e.code
}

// PaginationError reports a missing or conflicting first/last pair.
type PaginationError struct{ userError }

// PaginationTypeError reports a first/last value that is not a number.
type PaginationTypeError struct{ userError }

// PaginationRangeError reports a first/last value outside 0..100.
type PaginationRangeError struct{ userError }

// LoadError hides a database or cursor failure behind a generic message.
type LoadError struct{ userError }

func newPaginationError(message string) *PaginationError {
	return &PaginationError{userError{message: message, code: CodePaginationError}}
}

func newPaginationTypeError(message string) *PaginationTypeError {
	return &PaginationTypeError{userError{message: message, code: CodePaginationTypeError}}
}

func newPaginationRangeError(message string) *PaginationRangeError {
	return &PaginationRangeError{userError{message: message, code: CodePaginationRangeError}}
}

func NewLoadError(message string) *LoadError {
	return &LoadError{userError{message: message, code: CodeLoadError}}
}
