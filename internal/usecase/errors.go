package usecase

const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeInvalidField         = "INVALID_FIELD"
	CodeNotFound             = "NOT_FOUND"
	CodeSyncInProgress       = "SYNC_IN_PROGRESS"
	CodeShopifyNotConfigured = "SHOPIFY_NOT_CONFIGURED"
	CodeUpstream             = "UPSTREAM_ERROR"
	CodeDatabase             = "DATABASE_ERROR"
	CodeQueue                = "QUEUE_ERROR"
)

// DomainError is caused by the caller: bad input, missing rows, conflicts.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

// TechnicalError wraps an infrastructure failure.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func notFound(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func invalid(msg string) error {
	return &DomainError{Code: CodeValidation, Message: msg}
}

func dbError(msg string, err error) error {
	return &TechnicalError{Code: CodeDatabase, Message: msg, Err: err}
}
