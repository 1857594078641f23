package efipayrepo

import "fmt"

type ErrorKind string

const (
	KindAuth       ErrorKind = "auth"
	KindValidation ErrorKind = "validation"
	KindDuplicate  ErrorKind = "duplicate"
	KindNotFound   ErrorKind = "not_found"
	KindStatus     ErrorKind = "status"
	KindProvider   ErrorKind = "provider"
)

// APIError is a provider failure carried as structured data so call
// sites branch on Kind/Status instead of parsing messages.
type APIError struct {
	Kind   ErrorKind
	Status int
	Nome   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("efipay: %s (%d): %s", e.Nome, e.Status, e.Detail)
	}
	return fmt.Sprintf("efipay: %s (%d)", e.Nome, e.Status)
}

// HTTPStatus maps the provider error onto the status this API answers
// its own callers with.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindAuth:
		return 401
	case KindValidation:
		return 400
	case KindDuplicate:
		return 409
	case KindNotFound:
		return 404
	case KindStatus:
		return 422
	default:
		return 502
	}
}

func kindFor(status int, nome string) ErrorKind {
	switch status {
	case 400:
		return KindValidation
	case 401, 403:
		return KindAuth
	case 404:
		return KindNotFound
	case 409:
		return KindDuplicate
	case 422:
		return KindStatus
	}
	switch nome {
	case "cobranca_duplicada":
		return KindDuplicate
	case "status_cobranca_invalido":
		return KindStatus
	}
	return KindProvider
}
