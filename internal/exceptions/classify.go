package exceptions

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/aws/smithy-go"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNetworkUnavailable
	KindPermissionDenied
	KindServiceUnavailable
	KindNotFound
	KindValidationFailed
)

const DEFAULT_MESSAGE = "An error occurred"

var kindNames = map[Kind]string{
	KindUnknown:            "Unknown",
	KindNetworkUnavailable: "NetworkUnavailable",
	KindPermissionDenied:   "PermissionDenied",
	KindServiceUnavailable: "ServiceUnavailable",
	KindNotFound:           "NotFound",
	KindValidationFailed:   "ValidationFailed",
}

var kindMessages = map[Kind]string{
	KindNetworkUnavailable: "Internet connection problem. Check your network and try again.",
	KindPermissionDenied:   "Access denied. Check the document store configuration.",
	KindServiceUnavailable: "Service temporarily unavailable. Try again in a few moments.",
	KindNotFound:           "The requested item could not be found.",
}

var kindStatusCodes = map[Kind]int{
	KindUnknown:            500,
	KindNetworkUnavailable: 503,
	KindPermissionDenied:   403,
	KindServiceUnavailable: 503,
	KindNotFound:           404,
	KindValidationFailed:   400,
}

var networkKeywords = []string{
	"network",
	"timeout",
	"connexion",
	"offline",
	"internet",
	"fetch failed",
	"network request failed",
	"unable to resolve host",
	"connection refused",
	"no such host",
}

var permissionCodes = map[string]bool{
	"permission-denied":                   true,
	"AccessDeniedException":               true,
	"AccessDenied":                        true,
	"UnrecognizedClientException":         true,
	"InvalidSignatureException":           true,
	"MissingAuthenticationTokenException": true,
	"ExpiredTokenException":               true,
	"AuthorizationError":                  true,
}

var unavailableCodes = map[string]bool{
	"unavailable":                            true,
	"ServiceUnavailable":                     true,
	"ServiceUnavailableException":            true,
	"InternalServerError":                    true,
	"InternalFailure":                        true,
	"ThrottlingException":                    true,
	"Throttling":                             true,
	"ProvisionedThroughputExceededException": true,
	"RequestLimitExceeded":                   true,
	"LimitExceededException":                 true,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

func (k Kind) StatusCode() int {
	if code, ok := kindStatusCodes[k]; ok {
		return code
	}
	return 500
}

// StoreError is a classified failure. Its Error text is the underlying
// error text; Message is the copy meant for people.
type StoreError struct {
	Kind  Kind
	Op    string
	Cause error
}

func (se *StoreError) Error() string {
	return se.Cause.Error()
}

func (se *StoreError) Unwrap() error {
	return se.Cause
}

func (se *StoreError) Message() string {
	return Message(se)
}

func (se *StoreError) ToServiceError() *ServiceError {
	var re RequestError
	if errors.As(se.Cause, &re) {
		return &ServiceError{StatusCode: re.ToServiceError().StatusCode, Cause: se}
	}
	return &ServiceError{StatusCode: se.Kind.StatusCode(), Cause: se}
}

// Wrap classifies err and tags it with the operation that produced it. Errors
// that are already classified are returned untouched.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{
		Kind:  Classify(err),
		Op:    op,
		Cause: err,
	}
}

type codedError interface {
	Code() string
}

func _classifyCode(code string) (Kind, bool) {
	if permissionCodes[code] {
		return KindPermissionDenied, true
	}
	if unavailableCodes[code] {
		return KindServiceUnavailable, true
	}
	if code == "not-found" {
		return KindNotFound, true
	}
	return KindUnknown, false
}

func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var de *net.DNSError
	if errors.As(err, &de) {
		return true
	}
	message := strings.ToLower(err.Error())
	for _, keyword := range networkKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

// Classify maps any failure onto the error taxonomy: typed errors first,
// then error codes, then message keywords.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return KindNotFound
	}
	var ie *InvalidInputError
	if errors.As(err, &ie) {
		return KindValidationFailed
	}
	var ce codedError
	if errors.As(err, &ce) {
		if kind, ok := _classifyCode(ce.Code()); ok {
			return kind
		}
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		if kind, ok := _classifyCode(ae.ErrorCode()); ok {
			return kind
		}
	}
	if IsNetworkError(err) {
		return KindNetworkUnavailable
	}
	return KindUnknown
}

func Message(err error) string {
	if err == nil {
		return DEFAULT_MESSAGE
	}
	if message, ok := kindMessages[Classify(err)]; ok {
		return message
	}
	raw := err.Error()
	var se *StoreError
	if errors.As(err, &se) && se.Cause != nil {
		raw = se.Cause.Error()
	}
	if strings.TrimSpace(raw) == "" {
		return DEFAULT_MESSAGE
	}
	return raw
}
