package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

const internalServerError = "Internal Server Error"

// Response is the single wire shape of every error the API returns. It is an
// error itself so that an already normalized value can travel through
// c.Error and come out unchanged.
type Response struct {
	Issues     Issues `json:"issues,omitempty"`
	Message    string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

func (r *Response) Error() string {
	return fmt.Sprintf("%d: %s", r.StatusCode, r.Message)
}

// Normalize maps err to its wire representation. internal reports whether the
// error was unrecognized (or a 5xx) and therefore replaced by the generic
// message; callers must log those with full detail.
//
// Request decoding errors are not recognized here. Handlers convert them with
// FromBinding, so an io.ErrUnexpectedEOF from a dropped database connection
// stays internal.
func Normalize(err error) (resp *Response, internal bool) {
	if err == nil {
		return internalResponse(), true
	}

	var normalized *Response
	if stderrors.As(err, &normalized) {
		return normalized, false
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return fromAppError(appErr)
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		return validationResponse(issuesFromValidator(fieldErrs)), false
	}

	return internalResponse(), true
}

func fromAppError(e *AppError) (*Response, bool) {
	status := e.GetHTTPStatus()
	if status >= http.StatusInternalServerError {
		return internalResponse(), true
	}

	if issues := normalizeIssues(e.Issues); len(issues) > 0 {
		resp := validationResponse(issues)
		resp.StatusCode = status
		return resp, false
	}

	msg := e.Message
	if msg == "" {
		msg = strings.Join(nonEmpty(e.Messages), ", ")
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Response{Message: msg, StatusCode: status}, false
}

// normalizeIssues copies issues, dropping blank messages and fields left
// without any.
func normalizeIssues(in Issues) Issues {
	if len(in) == 0 {
		return nil
	}
	out := make(Issues, len(in))
	for field, msgs := range in {
		if kept := nonEmpty(msgs); len(kept) > 0 {
			out[field] = kept
		}
	}
	return out
}

func nonEmpty(msgs []string) []string {
	var out []string
	for _, m := range msgs {
		if strings.TrimSpace(m) != "" {
			out = append(out, m)
		}
	}
	return out
}

func validationResponse(issues Issues) *Response {
	return &Response{
		Issues:     issues,
		Message:    http.StatusText(http.StatusBadRequest),
		StatusCode: http.StatusBadRequest,
	}
}

func internalResponse() *Response {
	return &Response{Message: internalServerError, StatusCode: http.StatusInternalServerError}
}

func issuesFromValidator(errs validator.ValidationErrors) Issues {
	issues := make(Issues, len(errs))
	for _, fe := range errs {
		issues.Add(fe.Field(), describeFieldError(fe))
	}
	return issues
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "notblank":
		return "must not be blank"
	case "urlsafe":
		return "may only contain letters, digits, '-' and '_'"
	case "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}

func jsonKind(goKind string) string {
	switch goKind {
	case "string":
		return "string"
	case "map", "struct":
		return "object"
	case "slice", "array":
		return "array"
	case "bool":
		return "boolean"
	default:
		return "number"
	}
}
