package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// FromBinding classifies an error returned by gin's ShouldBind helpers as a
// client error. Only binding errors belong here: io.EOF and
// io.ErrUnexpectedEOF mean a truncated request body at this point, but a
// dropped connection anywhere else.
func FromBinding(err error) *AppError {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		appErr := InvalidFields(issuesFromValidator(fieldErrs))
		appErr.Raw = err
		return appErr
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return Wrap(err, BadRequestError, "request body has the wrong type")
		}
		appErr := InvalidFields(Issues{
			typeErr.Field: {fmt.Sprintf("must be of type %s", jsonKind(typeErr.Type.Kind().String()))},
		})
		appErr.Raw = err
		return appErr
	}

	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return Wrap(err, BadRequestError, "request body is not valid JSON")
	}
	if stderrors.Is(err, io.EOF) {
		return Wrap(err, BadRequestError, "request body is required")
	}

	var numErr *strconv.NumError
	if stderrors.As(err, &numErr) {
		return Wrap(err, BadRequestError, fmt.Sprintf("invalid numeric value %q", numErr.Num))
	}

	return Wrap(err, BadRequestError, "request could not be parsed")
}
