package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError    = NewSimple(400, "Malformed request body")
	InternalServerError   = NewSimple(500, "Internal server error")
	InvalidMediaTypeError = NewSimple(415, "Unsupported media type")

	NotFoundError         = NewSimple(404, "Resource not found")
	NoteNotFoundError     = NewSimple(404, "Note not found")
	ArchivedNotFoundError = NewSimple(404, "Archived note not found")
	NoteIDMismatchError   = NewSimple(400, "Note ID in body does not match the route")

	/*
	 * Used for uploads
	 */
	MissingFileError     = NewSimple(400, "No file selected")
	MissingFileNameError = NewSimple(400, "File name cannot be empty")
	FileUploadError      = NewSimple(500, "File upload failed")

	/*
	 * Used for authentications
	 */
	UnauthorizedError        = NewSimple(401, "Authentication required")
	InvalidAuthTokenError    = NewSimple(401, "Invalid or expired token")
	UserNotFoundError        = NewSimple(401, "User no longer exists")
	CredentialsMismatchError = NewSimple(401, "Invalid email or password")
	EmailTakenError          = NewSimple(400, "Email already exists")
	OwnerMismatchError       = NewSimple(403, "Notes can only be assigned to the authenticated user")
)

// FromValidationError maps validator errors into field-level problems. Field
// names are whatever the validator reports, which is the JSON name once
// a tag name func is registered.
func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := fe.Field()

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "hasupper":
			problems[field] = append(problems[field], "Value must have at least one uppercase character")
		case "haslower":
			problems[field] = append(problems[field], "Value must have at least one lowercase character")
		case "hasdigit":
			problems[field] = append(problems[field], "Value must have at least one number")
		case "personname":
			problems[field] = append(problems[field], "Value must contain only letters and spaces")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "startswith":
			problems[field] = append(problems[field], "Value must start with "+fe.Param())
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewMissingParamError(name string) *APIError {
	return NewSimple(http.StatusBadRequest, "Missing required parameter '%s'", name)
}

func NewFileTooLargeError(maxBytes int64) *APIError {
	return NewSimple(http.StatusBadRequest, "File size must be less than %s", humanize.IBytes(uint64(maxBytes)))
}

func NewInvalidFileExtError(ext string) *APIError {
	if ext == "" {
		return NewSimple(http.StatusBadRequest, "File must have an extension")
	}
	return NewSimple(http.StatusBadRequest, "File extension '%s' is not allowed", ext)
}
