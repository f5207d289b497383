package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteForm struct {
	CourseName  string `validate:"required,min=3"`
	Description string `validate:"required,min=10"`
	Sort        string `validate:"omitempty,oneof=date title"`
}

func TestFromValidationError(t *testing.T) {
	err := validator.New().Struct(&noteForm{CourseName: "ab", Sort: "size"})
	require.Error(t, err)

	structured := FromValidationError(err)
	require.NotNil(t, structured)

	assert.Equal(t, http.StatusBadRequest, structured.Code())
	assert.Equal(t, []string{"Value is too short, min: 3"}, structured.Errors["CourseName"])
	assert.Equal(t, []string{"This field is required"}, structured.Errors["Description"])
	assert.Equal(t, []string{"Value must be one of: date title"}, structured.Errors["Sort"])
}

func TestFromValidationError_OtherErrors(t *testing.T) {
	assert.Nil(t, FromValidationError(errors.New("boom")))
}

func TestNewFileTooLargeError(t *testing.T) {
	apierr := NewFileTooLargeError(5 * 1024 * 1024)

	assert.Equal(t, http.StatusBadRequest, apierr.Code())
	assert.Equal(t, "File size must be less than 5.0 MiB", apierr.Message)
}

func TestNewInvalidFileExtError(t *testing.T) {
	assert.Equal(t, "File extension '.exe' is not allowed", NewInvalidFileExtError(".exe").Message)
	assert.Equal(t, "File must have an extension", NewInvalidFileExtError("").Message)
}
