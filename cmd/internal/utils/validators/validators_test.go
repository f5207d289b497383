package validators

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	FirstName string `json:"firstName" validate:"required,personname"`
	Password  string `json:"password" validate:"required,min=8,hasupper,haslower,hasdigit"`
}

func TestPasswordTags(t *testing.T) {
	validate := New()

	tests := []struct {
		password string
		failTag  string
	}{
		{password: "Test123!", failTag: ""},
		{password: "test1234", failTag: "hasupper"},
		{password: "TEST1234", failTag: "haslower"},
		{password: "Testtest", failTag: "hasdigit"},
		{password: "Te1", failTag: "min"},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := validate.Struct(&signup{FirstName: "Ana", Password: tt.password})
			if tt.failTag == "" {
				assert.NoError(t, err)
				return
			}

			var ve validator.ValidationErrors
			require.True(t, errors.As(err, &ve))
			require.Len(t, ve, 1)
			assert.Equal(t, tt.failTag, ve[0].Tag())
			assert.Equal(t, "password", ve[0].Field(), "fields are reported by their JSON name")
		})
	}
}

func TestPersonName(t *testing.T) {
	validate := New()

	for _, name := range []string{"Ana", "José María", "Zoë"} {
		assert.NoError(t, validate.Struct(&signup{FirstName: name, Password: "Test123!"}), name)
	}

	for _, name := range []string{"R2D2", "Ana-Maria", "bob_smith"} {
		assert.Error(t, validate.Struct(&signup{FirstName: name, Password: "Test123!"}), name)
	}
}
