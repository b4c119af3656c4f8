package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required,min=4"`
}

func TestTranslateValidatorError(t *testing.T) {
	validate := validator.New()
	uni := ut.New(en.New(), en.New())
	trans, _ := uni.GetTranslator("en")
	require.NoError(t, enTranslations.RegisterDefaultTranslations(validate, trans))

	err := validate.Struct(credentials{Password: "abc"})
	require.Error(t, err)

	translated := TranslateValidatorError(err, trans)
	assert.Equal(t,
		"Password must be at least 4 characters in length Username is a required field",
		translated.Error())
}

func TestTranslateValidatorErrorPassthrough(t *testing.T) {
	err := errors.New("boom")
	assert.Same(t, err, TranslateValidatorError(err, nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("schemas/missing.json")))
	assert.Equal(t, "'schemas/missing.json' not found", NewNotFoundError("schemas/missing.json").Error())
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", NewNotFoundError("missing"))))
	assert.False(t, IsNotFound(NewResponseError(http.StatusConflict, "schemas/dataElement", nil)))
}

func TestResponseError(t *testing.T) {
	err := NewResponseError(http.StatusConflict, "schemas/dataElement", []byte(`{"status":"ERROR"}`))
	assert.Equal(t, `request to 'schemas/dataElement' failed with status 409: {"status":"ERROR"}`, err.Error())
	assert.Equal(t, "request to 'analytics.json' failed with status 500",
		NewResponseError(http.StatusInternalServerError, "analytics.json", nil).Error())
}
