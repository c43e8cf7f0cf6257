package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := OKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		Email  string `validate:"required,email"`
		RoomID string `validate:"uuid"`
		Guests int    `validate:"min=5"`
	}

	err := validator.New().Struct(TestStruct{Email: "nope", RoomID: "abc", Guests: 2})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email")
	assert.Contains(t, resp.Error, "field RoomID can contain only uuid")
	assert.Contains(t, resp.Error, "field Guests must be at least 5")
}

func TestFail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	Fail(rec, req, http.StatusConflict, "fully booked")

	assert.Equal(t, http.StatusConflict, rec.Code)
	var got ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, ErrorResponse{Status: StatusError, Error: "fully booked"}, got)
}

func TestInvalid(t *testing.T) {
	type TestStruct struct {
		Name string `validate:"required"`
	}

	t.Run("validation errors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()

		Invalid(rec, req, validator.New().Struct(TestStruct{}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "field Name is a required field")
	})

	t.Run("other error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()

		Invalid(rec, req, errors.New("boom"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
