package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemBody struct {
	ProductID string `json:"productoId" validate:"required,uuid"`
	Quantity  int    `json:"cantidad" validate:"required,gte=1"`
	Note      string `json:"nota" validate:"omitempty,max=10"`
}

func postJSON(body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/carrito/agregar", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeProduct bool, includeQuantity bool) bool {
			reqMap := map[string]interface{}{}
			if includeProduct {
				reqMap["productoId"] = "0f8fad5b-d9cb-469f-a165-70867728950e"
			}
			if includeQuantity {
				reqMap["cantidad"] = 2
			}

			body, _ := json.Marshal(reqMap)
			var v addItemBody
			err := DecodeAndValidate(postJSON(body), &v)

			if includeProduct && includeQuantity {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_QuantityBelowOneRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quantities below one fail with a field error on cantidad", prop.ForAll(
		func(qty int) bool {
			body, _ := json.Marshal(map[string]interface{}{
				"productoId": "0f8fad5b-d9cb-469f-a165-70867728950e",
				"cantidad":   qty,
			})
			var v addItemBody
			err := DecodeAndValidate(postJSON(body), &v)
			if err == nil {
				return false
			}
			errs := FormatValidationErrors(err)
			return len(errs) == 1 && errs[0].Field == "cantidad" && errs[0].Message != ""
		},
		gen.IntRange(-1000, 0),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeJSON_Errors(t *testing.T) {
	var v addItemBody

	err := DecodeAndValidate(postJSON(nil), &v)
	assert.ErrorIs(t, err, ErrEmptyBody)

	err = DecodeAndValidate(postJSON([]byte(`{"cantidad":`)), &v)
	require.Error(t, err)
	assert.Empty(t, FormatValidationErrors(err))

	err = DecodeAndValidate(postJSON([]byte(`{"productoId":"nope","cantidad":1}`)), &v)
	errs := FormatValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "productoId", errs[0].Field)
	assert.Equal(t, "Invalid identifier", errs[0].Message)
}

func TestRespondWithDecodeError(t *testing.T) {
	var v addItemBody
	err := DecodeAndValidate(postJSON([]byte(`{"productoId":"0f8fad5b-d9cb-469f-a165-70867728950e","cantidad":1,"nota":"`+strings.Repeat("x", 20)+`"}`)), &v)
	require.Error(t, err)

	w := httptest.NewRecorder()
	RespondWithDecodeError(w, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_errors")

	w = httptest.NewRecorder()
	RespondWithDecodeError(w, ErrEmptyBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}
