package customer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-lapak/internal/customer"
)

// postCustomer runs a create request against a handler with a nil store;
// validation rejects the body before any query runs.
func postCustomer(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := &customer.Handler{Validate: validator.New()}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chi.NewRouteContext()))

	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestCreateRejectsMissingFirstName(t *testing.T) {
	rec := postCustomer(t, `{"last_name":"Ondricka"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "VALIDATION", payload.Error.Code)
}

func TestCreateRejectsMissingLastName(t *testing.T) {
	rec := postCustomer(t, `{"first_name":"Joey"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	rec := postCustomer(t, `{"first_name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
