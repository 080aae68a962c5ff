package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
)

func TestValidationHandlerValidAddress(t *testing.T) {
	mockSuppressions := new(MockSuppressionRepository)
	mockSuppressions.On("IsSuppressed", mock.Anything, "ana@clinicavida.com.br").Return(false, nil)

	handler := handlers.NewValidationHandler(mockSuppressions)

	req := httptest.NewRequest("GET", "/api/validate/email?email=ana@clinicavida.com.br", nil)
	w := httptest.NewRecorder()

	handler.HandleEmail(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, true, response["valid"])
	assert.Equal(t, false, response["suppressed"])
}

func TestValidationHandlerSuppressedAddress(t *testing.T) {
	mockSuppressions := new(MockSuppressionRepository)
	mockSuppressions.On("IsSuppressed", mock.Anything, "bounced@example.com").Return(true, nil)

	handler := handlers.NewValidationHandler(mockSuppressions)

	req := httptest.NewRequest("GET", "/api/validate/email?email=bounced@example.com", nil)
	w := httptest.NewRecorder()

	handler.HandleEmail(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, true, response["valid"])
	assert.Equal(t, true, response["suppressed"])
}

func TestValidationHandlerBadSyntax(t *testing.T) {
	mockSuppressions := new(MockSuppressionRepository)
	handler := handlers.NewValidationHandler(mockSuppressions)

	req := httptest.NewRequest("GET", "/api/validate/email?email=not-an-email", nil)
	w := httptest.NewRecorder()

	handler.HandleEmail(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, false, response["valid"])
	// Syntax failures never hit the suppression list.
	mockSuppressions.AssertNotCalled(t, "IsSuppressed")
}

func TestValidationHandlerMissingEmail(t *testing.T) {
	handler := handlers.NewValidationHandler(new(MockSuppressionRepository))

	req := httptest.NewRequest("GET", "/api/validate/email", nil)
	w := httptest.NewRecorder()

	handler.HandleEmail(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
