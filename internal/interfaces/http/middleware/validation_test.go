package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taxProfileRequest struct {
	Subdomain string `json:"subdomain" binding:"omitempty,subdomain"`
	GSTIN     string `json:"gstin" binding:"omitempty,gstin"`
	PAN       string `json:"pan" binding:"omitempty,pan"`
	IFSC      string `json:"bank_ifsc" binding:"omitempty,ifsc"`
}

func validate(t *testing.T, req taxProfileRequest) error {
	t.Helper()
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v.Struct(req)
}

func TestSetupValidator_Subdomain(t *testing.T) {
	assert.NoError(t, validate(t, taxProfileRequest{Subdomain: "acme"}))
	assert.NoError(t, validate(t, taxProfileRequest{Subdomain: "acme-staffing-2"}))

	assert.Error(t, validate(t, taxProfileRequest{Subdomain: "Acme"}))
	assert.Error(t, validate(t, taxProfileRequest{Subdomain: "-acme"}))
	assert.Error(t, validate(t, taxProfileRequest{Subdomain: "acme-"}))
	assert.Error(t, validate(t, taxProfileRequest{Subdomain: "a"}))
}

func TestSetupValidator_TaxIdentifiers(t *testing.T) {
	assert.NoError(t, validate(t, taxProfileRequest{GSTIN: "29ABCDE1234F1Z5"}))
	assert.Error(t, validate(t, taxProfileRequest{GSTIN: "too-short"}))

	assert.NoError(t, validate(t, taxProfileRequest{PAN: "ABCDE1234F"}))
	assert.Error(t, validate(t, taxProfileRequest{PAN: "ABC"}))

	assert.NoError(t, validate(t, taxProfileRequest{IFSC: "HDFC0001234"}))
	assert.Error(t, validate(t, taxProfileRequest{IFSC: "HDFC1001234"}))
}

func TestValidationMessage_UsesJSONFieldNames(t *testing.T) {
	err := validate(t, taxProfileRequest{GSTIN: "bad", PAN: "bad"})
	require.Error(t, err)

	msg := ValidationMessage(err)
	assert.Contains(t, msg, "gstin: must be a 15 character GSTIN")
	assert.Contains(t, msg, "pan: must be a 10 character PAN")
}

func TestValidationMessage_PassesThroughOtherErrors(t *testing.T) {
	assert.Equal(t, "assert.AnError general error for testing", ValidationMessage(assert.AnError))
}
