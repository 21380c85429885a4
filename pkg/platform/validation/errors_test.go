package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "domainpanel/pkg/domain-errors"
)

func TestFieldErrors(t *testing.T) {
	fields := FieldErrors{}
	assert.True(t, fields.Empty())

	fields.Add("password", "Transfer (EPP) password cannot be blank.")
	fields.Add("password", "Wrong code: bad auth")
	fields.Add("domain", "Domain name cannot be blank.")

	assert.False(t, fields.Empty())
	assert.True(t, fields.Has("password"))
	assert.False(t, fields.Has("domains"))
	assert.Equal(t, "Transfer (EPP) password cannot be blank.", fields.First("password"))
	assert.Equal(t, "", fields.First("domains"))
	assert.Equal(t, []string{"domain", "password"}, fields.Attributes())
}

func TestErrorCarriesValidationCode(t *testing.T) {
	fields := FieldErrors{"receiver": {"Receiver cannot be blank."}}
	err := fmt.Errorf("push: %w", NewError(fields))

	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	got, ok := Fields(err)
	require.True(t, ok)
	assert.Equal(t, fields, got)
	assert.Contains(t, err.Error(), "receiver: Receiver cannot be blank.")
}
