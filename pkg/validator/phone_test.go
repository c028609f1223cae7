package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneValidator(t *testing.T) {
	validator := NewPhoneValidator()
	assert.NotNil(t, validator)
}

func TestValidate_ValidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"9876543210", "9876543210", "Standard format"},
		{"98765 43210", "9876543210", "With space"},
		{"98765-43210", "9876543210", "With dash"},
		{"98765.43210", "9876543210", "With dots"},
		{"(98765) 43210", "9876543210", "With parentheses"},
		{"6123456789", "6123456789", "Prefix 6"},
		{"7012345678", "7012345678", "Prefix 7"},
		{"8887766554", "8887766554", "Prefix 8"},
		{"+91 98765 43210", "9876543210", "With country code"},
		{"919876543210", "9876543210", "Country code no plus"},
		{"09876543210", "9876543210", "With trunk zero"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	invalidNumbers := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyPhone, "Empty string"},
		{"123", ErrInvalidLength, "Too short"},
		{"98765432101", ErrInvalidLength, "Too long"},
		{"5876543210", ErrInvalidPrefix, "Invalid prefix 5"},
		{"1234567890", ErrInvalidPrefix, "Invalid prefix 1"},
		{"987654321a", ErrInvalidFormat, "Contains letters"},
		{"98765#4321", ErrInvalidFormat, "Contains symbols"},
	}

	for _, tc := range invalidNumbers {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestSanitize(t *testing.T) {
	validator := NewPhoneValidator()

	tests := []struct {
		input    string
		expected string
		name     string
	}{
		{"98765 43210", "9876543210", "Spaces removed"},
		{"98765-43210", "9876543210", "Dashes removed"},
		{"+919876543210", "9876543210", "Country code stripped"},
		{"09876543210", "9876543210", "Trunk zero stripped"},
		{"9876543210", "9876543210", "Already clean"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, validator.Sanitize(tc.input))
		})
	}
}

func TestFormat(t *testing.T) {
	validator := NewPhoneValidator()

	formatted, err := validator.Format("9876543210")
	require.NoError(t, err)
	assert.Equal(t, "98765 43210", formatted)

	_, err = validator.Format("invalid")
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	validator := NewPhoneValidator()

	assert.True(t, validator.IsValid("9876543210"))
	assert.False(t, validator.IsValid("123"))
	assert.False(t, validator.IsValid(""))
}

func TestValidateMultiple(t *testing.T) {
	validator := NewPhoneValidator()

	results := validator.ValidateMultiple([]string{"9876543210", "123"})
	assert.NoError(t, results["9876543210"])
	assert.Error(t, results["123"])
}

func TestMustValidate(t *testing.T) {
	validator := NewPhoneValidator()

	assert.NotPanics(t, func() {
		sanitized := validator.MustValidate("9876543210")
		assert.Equal(t, "9876543210", sanitized)
	})

	assert.Panics(t, func() {
		validator.MustValidate("bad")
	})
}
