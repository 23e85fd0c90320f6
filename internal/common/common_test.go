package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

// ---------- ValidationError ----------

func TestValidationError_MatchesSentinel(t *testing.T) {
	var err error = &ValidationError{Fields: map[string]string{"email": "Email must be valid"}}

	require.True(t, errors.Is(err, ErrValidation))

	wrapped := fmt.Errorf("register: %w", err)
	var ve *ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "Email must be valid", ve.Fields["email"])
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"password": "Password is required",
		"email":    "Email is required",
	}}

	assert.Equal(t, "validation failed: email: Email is required; password: Password is required", err.Error())
}

// ---------- Error ----------

func TestError_KindAndMessage(t *testing.T) {
	err := NewError(ErrForbidden, "you cannot do that")
	wrapped := fmt.Errorf("service: %w", err)

	assert.ErrorIs(t, wrapped, ErrForbidden)
	assert.Equal(t, "you cannot do that", err.Error())
	assert.Equal(t, "you cannot do that", ClientMessage(wrapped, "fallback"))
}

func TestClientMessage_Fallback(t *testing.T) {
	assert.Equal(t, "fallback", ClientMessage(ErrNotFound, "fallback"))
	assert.Equal(t, "fallback", ClientMessage(NewError(ErrNotFound, ""), "fallback"))
	assert.Equal(t, "fallback", ClientMessage(errors.New("plain"), "fallback"))
}
