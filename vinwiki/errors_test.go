package vinwiki

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	err := newError(KindRemoteStatus, "GetVehicle", ErrRemoteStatus.Message, &StatusError{Status: "error"})

	assert.ErrorIs(t, err, ErrRemoteStatus)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), ErrRemoteStatus)
	assert.Equal(t, KindRemoteStatus, KindOf(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{
			err:  newError(KindSessionRequired, "GetVehicle", ErrSessionRequired.Message, nil),
			want: "vinwiki: GetVehicle: an authenticated session is required",
		},
		{
			err:  newError(KindRemoteStatus, "VehicleSearch", ErrRemoteStatus.Message, &StatusError{Status: "error", Message: "nope", Code: "7"}),
			want: `vinwiki: VehicleSearch: VINwiki returned a non-ok status: status "error" code 7: nope`,
		},
		{
			err:  &Error{Kind: KindHydration},
			want: "vinwiki: hydration",
		},
		{
			err:  newError(KindHydration, "", "bad", &FieldError{Path: "Vehicle.vin", Expected: "string", Got: "array"}),
			want: "vinwiki: bad: Vehicle.vin: expected string, got array",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestSessionErrors(t *testing.T) {
	for kind := KindUnknown; kind <= KindHydration; kind++ {
		err := &Error{Kind: kind}
		want := kind == KindSessionRequired || kind == KindPersonUnavailable
		assert.Equal(t, want, err.IsSessionError(), kind.String())
		assert.NotEmpty(t, kind.String())
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 403, Status: "403 Forbidden"}
	assert.Equal(t, "VINwiki API error: status 403", err.Error())
	assert.True(t, err.IsUnauthorized())
	assert.False(t, err.IsNotFound())
}
