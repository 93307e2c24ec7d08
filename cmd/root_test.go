package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"solarops/internal/cli"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "generic error",
			err:  errors.New("boom"),
			want: ExitCodeError,
		},
		{
			name: "auth required",
			err:  &cli.AuthRequiredError{Endpoint: "https://api.plant.example"},
			want: ExitCodeAuthRequired,
		},
		{
			name: "auth failed",
			err:  &cli.AuthFailedError{Endpoint: "https://api.plant.example", Reason: errors.New("rejected")},
			want: ExitCodeAuthFailed,
		},
		{
			name: "wrapped auth required",
			err:  fmt.Errorf("running command: %w", &cli.AuthRequiredError{}),
			want: ExitCodeAuthRequired,
		},
		{
			name: "permission denied is a general error",
			err:  &cli.PermissionDeniedError{Permission: "can_manage_users"},
			want: ExitCodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestVersionRoundTrip(t *testing.T) {
	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", GetVersion())
}

func TestRedirectRecorder(t *testing.T) {
	r := &redirectRecorder{}
	r.NavigateToLogin("session expired")
	r.NavigateToLogin("still expired")
	r.NavigateToNoPermission()

	assert.Equal(t, 2, r.loginCount)
	assert.Equal(t, "still expired", r.loginReason)
	assert.True(t, r.noPermission)
}
