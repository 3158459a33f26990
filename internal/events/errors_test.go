package events

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestClassifyDaemonError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{
			name: "missing socket",
			err:  fmt.Errorf("failed to dial daemon socket: %w", os.ErrNotExist),
			want: ErrSocketNotFound,
		},
		{
			name: "permission denied",
			err:  fmt.Errorf("failed to dial daemon socket: %w", os.ErrPermission),
			want: ErrSocketPermission,
		},
		{
			name: "connection refused",
			err:  fmt.Errorf("failed to dial daemon socket: %w", syscall.ECONNREFUSED),
			want: ErrConnectionRefused,
		},
		{
			name: "anything else",
			err:  errors.New("boom"),
			want: ErrDaemonNotRunning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDaemonError(tt.err)
			if got == nil {
				t.Fatal("expected a classified error")
			}
			if got.Code != tt.want {
				t.Errorf("expected code %v, got %v", tt.want, got.Code)
			}
			if got.Hint == "" {
				t.Error("expected a hint for the user")
			}
			if !strings.Contains(got.Error(), got.Hint) {
				t.Errorf("Error() should carry the hint, got %q", got.Error())
			}
		})
	}
}

func TestClassifyDaemonErrorNil(t *testing.T) {
	if got := ClassifyDaemonError(nil); got != nil {
		t.Errorf("expected nil for nil error, got %+v", got)
	}
}
