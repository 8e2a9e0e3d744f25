package apierr

import (
	"fmt"
	"net/http"
	"testing"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid", Invalid("count must be positive"), http.StatusBadRequest},
		{"wrapped_not_found", fmt.Errorf("load task: %w", ErrNotFound), http.StatusNotFound},
		{"explicit", New(http.StatusTeapot, "teapot", nil), http.StatusTeapot},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFor(tc.err); got != tc.want {
				t.Fatalf("StatusFor(%v)=%d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
