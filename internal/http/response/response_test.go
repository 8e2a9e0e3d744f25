package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyflow-backend/internal/platform/apierr"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"invalid", apierr.Invalid("count must be positive"), http.StatusBadRequest, "invalid_request", "invalid argument: count must be positive"},
		{"not_found", fmt.Errorf("task x: %w", apierr.ErrNotFound), http.StatusNotFound, "not_found", "task x: not found"},
		{"conflict", fmt.Errorf("%w: invalid timer transition", apierr.ErrConflict), http.StatusConflict, "conflict", "conflict: invalid timer transition"},
		{"explicit", apierr.New(http.StatusTooManyRequests, "slow_down", fmt.Errorf("later")), http.StatusTooManyRequests, "slow_down", "later"},
		{"internal", fmt.Errorf("pq: connection refused"), http.StatusInternalServerError, "load_failed", "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondServiceError(c, "load_failed", tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status=%d, want %d", rec.Code, tc.wantStatus)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.wantCode || env.Error.Message != tc.wantMsg {
				t.Fatalf("error=%+v, want %s/%q", env.Error, tc.wantCode, tc.wantMsg)
			}
		})
	}
}
