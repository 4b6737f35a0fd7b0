package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{kind: KindQuotaExceeded, want: http.StatusOK},
		{kind: KindPlanRequired, want: http.StatusOK},
		{kind: KindValidation, want: http.StatusOK},
		{kind: KindNotFound, want: http.StatusOK},
		{kind: KindProvider, want: http.StatusOK},
		{kind: KindProviderUnavailable, want: http.StatusServiceUnavailable},
		{kind: KindMissingFields, want: http.StatusBadRequest},
		{kind: KindUnauthorized, want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Status(); got != tt.want {
				t.Fatalf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", QuotaExceeded())
	if !errors.Is(err, QuotaExceeded()) {
		t.Fatalf("expected wrapped quota error to match")
	}
	if errors.Is(err, PlanRequired()) {
		t.Fatalf("quota error must not match plan required")
	}
	if KindOf(err) != KindQuotaExceeded {
		t.Fatalf("KindOf = %s", KindOf(err))
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("plain errors should be internal")
	}
}

func TestProviderUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Provider(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected provider error to unwrap cause")
	}
	if err.Message != "connection reset" {
		t.Fatalf("unexpected message %q", err.Message)
	}
}
