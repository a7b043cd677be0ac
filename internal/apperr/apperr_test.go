package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel *Error
		matches  bool
	}{
		{"conflict matches conflict", Conflictf("campaign is not accepting investments"), Conflict, true},
		{"conflict does not match not found", Conflictf("insufficient coins"), NotFound, false},
		{"validation matches validation", Validationf("amount must be positive"), Validation, true},
		{"wrapped keeps kind", fmt.Errorf("invest: %w", Forbiddenf("not the campaign owner")), Forbidden, true},
		{"double wrapped keeps kind", fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", Concurrencyf("tx aborted"))), Concurrency, true},
		{"plain error matches nothing", errors.New("boom"), Conflict, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.sentinel); got != tt.matches {
				t.Errorf("errors.Is = %v, want %v", got, tt.matches)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("cancel: %w", NotFoundf("investment not found")))
	if !ok || kind != KindNotFound {
		t.Errorf("KindOf = (%v, %v), want (KindNotFound, true)", kind, ok)
	}

	if _, ok := KindOf(errors.New("boom")); ok {
		t.Error("KindOf should not classify plain errors")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("row conflict")
	err := Wrap(KindConcurrency, "transaction aborted", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
	if !errors.Is(err, Concurrency) {
		t.Error("wrapped error should keep its kind")
	}
}
