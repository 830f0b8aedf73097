package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorUnwrapsToKind(t *testing.T) {
	wrapped := fmt.Errorf("apply: %w", ErrCampaignFull)

	if !errors.Is(wrapped, ErrConflict) {
		t.Fatal("expected campaign full to be a conflict")
	}
	if !errors.Is(wrapped, ErrCampaignFull) {
		t.Fatal("expected sentinel identity to survive wrapping")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Fatal("campaign full must not match not found")
	}

	var appErr *Error
	if !errors.As(wrapped, &appErr) || appErr.Message != "Campaign is already full" {
		t.Fatalf("expected message to be preserved, got %v", appErr)
	}
}
