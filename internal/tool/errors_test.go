package tool

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrToolNotFound,
		ErrEmptyToolName,
		ErrDuplicateTool,
		ErrInvalidDescriptor,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors should be distinct: %v == %v", a, b)
			}
		}
	}
}

func TestSentinelErrors_Wrappable(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("context: %w", ErrToolNotFound)
	if !errors.Is(wrapped, ErrToolNotFound) {
		t.Error("wrapped error should match ErrToolNotFound")
	}
}
