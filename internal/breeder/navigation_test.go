package breeder

import (
	"errors"
	"math/rand"
	"testing"
)

func TestNavigatorStaysInBoundsWithSafeNav(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		nav := NewNavigator(true)
		maximum := rng.Intn(6)
		if err := nav.SetGeneration(rng.Intn(maximum+1), maximum); err != nil {
			t.Fatalf("seed generation: %v", err)
		}
		for step := 0; step < 200; step++ {
			if rng.Intn(2) == 0 {
				_ = nav.Previous()
			} else {
				_ = nav.Next()
			}
			if nav.Current() < 0 || nav.Current() > nav.Maximum() {
				t.Fatalf("run %d step %d: current %d outside [0, %d]", run, step, nav.Current(), nav.Maximum())
			}
		}
	}
}

func TestNavigatorPreviousAtZeroReportsError(t *testing.T) {
	nav := NewNavigator(true)
	err := nav.Previous()
	if !errors.Is(err, ErrGenerationOutOfRange) {
		t.Fatalf("expected ErrGenerationOutOfRange, got %v", err)
	}
	if nav.Current() != 0 {
		t.Fatalf("expected current 0, got %d", nav.Current())
	}
	if nav.PreviousEnabled() {
		t.Fatalf("expected previous disabled at generation 0")
	}
	if nav.NextEnabled() {
		t.Fatalf("expected next disabled when current == maximum")
	}
}

func TestNavigatorClampsAboveMaximum(t *testing.T) {
	nav := NewNavigator(true)
	err := nav.SetGeneration(9, 3)
	if !errors.Is(err, ErrGenerationOutOfRange) {
		t.Fatalf("expected ErrGenerationOutOfRange, got %v", err)
	}
	if nav.Current() != 3 || nav.Maximum() != 3 {
		t.Fatalf("expected (3, 3), got (%d, %d)", nav.Current(), nav.Maximum())
	}
}

func TestNavigatorUnsafeAllowsAnyTarget(t *testing.T) {
	nav := NewNavigator(false)
	if err := nav.SetGeneration(5, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nav.Current() != 5 {
		t.Fatalf("expected current 5, got %d", nav.Current())
	}
	if !nav.PreviousEnabled() || !nav.NextEnabled() {
		t.Fatalf("expected both controls enabled without safe nav")
	}
}

func TestNavigatorNegativeMaximumNormalised(t *testing.T) {
	nav := NewNavigator(false)
	err := nav.SetGeneration(0, -1)
	if !errors.Is(err, ErrGenerationOutOfRange) {
		t.Fatalf("expected ErrGenerationOutOfRange, got %v", err)
	}
	if nav.Maximum() != 0 {
		t.Fatalf("expected maximum 0, got %d", nav.Maximum())
	}
}

func TestNavigatorRunsLeaveHookBeforeMoving(t *testing.T) {
	nav := NewNavigator(true)
	_ = nav.SetGeneration(1, 3)
	var left []int
	nav.OnLeave(func(generation int) {
		left = append(left, generation)
	})
	_ = nav.Next()
	_ = nav.Jump(0)
	_ = nav.Previous()
	want := []int{1, 2, 0}
	if len(left) != len(want) {
		t.Fatalf("expected hooks %v, got %v", want, left)
	}
	for i := range want {
		if left[i] != want[i] {
			t.Fatalf("expected hooks %v, got %v", want, left)
		}
	}
}
