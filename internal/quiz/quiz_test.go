package quiz

import (
	"errors"
	"testing"
)

func TestTrackerFiresEveryFifth(t *testing.T) {
	tr := NewTracker(0)
	var fired []int
	for i := 1; i <= 12; i++ {
		if tr.Record() {
			fired = append(fired, i)
		}
	}
	if len(fired) != 2 || fired[0] != 5 || fired[1] != 10 {
		t.Fatalf("fired at %v, want [5 10]", fired)
	}
	if tr.Count() != 12 {
		t.Errorf("count = %d", tr.Count())
	}
}

func TestTrackerCustomInterval(t *testing.T) {
	tr := NewTracker(2)
	got := []bool{tr.Record(), tr.Record(), tr.Record(), tr.Record()}
	want := []bool{false, true, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Record #%d = %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestAttemptCorrect(t *testing.T) {
	a := NewAttempt(Piaget)
	if err := a.Select(3); err != nil {
		t.Fatal(err)
	}
	res, err := a.Check()
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct {
		t.Fatal("expected correct")
	}
	if res.Feedback() != "Correct! Great job." {
		t.Errorf("feedback = %q", res.Feedback())
	}
}

func TestAttemptIncorrect(t *testing.T) {
	a := NewAttempt(Piaget)
	_ = a.Select(0)
	_ = a.Select(1)
	res, err := a.Check()
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct {
		t.Fatal("expected incorrect")
	}
	if res.Answer != "Preoperational stage" {
		t.Errorf("answer = %q", res.Answer)
	}
	want := `Not quite. The correct answer is "Formal operational stage".`
	if res.Feedback() != want {
		t.Errorf("feedback = %q, want %q", res.Feedback(), want)
	}
}

func TestAttemptGuards(t *testing.T) {
	a := NewAttempt(Piaget)
	if _, err := a.Check(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("Check without selection: %v", err)
	}
	if err := a.Select(4); !errors.Is(err, ErrOptionRange) {
		t.Fatalf("Select(4): %v", err)
	}
	_ = a.Select(2)
	if _, err := a.Check(); err != nil {
		t.Fatal(err)
	}
	if err := a.Select(3); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("Select after check: %v", err)
	}
	if a.Selected() != 2 {
		t.Errorf("selection changed after check")
	}
	if _, err := a.Check(); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("second Check: %v", err)
	}
}

func TestIsCorrectOption(t *testing.T) {
	for i := range Piaget.Options {
		if got := Piaget.IsCorrectOption(i); got != (i == 3) {
			t.Errorf("IsCorrectOption(%d) = %v", i, got)
		}
	}
	if Piaget.IsCorrectOption(-1) {
		t.Error("negative index")
	}
}
