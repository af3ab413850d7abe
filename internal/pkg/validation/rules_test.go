package validation

import (
	"reflect"
	"testing"
)

func TestIsClock(t *testing.T) {
	for _, v := range []string{"00:00", "09:30", "23:59"} {
		if !IsClock(v) {
			t.Errorf("IsClock(%q) = false", v)
		}
	}
	for _, v := range []string{"", "9:30", "24:00", "12:60", "12-30", "noon"} {
		if IsClock(v) {
			t.Errorf("IsClock(%q) = true", v)
		}
	}
}

func TestClockBefore(t *testing.T) {
	if !ClockBefore("09:00", "10:30") {
		t.Error("09:00 should be before 10:30")
	}
	if ClockBefore("10:30", "10:30") {
		t.Error("equal times are not before each other")
	}
	if ClockBefore("bad", "10:30") {
		t.Error("invalid start must not compare as before")
	}
}

func TestNormalizeDays(t *testing.T) {
	got := NormalizeDays([]string{"Thu", "Mon", "Thu", "Tue"})
	if want := []string{"Mon", "Tue", "Thu"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeDays = %v, want %v", got, want)
	}
	if got := NormalizeDays(nil); len(got) != 0 {
		t.Fatalf("NormalizeDays(nil) = %v", got)
	}
}

func TestStructUsesJSONFieldNames(t *testing.T) {
	type payload struct {
		Day   string `json:"day" validate:"weekday"`
		Start string `json:"start_time" validate:"clock"`
	}

	err := Struct(payload{Day: "Sun", Start: "25:00"})
	if err == nil {
		t.Fatal("expected error")
	}
	want := "day must be one of: Mon, Tue, Wed, Thu, Fri; start_time must be a time in HH:MM format"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}

	if err := Struct(payload{Day: "Fri", Start: "08:15"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
