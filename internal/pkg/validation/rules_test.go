package validation

import "testing"

func TestIsValidClockTime(t *testing.T) {
	valid := []string{"00:00", "08:30", "12:00", "23:59"}
	for _, v := range valid {
		if !IsValidClockTime(v) {
			t.Errorf("IsValidClockTime(%q) = false, want true", v)
		}
	}

	invalid := []string{"8:30", "24:00", "12:60", "12:5", "12-30", "noon", "", "08:30:00"}
	for _, v := range invalid {
		if IsValidClockTime(v) {
			t.Errorf("IsValidClockTime(%q) = true, want false", v)
		}
	}
}

func TestIsValidDay(t *testing.T) {
	for day := range ValidDays {
		if !IsValidDay(day) {
			t.Errorf("IsValidDay(%q) = false, want true", day)
		}
	}
	for _, bad := range []string{"monday", "MONDAY", "Mon", "Funday", ""} {
		if IsValidDay(bad) {
			t.Errorf("IsValidDay(%q) = true, want false", bad)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail("sys.section@secchub.edu") {
		t.Error("expected a plain address to validate")
	}
	for _, bad := range []string{"not-an-email", "@secchub.edu", "user@", ""} {
		if IsValidEmail(bad) {
			t.Errorf("IsValidEmail(%q) = true, want false", bad)
		}
	}
}
