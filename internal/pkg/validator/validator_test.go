package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2024-03-10"); !ok {
		t.Error("IsValidDate(2024-03-10) = false, want true")
	}
	for _, s := range []string{"10-03-2024", "2024/03/10", "2024-13-01", ""} {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidEmployeeNumber(t *testing.T) {
	valid := []string{"1001", "EMP-42", "A1"}
	invalid := []string{"", "with space", "way-too-long-employee-number-0001"}
	for _, n := range valid {
		if !IsValidEmployeeNumber(n) {
			t.Errorf("IsValidEmployeeNumber(%q) = false, want true", n)
		}
	}
	for _, n := range invalid {
		if IsValidEmployeeNumber(n) {
			t.Errorf("IsValidEmployeeNumber(%q) = true, want false", n)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_date", Message: "invalid date format"},
		{Field: "end_date", Message: "required"},
	}
	m := errs.ToMap()
	if m["start_date"] != "invalid date format" || m["end_date"] != "required" {
		t.Errorf("ToMap() = %v", m)
	}
}
