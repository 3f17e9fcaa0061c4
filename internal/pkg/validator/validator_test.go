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
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "01-01-2023", "2023/01/01", "", "yesterday"}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00+08:00"}
	invalid := []string{"2024-01-15", "10:30:00", ""}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDateTime(s); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}

func TestParseBool(t *testing.T) {
	cases := []struct {
		input string
		want  bool
		ok    bool
	}{
		{"", false, true},
		{"true", true, true},
		{"TRUE", true, true},
		{" true ", true, true},
		{"false", false, true},
		{"False", false, true},
		{"1", false, false},
		{"yes", false, false},
		{"0", false, false},
		{"no", false, false},
		{"maybe", false, false},
	}
	for _, c := range cases {
		got, ok := ParseBool(c.input)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseBool(%q) = (%v, %v), want (%v, %v)", c.input, got, ok, c.want, c.ok)
		}
	}
}

func TestParseHours(t *testing.T) {
	cases := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"", 0, true},
		{"8", 8, true},
		{"7.5", 7.5, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"eight", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseHours(c.input)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseHours(%q) = (%v, %v), want (%v, %v)", c.input, got, ok, c.want, c.ok)
		}
	}
}
