package utils

import "testing"

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"9876543210", true},
		{"12345", false},
		{"", false},
		{"98765432100", false},
		{"98765abc10", false},
	}
	for _, tc := range cases {
		if got := IsValidPhone(tc.phone); got != tc.want {
			t.Errorf("IsValidPhone(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestIsValidPassword(t *testing.T) {
	if IsValidPassword("1234567") {
		t.Error("7-character password must be rejected")
	}
	if !IsValidPassword("12345678") {
		t.Error("8-character password must be accepted")
	}
}
