package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"student@binus.ac.id", true},
		{"Student@BINUS.AC.ID", true},
		{"student@Binus.Ac.Id", true},
		{"student@gmail.com", false},
		{"student@binus.ac.id.evil.com", false},
		{"binus.ac.id", false},
		{"", false},
	}

	for _, tc := range cases {
		ok, reason := ValidateEmail(tc.email)
		if ok != tc.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tc.email, ok, tc.want)
		}
		if !ok && reason == "" {
			t.Errorf("ValidateEmail(%q) rejected without a reason", tc.email)
		}
	}
}

func TestValidateNIM(t *testing.T) {
	cases := []struct {
		nim  string
		want bool
	}{
		{"2440011223", true},
		{"2000000000", true},
		{"1440011223", false}, // wrong leading digit
		{"244001122", false},  // nine digits
		{"24400112233", false},
		{"2abc011223", false},
		{"", false},
	}

	for _, tc := range cases {
		if ok, _ := ValidateNIM(tc.nim); ok != tc.want {
			t.Errorf("ValidateNIM(%q) = %v, want %v", tc.nim, ok, tc.want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"0812345678", true},    // 10 digits
		{"081234567890", true},  // 12 digits
		{"081234567", false},    // 9 digits
		{"0812345678901", false},
		{"0712345678", false}, // wrong prefix
		{"08-12345678", false},
		{"", false},
	}

	for _, tc := range cases {
		if ok, _ := ValidatePhone(tc.phone); ok != tc.want {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tc.phone, ok, tc.want)
		}
	}
}
