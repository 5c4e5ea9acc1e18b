package phone

import (
	"slices"
	"testing"
)

func TestVariantsExpandsCountryCodeSpellings(t *testing.T) {
	tests := []struct {
		name   string
		digits string
		want   []string
	}{
		{
			name:   "international with 00 prefix",
			digits: "00972507825939",
			want:   []string{"00972507825939", "972507825939", "507825939", "0507825939"},
		},
		{
			name:   "international without prefix",
			digits: "972507825939",
			want:   []string{"972507825939", "507825939", "0507825939"},
		},
		{
			name:   "local with leading zero",
			digits: "0507825939",
			want:   []string{"0507825939", "507825939"},
		},
		{
			name:   "no expansion applies",
			digits: "123456",
			want:   []string{"123456"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Variants(tt.digits)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Variants(%q) = %v, want %v", tt.digits, got, tt.want)
			}
		})
	}
}

func TestVariantsEmptyInput(t *testing.T) {
	if got := Variants(""); got != nil {
		t.Fatalf("Variants(\"\") = %v, want nil", got)
	}
}

func TestMatchExactAcrossCountryCodeSpelling(t *testing.T) {
	// A locally spelled query must hit the same subscriber stored in
	// international format.
	if got := Match("0507825939", "+972-50-782-5939"); got != MatchExact {
		t.Fatalf("Match = %v, want MatchExact", got)
	}
}

func TestMatchPrefixAndSuffix(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      MatchKind
	}{
		{"short query never matches", "050", "0507825939", MatchNone},
		{"prefix within delta", "05078259", "0507825939", MatchPrefix},
		{"unrelated numbers", "0541112222", "0507825939", MatchNone},
		{"country prefix resolves through variants", "0507825939", "9720507825939", MatchExact},
		{"trailing match with foreign prefix", "0507825939", "990507825939", MatchSuffix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.query, tt.candidate); got != tt.want {
				t.Fatalf("Match(%q, %q) = %v, want %v", tt.query, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestIsValidPrefixMatchGate(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"shorter under six digits", "12345", "123456789", false},
		{"not a prefix", "654321", "123456789", false},
		{"delta over three", "123456", "1234567890", false},
		{"ratio under 80 percent", "123456", "12345678", false},
		{"valid prefix", "12345678", "1234567890", true},
		{"equal length", "123456", "123456", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPrefixMatch(tt.a, tt.b); got != tt.want {
				t.Fatalf("IsValidPrefixMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsValidSuffixMatchGate(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      bool
	}{
		{"query under seven digits", "123456", "99123456", false},
		{"not a suffix", "7825939", "0507825930", false},
		{"small delta", "7825939", "507825939", true},
		{"delta three with country prefix", "0507825939", "9720507825939", true},
		{"delta three without country prefix", "0507825939", "1230507825939", false},
		{"delta over four", "7825939", "972050077825939", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSuffixMatch(tt.query, tt.candidate); got != tt.want {
				t.Fatalf("IsValidSuffixMatch(%q, %q) = %v, want %v", tt.query, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestSearchPatternsFormats(t *testing.T) {
	got := SearchPatterns("0507825939")
	want := []string{
		"0507825939%",
		"050-7825939%",
		"050 7825939%",
		"050.7825939%",
		"+0507825939%",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("SearchPatterns = %v, want %v", got, want)
	}
}

func TestSuffixPattern(t *testing.T) {
	if got := SuffixPattern("123456"); got != "" {
		t.Fatalf("SuffixPattern short variant = %q, want empty", got)
	}
	if got := SuffixPattern("7825939"); got != "%7825939" {
		t.Fatalf("SuffixPattern = %q, want %%7825939", got)
	}
}

func TestNormalizeE164(t *testing.T) {
	if got := NormalizeE164("050-782-5939"); got != "+972507825939" {
		t.Fatalf("NormalizeE164 = %q, want +972507825939", got)
	}
	if got := NormalizeE164("not a phone"); got != "not a phone" {
		t.Fatalf("NormalizeE164 on garbage = %q, want input back", got)
	}
}

func TestDigits(t *testing.T) {
	if got := Digits("+972 (50) 782-5939"); got != "972507825939" {
		t.Fatalf("Digits = %q", got)
	}
}
