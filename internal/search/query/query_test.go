package query

import "testing"

func TestClassifyResolutionOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{"email wins over everything", "050@office.com", KindEmail},
		{"lead number beats phone", "123", KindLeadNumber},
		{"prefixed lead number", "L123", KindLeadNumber},
		{"lowercase prefix", "c4512", KindLeadNumber},
		{"seven digits is a phone", "1234567", KindPhone},
		{"formatted phone", "050-782 5939", KindPhone},
		{"plain name", "dani", KindName},
		{"two letters is a name", "da", KindName},
		{"single letter too short", "d", KindTooShort},
		{"empty", "   ", KindTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.raw); got.Kind != tt.want {
				t.Fatalf("Classify(%q).Kind = %q, want %q", tt.raw, got.Kind, tt.want)
			}
		})
	}
}

func TestClassifyLeadingZeroNeverLeadNumber(t *testing.T) {
	q := Classify("0123")
	if q.IsLeadNumberLike {
		t.Fatal("leading-zero residue must not classify as lead number")
	}
	if q.Kind != KindPhone {
		t.Fatalf("Kind = %q, want %q", q.Kind, KindPhone)
	}
}

func TestClassifyLeadNumberResidue(t *testing.T) {
	q := Classify("L-4512")
	if !q.IsLeadNumberLike {
		t.Fatal("expected lead-number classification")
	}
	if q.LeadNumber != "4512" {
		t.Fatalf("LeadNumber = %q, want 4512", q.LeadNumber)
	}
}

func TestClassifyPrefixedLeadingZeroFallsToName(t *testing.T) {
	// The L prefix breaks the phone charset and the zero residue breaks the
	// lead-number rule, so only the name path remains.
	q := Classify("l0123")
	if q.Kind != KindName {
		t.Fatalf("Kind = %q, want %q", q.Kind, KindName)
	}
}

func TestIsExtensionOf(t *testing.T) {
	tests := []struct {
		name string
		prev string
		next string
		want bool
	}{
		{"name grows by one rune", "dan", "dani", true},
		{"case-insensitive prefix", "DAN", "dani", true},
		{"same string is not an extension", "dani", "dani", false},
		{"shrinking is not an extension", "dani", "dan", false},
		{"different prefix", "dan", "ron", false},
		{"kind change", "dan", "dan@", false},
		{"email without domain dot", "jo@x", "jo@xy", false},
		{"email with domain dot", "jo@x.c", "jo@x.co", true},
		{"phone under six digits", "05012", "050123", false},
		{"phone with six digits", "050123", "0501234", true},
		{"lead number grows", "45", "451", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Classify(tt.prev)
			next := Classify(tt.next)
			if got := next.IsExtensionOf(prev); got != tt.want {
				t.Fatalf("Classify(%q).IsExtensionOf(Classify(%q)) = %v, want %v", tt.next, tt.prev, got, tt.want)
			}
		})
	}
}

func TestClassifyDerivesDigits(t *testing.T) {
	q := Classify("+972 (50) 782-5939")
	if q.Digits != "972507825939" {
		t.Fatalf("Digits = %q", q.Digits)
	}
	if q.Kind != KindPhone {
		t.Fatalf("Kind = %q, want %q", q.Kind, KindPhone)
	}
}
