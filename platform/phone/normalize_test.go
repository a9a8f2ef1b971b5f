package phone

import "testing"

func TestFormatterE164(t *testing.T) {
	cases := []struct {
		region string
		input  string
		want   string
	}{
		{"US", "(650) 253-0000", "+16502530000"},
		{"", " 650-253-0000 ", "+16502530000"},
		{"NL", "06 12345678", "+31612345678"},
		{"US", "+31 6 12345678", "+31612345678"},
		{"US", "not a number", "not a number"},
		{"US", "123", "123"},
		{"US", "   ", ""},
	}

	for _, tc := range cases {
		got := NewFormatter(tc.region).E164(tc.input)
		if got != tc.want {
			t.Errorf("E164(%q, region %q) = %q, want %q", tc.input, tc.region, got, tc.want)
		}
	}
}
