package address

import (
	"strings"
	"testing"
)

func TestIsValid_LengthBoundaries(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 80; n++ {
		s := strings.Repeat("a", n)
		want := n >= MinLen && n <= MaxLen
		if got := IsValid(s); got != want {
			t.Fatalf("IsValid(len=%d) = %v, want %v", n, got, want)
		}
	}
}

func TestIsValid_Cases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \t\n", false},
		{"btc legacy", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", true},
		{"trx", "TNPeeaaFB7K9cmo4uQpcU32zGK8G1NYqeL", true},
		{"trimmed", "  1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa \n", true},
		{"evm with 0x", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", true},
		{"inner space", "1A1zP1eP5QGefi2DMPT fTL5SLmv7DivfNa", false},
		{"dash", "not-an-address-but-long-enough-for-sure", false},
		{"underscore", strings.Repeat("a", 30) + "_", false},
		{"unicode digit", strings.Repeat("a", 30) + "٣", false},
		{"fullwidth letter", strings.Repeat("a", 30) + "Ａ", false},
		{"A*32", strings.Repeat("A", 32), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			if got := IsValid(c.in); got != c.want {
				t.Fatalf("IsValid(%q) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestIsValid_RejectsEveryNonAlnumByte(t *testing.T) {
	t.Parallel()

	base := strings.Repeat("b", 30)
	for c := 0; c < 128; c++ {
		ch := byte(c)
		if isAlnum(ch) {
			continue
		}
		// leading/trailing whitespace is trimmed, so embed the byte in the middle
		s := base[:15] + string(ch) + base[15:]
		if IsValid(s) {
			t.Fatalf("IsValid accepted byte %#x", ch)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	in := "\t" + strings.Repeat("Z9", 20) + "  "
	got, ok := Normalize(in)
	if !ok || got != strings.Repeat("Z9", 20) {
		t.Fatalf("Normalize = %q, %v", got, ok)
	}
	if _, ok := Normalize("short"); ok {
		t.Fatal("short input accepted")
	}
}
