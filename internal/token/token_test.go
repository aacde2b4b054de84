package token

import (
	"testing"
)

func TestPRNGTokenGenerator_Generate(t *testing.T) {
	gen := New()

	for _, n := range []int{1, 6, 32} {
		got, err := gen.Generate(n)
		if err != nil {
			t.Fatalf("Generate(%d) error = %v", n, err)
		}
		if len(got) != n {
			t.Errorf("Generate(%d) length = %d", n, len(got))
		}
		for _, c := range got {
			if c < '0' || c > '9' {
				t.Errorf("Generate(%d) = %q, contains non-digit", n, got)
			}
		}
	}

	if _, err := gen.Generate(0); err == nil {
		t.Errorf("Generate(0) error = nil, want error")
	}
}
