package engine

import (
	"testing"

	"darwin/internal/random"
)

func TestParseEncoding(t *testing.T) {
	if enc, err := ParseEncoding(""); err != nil || enc != EncodingBoolean {
		t.Fatalf("empty name: got (%v,%v), want boolean", enc, err)
	}
	if enc, err := ParseEncoding("real"); err != nil || enc != EncodingReal {
		t.Fatalf("real: got (%v,%v)", enc, err)
	}
	if _, err := ParseEncoding("analog"); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestGenotypeResampleFollowsProbabilities(t *testing.T) {
	probs := []float64{0.5, 0.5, 0.5, 0.5}
	rng := random.NewScript(nil, []float64{0.1, 0.9, 0.49, 0.51})

	for _, encoding := range []Encoding{EncodingBoolean, EncodingReal} {
		g := newGenotype(encoding, 4)
		g.Resample(rng, probs)

		want := []bool{true, false, true, false}
		for op, enabled := range want {
			if g.Enabled(op) != enabled {
				t.Fatalf("%s: flag %d: got %v, want %v", encoding, op, g.Enabled(op), enabled)
			}
		}
	}
}

func TestGenotypeValuesRoundTrip(t *testing.T) {
	for _, encoding := range []Encoding{EncodingBoolean, EncodingReal} {
		g := newGenotype(encoding, 3)
		g.SetValues([]float64{1, 0, 1})

		values := g.Values()
		if len(values) != 3 || values[0] != 1 || values[1] != 0 || values[2] != 1 {
			t.Fatalf("%s: values round trip: %v", encoding, values)
		}
		if !g.Enabled(0) || g.Enabled(1) || !g.Enabled(2) {
			t.Fatalf("%s: enabled flags after SetValues", encoding)
		}
		if g.Value(0) != 1 || g.Value(1) != 0 {
			t.Fatalf("%s: numeric values after SetValues", encoding)
		}
	}
}
