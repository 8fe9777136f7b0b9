package hex

import "testing"

func TestRingZeroIsOrigin(t *testing.T) {
	origin := Encode(25.0330, 121.5654, 8)
	got := Ring(origin, 0)
	if len(got) != 1 || got[0] != origin {
		t.Fatalf("Ring(k=0) = %v, want exactly the origin", got)
	}
}

func TestRingIncludesOriginFirst(t *testing.T) {
	origin := Encode(25.0330, 121.5654, 8)
	for k := 0; k <= 3; k++ {
		got := Ring(origin, k)
		if len(got) == 0 || got[0] != origin {
			t.Fatalf("Ring(k=%d) does not start with origin: %v", k, got)
		}
	}
}

// Ring(c, k) must be a superset of Ring(c, k-1) for every k.
func TestRingMonotonicallyInclusive(t *testing.T) {
	origin := Encode(24.1477, 120.6736, 8)
	prev := map[CellID]struct{}{}
	for k := 0; k <= 4; k++ {
		cur := Ring(origin, k)
		set := make(map[CellID]struct{}, len(cur))
		for _, c := range cur {
			set[c] = struct{}{}
		}
		for c := range prev {
			if _, ok := set[c]; !ok {
				t.Fatalf("Ring(k=%d) lost cell %s from Ring(k=%d)", k, c, k-1)
			}
		}
		prev = set
	}
}

func TestRingNoDuplicates(t *testing.T) {
	origin := Encode(25.0330, 121.5654, 9)
	for k := 1; k <= 3; k++ {
		got := Ring(origin, k)
		seen := make(map[CellID]struct{}, len(got))
		for _, c := range got {
			if _, dup := seen[c]; dup {
				t.Fatalf("Ring(k=%d) contains duplicate %s", k, c)
			}
			seen[c] = struct{}{}
		}
	}
}

func TestRingFirstRingHasNeighbors(t *testing.T) {
	// A first ring must reach beyond the origin cell at every resolution.
	for _, res := range []int{7, 8, 9} {
		origin := Encode(25.0330, 121.5654, res)
		got := Ring(origin, 1)
		if len(got) < 2 {
			t.Errorf("Ring(res=%d, k=1) = %d cells, want origin plus neighbors", res, len(got))
		}
		for _, c := range got {
			if c.Resolution() != res {
				t.Errorf("neighbor %s has resolution %d, want %d", c, c.Resolution(), res)
			}
		}
	}
}

func TestRingDeterministicOrder(t *testing.T) {
	origin := Encode(25.0330, 121.5654, 8)
	a := Ring(origin, 2)
	b := Ring(origin, 2)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("order differs at %d: %s vs %s", i, a[i], b[i])
		}
	}
}
