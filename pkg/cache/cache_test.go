package cache

import "testing"

type rankParams struct {
	Source string
	Gender string
	Sort   string
}

func TestGetOrComputeMemoizes(t *testing.T) {
	c := New()
	key := Fingerprint("category-rank", c.Version(), rankParams{Source: "fanqie", Sort: "heat"})

	calls := 0
	compute := func() int {
		calls++
		return 42
	}

	if got := GetOrCompute(c, key, compute); got != 42 {
		t.Fatalf("got %d", got)
	}
	if got := GetOrCompute(c, key, compute); got != 42 {
		t.Fatalf("got %d", got)
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
}

func TestFingerprintDistinguishesParams(t *testing.T) {
	c := New()
	a := Fingerprint("category-rank", c.Version(), rankParams{Source: "fanqie"})
	b := Fingerprint("category-rank", c.Version(), rankParams{Source: "qimao"})
	if a == b {
		t.Error("different params must not collide")
	}
	v := Fingerprint("category-rank", c.Version()+1, rankParams{Source: "fanqie"})
	if a == v {
		t.Error("different dataset versions must not collide")
	}
	w := Fingerprint("heat-list", c.Version(), rankParams{Source: "fanqie"})
	if a == w {
		t.Error("different views must not collide")
	}
}

func TestInvalidateDropsEntriesAndBumpsVersion(t *testing.T) {
	c := New()
	v0 := c.Version()
	key := Fingerprint("heat-list", v0, nil)
	GetOrCompute(c, key, func() string { return "x" })
	if c.Len() != 1 {
		t.Fatalf("len = %d", c.Len())
	}

	c.Invalidate()
	if c.Len() != 0 {
		t.Errorf("entries survived invalidation")
	}
	if c.Version() != v0+1 {
		t.Errorf("version = %d, want %d", c.Version(), v0+1)
	}

	// Same logical computation after invalidation recomputes.
	calls := 0
	key2 := Fingerprint("heat-list", c.Version(), nil)
	GetOrCompute(c, key2, func() string { calls++; return "y" })
	if calls != 1 {
		t.Errorf("expected recompute after invalidation")
	}
}
