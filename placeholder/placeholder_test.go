package placeholder

import (
	"math/rand/v2"
	"sync"
	"testing"
)

func TestPickRandomCoverImage(t *testing.T) {
	valid := make(map[string]bool)
	for _, p := range Paths() {
		valid[p] = true
	}

	seen := make(map[string]int)
	for i := 0; i < 1000; i++ {
		p := PickRandomCoverImage()
		if !valid[p] {
			t.Fatalf("unexpected path %q", p)
		}
		seen[p]++
	}
	if len(seen) != Count {
		t.Errorf("saw %d distinct paths in 1000 picks, want %d: %v", len(seen), Count, seen)
	}
}

func TestPaths(t *testing.T) {
	want := []string{
		"/images/blog-placeholder-1.jpg",
		"/images/blog-placeholder-2.jpg",
		"/images/blog-placeholder-3.jpg",
		"/images/blog-placeholder-4.jpg",
		"/images/blog-placeholder-5.jpg",
	}
	got := Paths()
	if len(got) != len(want) {
		t.Fatalf("Paths() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Paths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

type fixedSource int

func (f fixedSource) IntN(n int) int { return int(f) % n }

func TestPickerUsesSource(t *testing.T) {
	for i := 0; i < Count; i++ {
		got := NewPicker(fixedSource(i)).Pick()
		if want := Path(i + 1); got != want {
			t.Errorf("Pick() with index %d = %q, want %q", i, got, want)
		}
	}
}

func TestPickerDeterministicWithSeed(t *testing.T) {
	a := NewPicker(rand.New(rand.NewPCG(1, 2)))
	b := NewPicker(rand.New(rand.NewPCG(1, 2)))
	for i := 0; i < 50; i++ {
		if pa, pb := a.Pick(), b.Pick(); pa != pb {
			t.Fatalf("pick %d differs: %q vs %q", i, pa, pb)
		}
	}
}

func TestNilSourcePickerConcurrent(t *testing.T) {
	p := NewPicker(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = p.Pick()
			}
		}()
	}
	wg.Wait()
}
