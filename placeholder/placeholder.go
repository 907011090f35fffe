// Package placeholder picks and produces the stock cover images used by
// posts that do not declare one.
package placeholder

import (
	"fmt"
	"math/rand/v2"
)

// Count is the number of placeholder images, numbered 1 through Count.
const Count = 5

// Path returns the public path of placeholder n (1-based).
func Path(n int) string {
	return fmt.Sprintf("/images/blog-placeholder-%d.jpg", n)
}

// Paths returns every placeholder path in order.
func Paths() []string {
	out := make([]string, Count)
	for i := range out {
		out[i] = Path(i + 1)
	}
	return out
}

// Source is a uniform random source. *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	IntN(n int) int
}

// globalSource uses the package-level math/rand/v2 generator, which is safe
// for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Picker chooses placeholder paths from a Source. A Picker is as safe for
// concurrent use as its Source.
type Picker struct {
	src Source
}

// NewPicker returns a Picker drawing from src, or from the global generator
// when src is nil.
func NewPicker(src Source) *Picker {
	if src == nil {
		src = globalSource{}
	}
	return &Picker{src: src}
}

// Pick returns one placeholder path chosen uniformly at random.
func (p *Picker) Pick() string {
	return Path(p.src.IntN(Count) + 1)
}

// PickRandomCoverImage returns a uniformly random placeholder path.
func PickRandomCoverImage() string {
	return Path(rand.IntN(Count) + 1)
}
