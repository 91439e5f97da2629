package particlefilter

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// noise draws every random number the filter uses from a single source.
type noise struct {
	src rand.Source
}

func newNoise(src rand.Source) *noise {
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	return &noise{src: src}
}

// gaussian returns a zero-mean draw with the given standard deviation.
func (n *noise) gaussian(sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	d := distuv.Normal{Mu: 0, Sigma: sigma, Src: n.src}
	return d.Rand()
}

// uniform returns a draw from [lo, hi).
func (n *noise) uniform(lo, hi float64) float64 {
	d := distuv.Uniform{Min: lo, Max: hi, Src: n.src}
	return d.Rand()
}
