package engine

import (
	"math/rand/v2"
)

// randSource is a per-worker generator that is reseeded for every pixel, so a
// pixel's samples depend only on the render seed and the pixel index.
// It is not safe for concurrent use, so each goroutine must have its own instance.
type randSource struct {
	pcg *rand.PCG
	*rand.Rand
}

func newRandSource() *randSource {
	pcg := rand.NewPCG(0, 0)
	return &randSource{
		pcg:  pcg,
		Rand: rand.New(pcg),
	}
}

func (rs *randSource) reseed(seed uint64, pixel int) {
	rs.pcg.Seed(seed, mix64(uint64(pixel)))
}

// mix64 is the splitmix64 finalizer. Neighbouring pixel indices would otherwise
// start PCG in neighbouring states.
func mix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
