package sim

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// forceBuf is pooled by pointer so Put does not allocate.
type forceBuf struct {
	vecs []r2.Vec
}

var forcePool = sync.Pool{
	New: func() interface{} {
		return &forceBuf{}
	},
}

// getForces returns a zeroed force buffer of length n, reused across runs
// so that ensembles and sweeps do not allocate one per run.
func getForces(n int) *forceBuf {
	b := forcePool.Get().(*forceBuf)
	if cap(b.vecs) < n {
		b.vecs = make([]r2.Vec, n)
	}
	b.vecs = b.vecs[:n]
	for i := range b.vecs {
		b.vecs[i] = r2.Vec{}
	}
	return b
}

func putForces(b *forceBuf) {
	forcePool.Put(b)
}
