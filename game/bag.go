package game

import (
	"encoding/binary"

	"lukechampine.com/frand"

	"github.com/domino14/pcfinder/piece"
)

// randomizer deals pieces in 7-bags: every run of seven is a permutation of
// the seven tetrominoes.
type randomizer struct {
	seed uint64
	rng  *frand.RNG
	bag  []piece.Piece
}

// newRandomizer seeds a reproducible stream. A zero seed picks one.
func newRandomizer(seed uint64) *randomizer {
	for seed == 0 {
		seed = frand.Uint64n(1<<63) + 1
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return &randomizer{
		seed: seed,
		rng:  frand.NewCustom(key[:], 1024, 12),
	}
}

func (r *randomizer) refill() {
	r.bag = append(r.bag[:0], piece.All[:]...)
	r.rng.Shuffle(len(r.bag), func(i, j int) {
		r.bag[i], r.bag[j] = r.bag[j], r.bag[i]
	})
}

func (r *randomizer) next() piece.Piece {
	if len(r.bag) == 0 {
		r.refill()
	}
	p := r.bag[0]
	r.bag = r.bag[1:]
	return p
}

// peek returns the piece next() would deal without dealing it.
func (r *randomizer) peek() piece.Piece {
	if len(r.bag) == 0 {
		r.refill()
	}
	return r.bag[0]
}

// remaining is what is left of the current bag.
func (r *randomizer) remaining() int {
	return len(r.bag)
}
