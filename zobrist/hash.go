package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/pcfinder/board"
	"github.com/domino14/pcfinder/piece"
)

const bignum = 1<<63 - 2

const numCells = board.NumRows * board.NumCols

// MaxHeight is the tallest band a search state can carry.
const MaxHeight = 4

// generate a zobrist hash for a perfect-clear search position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	posTable    [numCells][piece.NumKinds]uint64
	activeTable [piece.NumKinds]uint64
	holdTable   [piece.NumKinds]uint64
	heightTable [MaxHeight + 1]uint64
}

func (z *Zobrist) Initialize() {
	for i := 0; i < numCells; i++ {
		// None never gets hashed; leave its column zero.
		for j := 1; j < piece.NumKinds; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	for j := 0; j < piece.NumKinds; j++ {
		z.activeTable[j] = frand.Uint64n(bignum) + 1
		z.holdTable[j] = frand.Uint64n(bignum) + 1
	}
	for i := range z.heightTable {
		z.heightTable[i] = frand.Uint64n(bignum) + 1
	}
}

// https://stackoverflow.com/a/12996028/1737333
func hashUint64(x uint64) uint64 {
	x = (x ^ (x >> 30)) * uint64(0xbf58476d1ce4e5b9)
	x = (x ^ (x >> 27)) * uint64(0x94d049bb133111eb)
	x = x ^ (x >> 31)
	return x
}

// HashBoard hashes the tiles of b, piece kinds included.
func (z *Zobrist) HashBoard(b *board.Board) uint64 {
	key := uint64(0)
	for r := 0; r < board.NumRows; r++ {
		for c, t := range b[r] {
			if t == piece.None {
				continue
			}
			key ^= z.posTable[r*board.NumCols+c][t]
		}
	}
	return key
}

// AddPlacement toggles the four cells of a placement. The same call removes
// it again. It is only valid when the placement clears no lines; after a
// clear, rehash the board.
func (z *Zobrist) AddPlacement(key uint64, p piece.Piece, row, col int, rot piece.Rotation) uint64 {
	for _, o := range p.Offsets(rot) {
		r := row + int(o.Row)
		c := col + int(o.Col)
		key ^= z.posTable[r*board.NumCols+c][p]
	}
	return key
}

// StateKey folds the non-board parts of a search state into a board key.
func (z *Zobrist) StateKey(boardKey uint64, active, hold piece.Piece, height, queueUsed int) uint64 {
	key := boardKey ^ z.activeTable[active] ^ z.holdTable[hold] ^ z.heightTable[height]
	key ^= hashUint64(uint64(queueUsed) + 1)
	return key
}
