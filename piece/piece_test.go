package piece

import (
	"testing"

	"github.com/matryer/is"
)

func TestRotationCycle(t *testing.T) {
	is := is.New(t)
	for r := Spawn; r <= CCW; r++ {
		is.Equal(r.CW().CCW(), r)
		is.Equal(r.CW().CW(), r.Flip180())
		is.Equal(r.Flip180().Flip180(), r)
		is.Equal(r.Mirror().Mirror(), r)
	}
	is.Equal(Spawn.CW(), CW)
	is.Equal(Spawn.CCW(), CCW)
	is.Equal(CW.Flip180(), CCW)
}

func TestParseRotation(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{"0", "R", "2", "L"} {
		r, err := ParseRotation(s)
		is.NoErr(err)
		is.Equal(r.String(), s)
	}
	_, err := ParseRotation("x")
	is.True(err != nil)
}

func TestParseQueue(t *testing.T) {
	is := is.New(t)
	q, err := ParseQueue("TIo, sz")
	is.NoErr(err)
	is.Equal(q, []Piece{T, I, O, S, Z})
	is.Equal(QueueString(q), "TIOSZ")

	_, err = ParseQueue("TX")
	is.True(err != nil)
	_, err = Parse("TT")
	is.True(err != nil)
}

func TestMirrorPieces(t *testing.T) {
	is := is.New(t)
	for _, p := range All {
		is.Equal(p.Mirror().Mirror(), p)
	}
	is.Equal(J.Mirror(), L)
	is.Equal(S.Mirror(), Z)
	is.Equal(T.Mirror(), T)
}

func TestOffsetsAreDistinct(t *testing.T) {
	is := is.New(t)
	for _, p := range All {
		for r := Spawn; r <= CCW; r++ {
			seen := map[Offset]bool{}
			for _, o := range p.Offsets(r) {
				is.True(!seen[o])
				seen[o] = true
			}
		}
	}
}

func TestKickTablesPopulated(t *testing.T) {
	is := is.New(t)
	for _, p := range All {
		for from := Spawn; from <= CCW; from++ {
			is.Equal(len(p.Kicks(from, from.CW())) > 0, true)
			is.Equal(len(p.Kicks(from, from.CCW())) > 0, true)
			is.Equal(len(p.Kicks(from, from.Flip180())) > 0, true)
		}
	}
	is.Equal(O.Kicks(Spawn, CW), []Offset{{0, 0}})
	is.Equal(len(T.Kicks(Spawn, CW)), 5)
	is.Equal(len(T.Kicks(Spawn, Flip)), 6)
}

// The first I kick absorbs the baked centre correction, so an unobstructed
// rotation covers the same cells true SRS rotation would.
func TestIFirstKickMatchesSRS(t *testing.T) {
	is := is.New(t)
	// Spawn I anchored at col 4 covers cols 3..6. SRS puts the CW bar in
	// the third column (col 5), rows -1..2 relative to the spawn row.
	k := I.Kicks(Spawn, CW)[0]
	is.Equal(k, Offset{Row: 0, Col: 1})
	var cols = map[int8]bool{}
	var rows []int8
	for _, o := range I.Offsets(CW) {
		cols[o.Col+k.Col] = true
		rows = append(rows, o.Row+k.Row)
	}
	is.Equal(len(cols), 1)
	is.True(cols[1])
	is.Equal(rows, []int8{-1, 0, 1, 2})

	// Four clockwise turns return to the start.
	var total Offset
	r := Spawn
	for i := 0; i < 4; i++ {
		total = total.Add(I.Kicks(r, r.CW())[0])
		r = r.CW()
	}
	is.Equal(total, Offset{})
}
