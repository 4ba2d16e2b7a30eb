package board

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/pcfinder/piece"
)

func TestWithPlacementIsPure(t *testing.T) {
	is := is.New(t)
	var b Board
	nb := b.WithPlacement(piece.T, 21, 4, piece.Spawn)
	is.True(b.IsEmpty())
	is.Equal(nb.Count(), 4)
	is.Equal(nb.At(20, 4), piece.T)
	is.Equal(nb.At(21, 3), piece.T)
	is.Equal(nb.At(21, 4), piece.T)
	is.Equal(nb.At(21, 5), piece.T)
}

func TestClearLines(t *testing.T) {
	is := is.New(t)
	b, err := FromRows([]string{
		"T.........",
		"XXXXXXXXXX",
		"IIII.JJJJJ",
		"XXXXXXXXXX",
	})
	is.NoErr(err)
	is.Equal(b.Height(), 4)
	is.Equal(b.ClearLines(), 2)
	is.Equal(b.Height(), 2)
	is.Equal(b.Rows(), []string{
		"T.........",
		"IIII.JJJJJ",
	})
	is.Equal(b.ClearLines(), 0)
}

func TestFromRowsErrors(t *testing.T) {
	is := is.New(t)
	_, err := FromRows([]string{"..........."})
	is.True(err != nil)
	_, err = FromRows([]string{"....?....."})
	is.True(err != nil)
	_, err = FromRows(make([]string, NumRows+1))
	is.Equal(err, ErrTooManyRows)
}

func TestFromStringRoundTrip(t *testing.T) {
	is := is.New(t)
	text := `
		..SS......
		XSS...XXXX
	`
	b, err := FromString(text)
	is.NoErr(err)
	is.Equal(b.String(), "..SS......\nXSS...XXXX")
	is.Equal(b.CountRows(LastRow, NumRows), 7)
	is.True(b.Occupied(LastRow, 0))
	is.True(!b.Occupied(LastRow, 3))
}

func BenchmarkClearLines(b *testing.B) {
	full, _ := FromRows([]string{
		"XXXXXXXXXX",
		"XXXX.XXXXX",
		"XXXXXXXXXX",
		"XXXXXXXXXX",
	})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bd := full
		bd.ClearLines()
	}
}
