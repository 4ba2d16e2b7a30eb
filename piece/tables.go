package piece

// An Offset is a (row, col) displacement. Rows grow downward.
type Offset struct {
	Row, Col int8
}

func (o Offset) Add(p Offset) Offset {
	return Offset{Row: o.Row + p.Row, Col: o.Col + p.Col}
}

func (o Offset) Sub(p Offset) Offset {
	return Offset{Row: o.Row - p.Row, Col: o.Col - p.Col}
}

// Cell offsets from the pose anchor, indexed by [piece][rotation].
// J, L, S, T and Z use the SRS centres. O fills the anchor and the three
// cells right and below it in every rotation. I bakes its centre correction
// into the map (see iShift), which keeps skeleton coordinates integral.
var offsets = [NumKinds][4][4]Offset{
	I: {
		Spawn: {{0, -1}, {0, 0}, {0, 1}, {0, 2}},
		CW:    {{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
		Flip:  {{0, -2}, {0, -1}, {0, 0}, {0, 1}},
		CCW:   {{-2, 0}, {-1, 0}, {0, 0}, {1, 0}},
	},
	J: {
		Spawn: {{-1, -1}, {0, -1}, {0, 0}, {0, 1}},
		CW:    {{-1, 0}, {-1, 1}, {0, 0}, {1, 0}},
		Flip:  {{0, -1}, {0, 0}, {0, 1}, {1, 1}},
		CCW:   {{-1, 0}, {0, 0}, {1, -1}, {1, 0}},
	},
	L: {
		Spawn: {{-1, 1}, {0, -1}, {0, 0}, {0, 1}},
		CW:    {{-1, 0}, {0, 0}, {1, 0}, {1, 1}},
		Flip:  {{0, -1}, {0, 0}, {0, 1}, {1, -1}},
		CCW:   {{-1, -1}, {-1, 0}, {0, 0}, {1, 0}},
	},
	O: {
		Spawn: {{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		CW:    {{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		Flip:  {{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		CCW:   {{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	},
	S: {
		Spawn: {{-1, 0}, {-1, 1}, {0, -1}, {0, 0}},
		CW:    {{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
		Flip:  {{0, 0}, {0, 1}, {1, -1}, {1, 0}},
		CCW:   {{-1, -1}, {0, -1}, {0, 0}, {1, 0}},
	},
	T: {
		Spawn: {{-1, 0}, {0, -1}, {0, 0}, {0, 1}},
		CW:    {{-1, 0}, {0, 0}, {0, 1}, {1, 0}},
		Flip:  {{0, -1}, {0, 0}, {0, 1}, {1, 0}},
		CCW:   {{-1, 0}, {0, -1}, {0, 0}, {1, 0}},
	},
	Z: {
		Spawn: {{-1, -1}, {-1, 0}, {0, 0}, {0, 1}},
		CW:    {{-1, 1}, {0, 0}, {0, 1}, {1, 0}},
		Flip:  {{0, -1}, {0, 0}, {1, 0}, {1, 1}},
		CCW:   {{-1, 0}, {0, -1}, {0, 0}, {1, -1}},
	},
}

// iShift is how far each baked I orientation sits from the true SRS
// rotation centre. Kicks are corrected by shift[from] - shift[to] so that a
// baked rotation lands on exactly the cells SRS would produce.
var iShift = [4]Offset{
	Spawn: {0, 0},
	CW:    {0, -1},
	Flip:  {-1, -1},
	CCW:   {-1, 0},
}

// xy converts an SRS table entry (x right, y up) into an Offset.
func xy(x, y int8) Offset {
	return Offset{Row: -y, Col: x}
}

var jlstzKicks = map[[2]Rotation][]Offset{
	{Spawn, CW}:  {xy(0, 0), xy(-1, 0), xy(-1, 1), xy(0, -2), xy(-1, -2)},
	{CW, Spawn}:  {xy(0, 0), xy(1, 0), xy(1, -1), xy(0, 2), xy(1, 2)},
	{CW, Flip}:   {xy(0, 0), xy(1, 0), xy(1, -1), xy(0, 2), xy(1, 2)},
	{Flip, CW}:   {xy(0, 0), xy(-1, 0), xy(-1, 1), xy(0, -2), xy(-1, -2)},
	{Flip, CCW}:  {xy(0, 0), xy(1, 0), xy(1, 1), xy(0, -2), xy(1, -2)},
	{CCW, Flip}:  {xy(0, 0), xy(-1, 0), xy(-1, -1), xy(0, 2), xy(-1, 2)},
	{CCW, Spawn}: {xy(0, 0), xy(-1, 0), xy(-1, -1), xy(0, 2), xy(-1, 2)},
	{Spawn, CCW}: {xy(0, 0), xy(1, 0), xy(1, 1), xy(0, -2), xy(1, -2)},
}

var iKicks = map[[2]Rotation][]Offset{
	{Spawn, CW}:  {xy(0, 0), xy(-2, 0), xy(1, 0), xy(-2, -1), xy(1, 2)},
	{CW, Spawn}:  {xy(0, 0), xy(2, 0), xy(-1, 0), xy(2, 1), xy(-1, -2)},
	{CW, Flip}:   {xy(0, 0), xy(-1, 0), xy(2, 0), xy(-1, 2), xy(2, -1)},
	{Flip, CW}:   {xy(0, 0), xy(1, 0), xy(-2, 0), xy(1, -2), xy(-2, 1)},
	{Flip, CCW}:  {xy(0, 0), xy(2, 0), xy(-1, 0), xy(2, 1), xy(-1, -2)},
	{CCW, Flip}:  {xy(0, 0), xy(-2, 0), xy(1, 0), xy(-2, -1), xy(1, 2)},
	{CCW, Spawn}: {xy(0, 0), xy(1, 0), xy(-2, 0), xy(1, -2), xy(-2, 1)},
	{Spawn, CCW}: {xy(0, 0), xy(-1, 0), xy(2, 0), xy(-1, 2), xy(2, -1)},
}

var halfTurnKicks = map[[2]Rotation][]Offset{
	{Spawn, Flip}: {xy(0, 0), xy(0, 1), xy(1, 1), xy(-1, 1), xy(1, 0), xy(-1, 0)},
	{Flip, Spawn}: {xy(0, 0), xy(0, -1), xy(-1, -1), xy(1, -1), xy(-1, 0), xy(1, 0)},
	{CW, CCW}:     {xy(0, 0), xy(1, 0), xy(1, 2), xy(1, 1), xy(0, 2), xy(0, 1)},
	{CCW, CW}:     {xy(0, 0), xy(-1, 0), xy(-1, 2), xy(-1, 1), xy(0, 2), xy(0, 1)},
}

// kicks[piece][from][to] is the ordered list of trial offsets.
var kicks [NumKinds][4][4][]Offset

func init() {
	for _, p := range All {
		for from := Spawn; from <= CCW; from++ {
			for _, to := range [3]Rotation{from.CW(), from.CCW(), from.Flip180()} {
				kicks[p][from][to] = buildKicks(p, from, to)
			}
		}
	}
}

func buildKicks(p Piece, from, to Rotation) []Offset {
	if p == O {
		return []Offset{{0, 0}}
	}
	var base []Offset
	switch {
	case to == from.Flip180():
		base = halfTurnKicks[[2]Rotation{from, to}]
	case p == I:
		base = iKicks[[2]Rotation{from, to}]
	default:
		base = jlstzKicks[[2]Rotation{from, to}]
	}
	out := make([]Offset, len(base))
	for i, k := range base {
		if p == I {
			k = k.Add(iShift[from]).Sub(iShift[to])
		}
		out[i] = k
	}
	return out
}

// Offsets returns the four occupied cells of p in rotation r, relative to
// the pose anchor.
func (p Piece) Offsets(r Rotation) [4]Offset {
	return offsets[p][r]
}

// Kicks returns the ordered trial offsets for rotating p from one
// orientation to another. The returned slice must not be modified.
func (p Piece) Kicks(from, to Rotation) []Offset {
	return kicks[p][from][to]
}
