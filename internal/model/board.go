package model

// BoardSize is the grid dimension for all games (19x19)
const BoardSize = 19

// CellState is the contents of a single board intersection.
// The numeric values are part of the wire format.
type CellState uint8

const (
	CellEmpty CellState = 0
	CellBlack CellState = 1
	CellWhite CellState = 2
)

// Color identifies one of the two seats in a room
type Color string

const (
	ColorBlack Color = "black"
	ColorWhite Color = "white"
)

// Valid returns true if the color is black or white
func (c Color) Valid() bool {
	return c == ColorBlack || c == ColorWhite
}

// Opponent returns the other color
func (c Color) Opponent() Color {
	if c == ColorBlack {
		return ColorWhite
	}
	return ColorBlack
}

// Cell returns the cell state for a stone of this color
func (c Color) Cell() CellState {
	if c == ColorBlack {
		return CellBlack
	}
	return CellWhite
}

// Position identifies an intersection on the board
type Position struct {
	X int `json:"x"` // column, 0-indexed from the left
	Y int `json:"y"` // row, 0-indexed from the top
}

// Board is a square grid of intersections.
// Cells is row-major: Cells[y][x].
type Board struct {
	Size  int
	Cells [][]CellState
}

// NewBoard creates an empty board of the given size
func NewBoard(size int) *Board {
	cells := make([][]CellState, size)
	for i := range cells {
		cells[i] = make([]CellState, size)
	}
	return &Board{
		Size:  size,
		Cells: cells,
	}
}

// InBounds returns true if the position is within the grid
func (b *Board) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < b.Size && pos.Y >= 0 && pos.Y < b.Size
}

// Get returns the cell state at the given position, or CellEmpty if out of bounds
func (b *Board) Get(pos Position) CellState {
	if !b.InBounds(pos) {
		return CellEmpty
	}
	return b.Cells[pos.Y][pos.X]
}

// Set places a cell state at the given position
func (b *Board) Set(pos Position, state CellState) {
	if b.InBounds(pos) {
		b.Cells[pos.Y][pos.X] = state
	}
}

// IsEmpty returns true if the intersection at the given position is vacant
func (b *Board) IsEmpty(pos Position) bool {
	return b.Get(pos) == CellEmpty
}

// StoneCount returns the number of stones of the given state on the board
func (b *Board) StoneCount(state CellState) int {
	count := 0
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			if b.Cells[y][x] == state {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	cells := make([][]CellState, b.Size)
	for y := range cells {
		cells[y] = make([]CellState, b.Size)
		copy(cells[y], b.Cells[y])
	}
	return &Board{
		Size:  b.Size,
		Cells: cells,
	}
}
