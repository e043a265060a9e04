package preview

import (
	"strings"
	"sync"
)

// Glyphs per particle weight. Faint particles render as dots, solid ones as
// heavier marks.
const (
	glyphStreak = '|'
	glyphDot    = '.'
	glyphFlake  = '*'
	glyphMote   = '·'
)

// rowScale stretches the vertical axis so that particle speeds tuned for a
// pixel canvas read sensibly on a terminal row grid.
const rowScale = 8

// cellSurface is a terminal-cell drawing target. The animation loop writes
// into it from its own goroutine; the TUI reads snapshots on each tick, so
// every access goes through the mutex.
type cellSurface struct {
	mu     sync.Mutex
	width  int
	height int
	cells  [][]rune
}

func newCellSurface(width, height int) *cellSurface {
	s := &cellSurface{}
	s.Resize(width, height)
	return s
}

// Resize reallocates the cell grid. Content is discarded; the next frame
// repaints everything anyway.
func (s *cellSurface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.width = width
	s.height = height
	s.cells = make([][]rune, height)
	for i := range s.cells {
		s.cells[i] = blankRow(width)
	}
}

func blankRow(width int) []rune {
	row := make([]rune, width)
	for i := range row {
		row[i] = ' '
	}
	return row
}

func (s *cellSurface) Bounds() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.width), float64(s.height * rowScale)
}

func (s *cellSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cells {
		s.cells[i] = blankRow(s.width)
	}
}

func (s *cellSurface) StrokeLine(x1, y1, _, y2, _ float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Rain streaks are vertical; scale their length down to a few cells so
	// they read as streaks rather than columns.
	length := int((y2 - y1) / rowScale)
	if length < 1 {
		length = 1
	}
	col := int(x1)
	row := int(y1 / rowScale)
	for i := 0; i < length; i++ {
		s.set(col, row+i, glyphStreak)
	}
}

func (s *cellSurface) FillCircle(x, y, radius, opacity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	glyph := glyphMote
	switch {
	case radius >= 2:
		glyph = glyphFlake
	case opacity >= 0.4:
		glyph = glyphDot
	}
	s.set(int(x), int(y/rowScale), glyph)
}

// set writes a glyph if the cell is in bounds. Callers hold the mutex.
func (s *cellSurface) set(col, row int, glyph rune) {
	if row < 0 || row >= s.height || col < 0 || col >= s.width {
		return
	}
	s.cells[row][col] = glyph
}

// Snapshot renders the grid as a newline-joined string.
func (s *cellSurface) Snapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for i, row := range s.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}
