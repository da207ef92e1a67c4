package platform

import (
	"sync"

	"github.com/dshills/inept/internal/renderer/core"
)

// NullBackend is an in-memory backend for tests and headless runs.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	title         string
	shows         int
	closed        bool
	events        chan RawEvent
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan RawEvent, 100),
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allocate()
	return nil
}

func (b *NullBackend) allocate() {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.events)
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) SetTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.title = title
}

// Title returns the last title set.
func (b *NullBackend) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.title
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y >= 0 && y < len(b.cells) && x >= 0 && x < len(b.cells[y]) {
		b.cells[y][x] = cell
	}
}

// Cell returns the cell at the given position.
func (b *NullBackend) Cell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y >= 0 && y < len(b.cells) && x >= 0 && x < len(b.cells[y]) {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	empty := core.EmptyCell()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = empty
		}
	}
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shows++
}

// Shows returns how many frames were presented.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

func (b *NullBackend) PollEvent() (RawEvent, bool) {
	ev, ok := <-b.events
	return ev, ok
}

func (b *NullBackend) PostEvent(ev RawEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.events <- ev:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

// Resize simulates a surface resize and posts the matching event.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width = width
	b.height = height
	b.allocate()
	b.mu.Unlock()
	b.PostEvent(RawEvent{Kind: RawResize, Width: width, Height: height})
}
