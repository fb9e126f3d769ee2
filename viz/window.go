package viz

// Capacity is the number of notes the chart shows
const Capacity = 10

// Entry is one bar of the chart
type Entry struct {
	Name     string
	Velocity uint8
}

// Window keeps the most recent notes, oldest first
type Window struct {
	entries []Entry
	size    int
}

// NewWindow returns a window holding up to size entries (Capacity if <= 0)
func NewWindow(size int) *Window {
	if size <= 0 {
		size = Capacity
	}
	return &Window{size: size, entries: make([]Entry, 0, size)}
}

// Push appends a note and evicts the oldest beyond capacity.
// Velocity 0 is a note-off in disguise and is ignored.
func (w *Window) Push(name string, velocity uint8) bool {
	if velocity == 0 {
		return false
	}
	w.entries = append(w.entries, Entry{Name: name, Velocity: velocity})
	if n := len(w.entries) - w.size; n > 0 {
		w.entries = append(w.entries[:0], w.entries[n:]...)
	}
	return true
}

// Entries returns a copy, oldest first
func (w *Window) Entries() []Entry {
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *Window) Len() int {
	return len(w.entries)
}

func (w *Window) Cap() int {
	return w.size
}

// Reset drops all entries
func (w *Window) Reset() {
	w.entries = w.entries[:0]
}
