package t2048

// Snapshot captures the settled state before a move, for undo.
type Snapshot struct {
	Values    Grid
	Score     int
	MoveCount int
}

// History is a stack of pre-move snapshots.
type History struct {
	entries []Snapshot
	limit   int // 0 = unlimited
}

// NewHistory creates a history that keeps at most limit snapshots.
// When full, the oldest snapshot is dropped. A limit <= 0 means unlimited.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// Push records a snapshot. The grid is copied.
func (h *History) Push(s Snapshot) {
	s.Values = s.Values.Clone()
	if h.limit > 0 && len(h.entries) >= h.limit {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, s)
}

// Pop removes and returns the most recent snapshot.
func (h *History) Pop() (Snapshot, error) {
	if len(h.entries) == 0 {
		return Snapshot{}, ErrEmptyHistory
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, nil
}

// Len returns the number of recorded snapshots.
func (h *History) Len() int {
	return len(h.entries)
}

// Limit returns the capacity, 0 when unlimited.
func (h *History) Limit() int {
	return h.limit
}

// Clear drops every snapshot.
func (h *History) Clear() {
	h.entries = nil
}
