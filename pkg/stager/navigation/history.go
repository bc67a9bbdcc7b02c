package navigation

// History records previously displayed screen ids for back navigation.
// It lives in memory only.
type History struct {
	entries []string
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{entries: make([]string, 0)}
}

// Push records id as the most recent screen.
func (h *History) Push(id string) {
	h.entries = append(h.entries, id)
}

// Pop removes and returns the most recent id.
// Returns false if the history is empty.
func (h *History) Pop() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	id := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return id, true
}

// Peek returns the most recent id without removing it.
func (h *History) Peek() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *History) IsEmpty() bool {
	return len(h.entries) == 0
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Clear() {
	h.entries = h.entries[:0]
}
