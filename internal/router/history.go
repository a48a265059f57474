package router

import "github.com/idilsaglam/todoclient/internal/model"

// History is a browser-style navigation stack.
type History struct {
	entries []model.Location
}

// NewHistory starts a history at loc.
func NewHistory(loc model.Location) *History {
	loc.Pathname = Clean(loc.Pathname)
	return &History{entries: []model.Location{loc}}
}

func (h *History) Current() model.Location { return h.entries[len(h.entries)-1] }

func (h *History) Len() int { return len(h.entries) }

func (h *History) Push(loc model.Location) {
	loc.Pathname = Clean(loc.Pathname)
	h.entries = append(h.entries, loc)
}

// Replace swaps the current entry, so Back skips it.
func (h *History) Replace(loc model.Location) {
	loc.Pathname = Clean(loc.Pathname)
	h.entries[len(h.entries)-1] = loc
}

// Back drops the current entry and reports whether there was one to go
// back to.
func (h *History) Back() bool {
	if len(h.entries) < 2 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}
