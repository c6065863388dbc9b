package view

import "sync"

// Login status texts shown next to the login form.
const (
	LoginPending = "…"
	LoginOK      = "OK"
	LoginFailed  = "Chyba prihlásenia"
)

// Surface is a display that view models are applied to. Each Apply call
// replaces the previous contents of its region; regions are independent.
type Surface interface {
	ApplyList(vm ViewModel)
	ApplyHealth(ind Indicator)
	ApplySession(box SessionBox)
	ApplyLoginStatus(status string)
}

// Snapshot is a point-in-time copy of a Board.
type Snapshot struct {
	Health      Indicator           `json:"health"`
	Session     SessionBox          `json:"session"`
	LoginStatus string              `json:"login_status,omitempty"`
	Lists       map[Section][]Entry `json:"lists"`
}

// Board is an in-memory Surface. It is safe for concurrent use, so the
// three collection refreshes may apply their sections in any order.
type Board struct {
	mu          sync.RWMutex
	health      Indicator
	session     SessionBox
	loginStatus string
	lists       map[Section][]Entry
	onChange    func(Section)
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{lists: make(map[Section][]Entry)}
}

// OnListChange registers fn to be called after a list section is replaced.
func (b *Board) OnListChange(fn func(Section)) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

func (b *Board) ApplyList(vm ViewModel) {
	entries := make([]Entry, len(vm.Entries))
	copy(entries, vm.Entries)

	b.mu.Lock()
	b.lists[vm.Section] = entries
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(vm.Section)
	}
}

func (b *Board) ApplyHealth(ind Indicator) {
	b.mu.Lock()
	b.health = ind
	b.mu.Unlock()
}

func (b *Board) ApplySession(box SessionBox) {
	b.mu.Lock()
	b.session = box
	b.mu.Unlock()
}

func (b *Board) ApplyLoginStatus(status string) {
	b.mu.Lock()
	b.loginStatus = status
	b.mu.Unlock()
}

// List returns a copy of one section's entries.
func (b *Board) List(s Section) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Entry, len(b.lists[s]))
	copy(out, b.lists[s])
	return out
}

// Snapshot copies the whole board.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	snap := Snapshot{
		Health:      b.health,
		Session:     b.session,
		LoginStatus: b.loginStatus,
		Lists:       make(map[Section][]Entry, len(b.lists)),
	}
	for s, entries := range b.lists {
		cp := make([]Entry, len(entries))
		copy(cp, entries)
		snap.Lists[s] = cp
	}
	return snap
}

var _ Surface = (*Board)(nil)
