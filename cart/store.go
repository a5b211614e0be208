package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Line is one distinct (menu item, customization set) combination in the cart.
type Line struct {
	ID             LineID          `json:"line_id"`
	MenuItemID     string          `json:"menu_item_id"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Customizations []Customization `json:"customizations"`
	Quantity       int             `json:"quantity"`
}

// UnitTotal is the price of a single unit including its customizations.
func (l Line) UnitTotal() decimal.Decimal {
	total := l.UnitPrice
	for _, c := range l.Customizations {
		total = total.Add(c.Price)
	}
	return total
}

// Subtotal = quantity × (unit price + Σ customization price).
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitTotal().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CustomizationNames returns the names in selection order.
func (l Line) CustomizationNames() []string {
	names := make([]string, len(l.Customizations))
	for i, c := range l.Customizations {
		names[i] = c.Name
	}
	return names
}

func (l Line) clone() Line {
	if l.Customizations != nil {
		l.Customizations = append([]Customization(nil), l.Customizations...)
	}
	return l
}

// EventKind describes which mutation produced an Event.
type EventKind string

const (
	EventAdded    EventKind = "added"
	EventRemoved  EventKind = "removed"
	EventCleared  EventKind = "cleared"
	EventRestored EventKind = "restored"
	EventConsumed EventKind = "consumed"
)

// Event is emitted after every mutation that changed the cart.
type Event struct {
	Kind       EventKind       `json:"kind"`
	LineID     LineID          `json:"line_id,omitempty"`
	Version    uint64          `json:"version"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Snapshot is a point-in-time copy of the cart used by checkout.
type Snapshot struct {
	Version uint64
	Lines   []Line
}

// Empty reports whether the snapshot holds no lines.
func (s Snapshot) Empty() bool { return len(s.Lines) == 0 }

// TotalPrice of the snapshotted lines.
func (s Snapshot) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Store holds the in-progress order of one user session.
// All methods are safe for concurrent use; each call is atomic.
type Store struct {
	mu      sync.Mutex
	lines   map[LineID]*Line
	order   []LineID
	version uint64

	subMu   sync.Mutex
	subs    map[uint64]func(Event)
	nextSub uint64
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{
		lines: make(map[LineID]*Line),
		subs:  make(map[uint64]func(Event)),
	}
}

// AddItem adds one unit of a menu item with the given customizations. A line
// with the same identity gets its quantity incremented, otherwise a new line is
// appended. Duplicate customization ids collapse to their first occurrence.
func (s *Store) AddItem(menuItemID, name string, unitPrice decimal.Decimal, customizations []Customization) LineID {
	cs := dedupe(customizations)
	id := lineIDFor(menuItemID, cs)

	s.mu.Lock()
	if line, ok := s.lines[id]; ok {
		line.Quantity++
	} else {
		s.lines[id] = &Line{
			ID:             id,
			MenuItemID:     menuItemID,
			Name:           name,
			UnitPrice:      unitPrice,
			Customizations: cs,
			Quantity:       1,
		}
		s.order = append(s.order, id)
	}
	ev := s.eventLocked(EventAdded, id)
	s.mu.Unlock()

	s.notify(ev)
	return id
}

// RemoveItem decrements the quantity of a line, dropping it at zero.
// Unknown ids are ignored.
func (s *Store) RemoveItem(id LineID) {
	s.mu.Lock()
	line, ok := s.lines[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	line.Quantity--
	if line.Quantity <= 0 {
		s.deleteLocked(id)
	}
	ev := s.eventLocked(EventRemoved, id)
	s.mu.Unlock()

	s.notify(ev)
}

// ClearCart empties the cart. Clearing an empty cart is a no-op.
func (s *Store) ClearCart() {
	s.mu.Lock()
	if len(s.order) == 0 {
		s.mu.Unlock()
		return
	}
	s.lines = make(map[LineID]*Line)
	s.order = nil
	ev := s.eventLocked(EventCleared, "")
	s.mu.Unlock()

	s.notify(ev)
}

// TotalItems returns the sum of quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalItemsLocked()
}

// TotalPrice returns the unrounded sum of line subtotals.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPriceLocked()
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Version increases on every mutation.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Line returns a copy of the line with the given id.
func (s *Store) Line(id LineID) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.lines[id]
	if !ok {
		return Line{}, false
	}
	return line.clone(), true
}

// Lines returns copies of all lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linesLocked()
}

// Snapshot captures the lines together with the current version.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Version: s.version, Lines: s.linesLocked()}
}

// Consume removes exactly the quantities captured in snap. When the cart has
// not changed since the snapshot this is equivalent to ClearCart; otherwise
// lines added after the snapshot are kept.
func (s *Store) Consume(snap Snapshot) {
	if snap.Empty() {
		return
	}

	s.mu.Lock()
	if s.version == snap.Version {
		s.lines = make(map[LineID]*Line)
		s.order = nil
	} else {
		for _, taken := range snap.Lines {
			line, ok := s.lines[taken.ID]
			if !ok {
				continue
			}
			line.Quantity -= taken.Quantity
			if line.Quantity <= 0 {
				s.deleteLocked(taken.ID)
			}
		}
	}
	ev := s.eventLocked(EventConsumed, "")
	s.mu.Unlock()

	s.notify(ev)
}

// Restore replaces the cart content with lines loaded from elsewhere (e.g. a
// cache). Identities are recomputed and lines sharing one are merged.
func (s *Store) Restore(lines []Line) {
	s.mu.Lock()
	s.lines = make(map[LineID]*Line, len(lines))
	s.order = nil
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		l = l.clone()
		l.Customizations = dedupe(l.Customizations)
		l.ID = lineIDFor(l.MenuItemID, l.Customizations)
		if existing, ok := s.lines[l.ID]; ok {
			existing.Quantity += l.Quantity
			continue
		}
		s.lines[l.ID] = &l
		s.order = append(s.order, l.ID)
	}
	ev := s.eventLocked(EventRestored, "")
	s.mu.Unlock()

	s.notify(ev)
}

// Subscribe registers fn to be called after each mutation. Callbacks run
// synchronously on the mutating goroutine, after the store lock is released.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (s *Store) eventLocked(kind EventKind, id LineID) Event {
	s.version++
	return Event{
		Kind:       kind,
		LineID:     id,
		Version:    s.version,
		TotalItems: s.totalItemsLocked(),
		TotalPrice: s.totalPriceLocked(),
	}
}

func (s *Store) deleteLocked(id LineID) {
	delete(s.lines, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) linesLocked() []Line {
	out := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.lines[id].clone())
	}
	return out
}

func (s *Store) totalItemsLocked() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) totalPriceLocked() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
