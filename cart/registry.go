package cart

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Mirror keeps a copy of each user's cart outside the process so a session
// can be resumed after a restart.
type Mirror interface {
	Load(ctx context.Context, userID string) ([]Line, error)
	Save(ctx context.Context, userID string, lines []Line) error
	Delete(ctx context.Context, userID string) error
}

// Observer receives every cart event together with the owning user.
type Observer func(userID string, ev Event)

type session struct {
	store *Store
	unsub []func()

	// saveMu orders mirror writes; saved is the last version written.
	saveMu sync.Mutex
	saved  uint64
}

// Registry owns one Store per user session.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*session
	observers []Observer
	mirror    Mirror
	log       logrus.FieldLogger
	timeout   time.Duration
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMirror persists carts through m on every change.
func WithMirror(m Mirror) RegistryOption {
	return func(r *Registry) { r.mirror = m }
}

// WithLogger sets the logger used for mirror failures.
func WithLogger(l logrus.FieldLogger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*session),
		log:      logrus.StandardLogger(),
		timeout:  2 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Observe registers fn for carts opened from now on and for those already open.
func (r *Registry) Observe(fn Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
	for userID, sess := range r.sessions {
		sess.unsub = append(sess.unsub, subscribeObserver(sess.store, userID, fn))
	}
}

// Open returns the user's cart, creating it on first use. A new cart starts
// empty unless the mirror holds a saved copy. The mirror is read without
// holding the registry lock.
func (r *Registry) Open(ctx context.Context, userID string) *Store {
	if store, ok := r.Get(userID); ok {
		return store
	}

	store := NewStore()
	if r.mirror != nil {
		loadCtx, cancel := context.WithTimeout(ctx, r.timeout)
		lines, err := r.mirror.Load(loadCtx, userID)
		cancel()
		if err != nil {
			r.log.WithError(err).WithField("user_id", userID).Warn("cart mirror load failed, starting empty")
		} else if len(lines) > 0 {
			store.Restore(lines)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// another request may have opened the session while we were loading
	if sess, ok := r.sessions[userID]; ok {
		return sess.store
	}

	sess := &session{store: store, saved: store.Version()}
	if r.mirror != nil {
		sess.unsub = append(sess.unsub, store.Subscribe(func(Event) { r.save(userID, sess) }))
	}
	for _, fn := range r.observers {
		sess.unsub = append(sess.unsub, subscribeObserver(store, userID, fn))
	}
	r.sessions[userID] = sess
	return store
}

// Get returns the user's cart if a session is open.
func (r *Registry) Get(userID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[userID]
	if !ok {
		return nil, false
	}
	return sess.store, true
}

// Close ends the session on logout: the cart is cleared and forgotten.
func (r *Registry) Close(ctx context.Context, userID string) {
	r.mu.Lock()
	sess, ok := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()

	if !ok {
		return
	}
	sess.store.ClearCart()
	for _, unsub := range sess.unsub {
		unsub()
	}
	if r.mirror != nil {
		if err := r.mirror.Delete(ctx, userID); err != nil {
			r.log.WithError(err).WithField("user_id", userID).Warn("cart mirror delete failed")
		}
	}
}

// save writes the current cart. Writes of one session are serialized and a
// version already written is skipped, so the mirror never goes back in time.
func (r *Registry) save(userID string, sess *session) {
	sess.saveMu.Lock()
	defer sess.saveMu.Unlock()

	snap := sess.store.Snapshot()
	if snap.Version <= sess.saved {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.mirror.Save(ctx, userID, snap.Lines); err != nil {
		r.log.WithError(err).WithField("user_id", userID).Warn("cart mirror save failed")
		return
	}
	sess.saved = snap.Version
}

func subscribeObserver(store *Store, userID string, fn Observer) func() {
	return store.Subscribe(func(ev Event) { fn(userID, ev) })
}
