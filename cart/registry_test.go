package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryMirror struct {
	mu      sync.Mutex
	data    map[string][]Line
	loadErr error
	deletes []string
}

func newMemoryMirror() *memoryMirror {
	return &memoryMirror{data: make(map[string][]Line)}
}

func (m *memoryMirror) Load(_ context.Context, userID string) ([]Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[userID], nil
}

func (m *memoryMirror) Save(_ context.Context, userID string, lines []Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID] = lines
	return nil
}

func (m *memoryMirror) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	m.deletes = append(m.deletes, userID)
	return nil
}

func TestRegistry_OpenReturnsSameStorePerUser(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	a := r.Open(ctx, "user-1")
	b := r.Open(ctx, "user-1")
	c := r.Open(ctx, "user-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 0, a.Len())
}

func TestRegistry_CloseClearsAndForgets(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	store := r.Open(ctx, "user-1")
	store.AddItem(burgerID, "Veg Burger", rupees("120"), nil)

	r.Close(ctx, "user-1")

	assert.Equal(t, 0, store.Len())
	_, ok := r.Get("user-1")
	assert.False(t, ok)

	fresh := r.Open(ctx, "user-1")
	assert.NotSame(t, store, fresh)
	assert.Equal(t, 0, fresh.Len())

	// closing an unknown session is harmless
	r.Close(ctx, "nobody")
}

func TestRegistry_MirrorRoundTrip(t *testing.T) {
	mirror := newMemoryMirror()
	ctx := context.Background()

	r1 := NewRegistry(WithMirror(mirror))
	store := r1.Open(ctx, "user-1")
	store.AddItem(burgerID, "Veg Burger", rupees("120"), []Customization{cheese})
	store.AddItem(burgerID, "Veg Burger", rupees("120"), []Customization{cheese})

	// a second process resumes the cart
	r2 := NewRegistry(WithMirror(mirror))
	resumed := r2.Open(ctx, "user-1")
	require.Equal(t, 1, resumed.Len())
	assert.Equal(t, 2, resumed.TotalItems())
	assert.True(t, rupees("280").Equal(resumed.TotalPrice()))

	r2.Close(ctx, "user-1")
	assert.Equal(t, []string{"user-1"}, mirror.deletes)
}

func TestRegistry_MirrorLoadFailureStartsEmpty(t *testing.T) {
	mirror := newMemoryMirror()
	mirror.loadErr = errors.New("redis down")

	r := NewRegistry(WithMirror(mirror))
	store := r.Open(context.Background(), "user-1")

	assert.Equal(t, 0, store.Len())
}

func TestRegistry_ObserveSeesEventsWithUser(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	early := r.Open(ctx, "user-early")

	var mu sync.Mutex
	seen := map[string]int{}
	r.Observe(func(userID string, ev Event) {
		mu.Lock()
		seen[userID] = ev.TotalItems
		mu.Unlock()
	})

	late := r.Open(ctx, "user-late")
	early.AddItem(burgerID, "Veg Burger", rupees("120"), nil)
	late.AddItem(burgerID, "Veg Burger", rupees("120"), nil)
	late.AddItem(burgerID, "Veg Burger", rupees("120"), nil)

	assert.Equal(t, map[string]int{"user-early": 1, "user-late": 2}, seen)
}

// slowMirror blocks Load for one user and the first Save until released.
type slowMirror struct {
	*memoryMirror
	slowUser    string
	loading     chan struct{}
	saving      chan struct{}
	release     chan struct{}
	saveOnce    sync.Once
	releaseOnce sync.Once
}

func newSlowMirror(slowUser string) *slowMirror {
	return &slowMirror{
		memoryMirror: newMemoryMirror(),
		slowUser:     slowUser,
		loading:      make(chan struct{}, 1),
		saving:       make(chan struct{}, 1),
		release:      make(chan struct{}),
	}
}

func (m *slowMirror) Load(ctx context.Context, userID string) ([]Line, error) {
	if userID == m.slowUser {
		m.loading <- struct{}{}
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.memoryMirror.Load(ctx, userID)
}

func (m *slowMirror) Save(ctx context.Context, userID string, lines []Line) error {
	first := false
	m.saveOnce.Do(func() { first = true })
	if first {
		m.saving <- struct{}{}
		<-m.release
	}
	return m.memoryMirror.Save(ctx, userID, lines)
}

func (m *slowMirror) unblock() {
	m.releaseOnce.Do(func() { close(m.release) })
}

func TestRegistry_SlowMirrorLoadDoesNotBlockOtherUsers(t *testing.T) {
	mirror := newSlowMirror("slow-user")
	r := NewRegistry(WithMirror(mirror))
	t.Cleanup(mirror.unblock)
	ctx := context.Background()

	slowDone := make(chan *Store, 1)
	go func() { slowDone <- r.Open(ctx, "slow-user") }()
	<-mirror.loading

	fastDone := make(chan *Store, 1)
	go func() { fastDone <- r.Open(ctx, "fast-user") }()

	select {
	case store := <-fastDone:
		assert.Equal(t, 0, store.Len())
	case <-time.After(time.Second):
		t.Fatal("Open of another user waited for a slow mirror load")
	}

	mirror.unblock()
	slow := <-slowDone
	assert.Same(t, slow, r.Open(ctx, "slow-user"))
}

func TestRegistry_MirrorLoadUsesTimeout(t *testing.T) {
	mirror := newSlowMirror("user-1")
	r := NewRegistry(WithMirror(mirror))
	r.timeout = 20 * time.Millisecond
	t.Cleanup(mirror.unblock)

	done := make(chan *Store, 1)
	go func() { done <- r.Open(context.Background(), "user-1") }()
	<-mirror.loading

	select {
	case store := <-done:
		assert.Equal(t, 0, store.Len())
	case <-time.After(time.Second):
		t.Fatal("mirror load was not bounded by the registry timeout")
	}
}

func TestRegistry_ConcurrentOpenSharesOneStore(t *testing.T) {
	r := NewRegistry(WithMirror(newMemoryMirror()))
	ctx := context.Background()

	stores := make([]*Store, 20)
	var wg sync.WaitGroup
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i] = r.Open(ctx, "user-1")
		}(i)
	}
	wg.Wait()

	for _, s := range stores[1:] {
		assert.Same(t, stores[0], s)
	}
}

func TestRegistry_MirrorKeepsLatestStateUnderConcurrentWrites(t *testing.T) {
	mirror := newSlowMirror("")
	r := NewRegistry(WithMirror(mirror))
	t.Cleanup(mirror.unblock)
	ctx := context.Background()

	store := r.Open(ctx, "user-1")

	// the first save stalls with the added line in hand
	added := make(chan struct{})
	go func() {
		store.AddItem(burgerID, "Veg Burger", rupees("120"), nil)
		close(added)
	}()
	<-mirror.saving

	cleared := make(chan struct{})
	go func() {
		store.ClearCart()
		close(cleared)
	}()

	mirror.unblock()
	<-added
	<-cleared

	mirror.mu.Lock()
	defer mirror.mu.Unlock()
	assert.Empty(t, mirror.data["user-1"])
}
