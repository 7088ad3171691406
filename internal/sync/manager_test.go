package sync

import (
	"context"
	"io"
	"log/slog"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/chorequest/internal/engine"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/vault"
)

// fakeClock drives AfterFunc timers manually so debounce behavior is
// deterministic.
type fakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{deadline: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
	for _, t := range c.timers {
		if !t.fired && !t.stopped && !t.deadline.After(c.now) {
			t.fired = true
			t.fn()
		}
	}
}

type memSaver struct {
	mu    stdsync.Mutex
	saves int
	last  model.AppState
}

func (s *memSaver) Save(state model.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.last = state.Clone()
	return nil
}

// countingStore wraps a vault store to count pushes.
type countingStore struct {
	vault.Store
	mu   stdsync.Mutex
	puts int
}

func (c *countingStore) Put(ctx context.Context, code string, state model.AppState) error {
	c.mu.Lock()
	c.puts++
	c.mu.Unlock()
	return c.Store.Put(ctx, code, state)
}

func (c *countingStore) putCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puts
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newManager(t *testing.T, initial model.AppState) (*Manager, *fakeClock, *memSaver, *countingStore) {
	t.Helper()
	clock := newFakeClock()
	saver := &memSaver{}
	remote := &countingStore{Store: vault.NewMemoryStore()}
	m := New(initial, saver, remote, testLogger(), Options{Clock: clock})
	t.Cleanup(m.Close)
	return m, clock, saver, remote
}

func linkedState(code string) model.AppState {
	s := model.InitialState()
	s.Cloud = model.CloudConfig{Endpoint: "nats://vault.test:4222", Credential: "cred", FamilyCode: code}
	return s
}

func TestApplyPersistsWriteThrough(t *testing.T) {
	m, _, saver, _ := newManager(t, model.InitialState())

	m.Apply(func(s model.AppState) model.AppState {
		return engine.AdjustStats(s, "1", 5, 0, m.Now())
	})

	require.Equal(t, 1, saver.saves)
	assert.Equal(t, 5, saver.last.Children[0].Coins)
}

func TestUnlinkedFamilyNeverPushes(t *testing.T) {
	m, clock, _, remote := newManager(t, model.InitialState())

	m.Apply(func(s model.AppState) model.AppState {
		return engine.AdjustStats(s, "1", 5, 0, m.Now())
	})
	clock.Advance(5 * time.Second)

	assert.Zero(t, remote.putCount())
}

func TestDebounceIsTrailing(t *testing.T) {
	m, clock, _, remote := newManager(t, linkedState("GHOST-7"))

	m.Apply(func(s model.AppState) model.AppState {
		return engine.AdjustStats(s, "1", 5, 0, m.Now())
	})

	clock.Advance(999 * time.Millisecond)
	assert.Zero(t, remote.putCount(), "push must wait the full debounce")

	clock.Advance(time.Millisecond)
	require.Equal(t, 1, remote.putCount())

	pushed, err := remote.Get(context.Background(), "GHOST-7")
	require.NoError(t, err)
	assert.Equal(t, 5, pushed.Children[0].Coins)
	assert.Empty(t, pushed.Cloud.Endpoint, "pushed snapshot must be sanitized")
	assert.Empty(t, pushed.Cloud.FamilyCode)
}

func TestBurstOfChangesCoalescesIntoOnePush(t *testing.T) {
	m, clock, _, remote := newManager(t, linkedState("GHOST-7"))

	bump := func(s model.AppState) model.AppState {
		return engine.AdjustStats(s, "1", 1, 0, m.Now())
	}

	m.Apply(bump)
	clock.Advance(500 * time.Millisecond)
	m.Apply(bump)
	clock.Advance(999 * time.Millisecond)
	assert.Zero(t, remote.putCount(), "second change must restart the window")

	clock.Advance(time.Millisecond)
	require.Equal(t, 1, remote.putCount())

	pushed, err := remote.Get(context.Background(), "GHOST-7")
	require.NoError(t, err)
	assert.Equal(t, 2, pushed.Children[0].Coins, "final snapshot carries both changes")
}

func TestJoinUnknownCode(t *testing.T) {
	m, _, _, _ := newManager(t, model.InitialState())

	_, err := m.Join(context.Background(), "GHOST-7")
	assert.ErrorIs(t, err, vault.ErrNotFound)
}

func TestJoinAdoptsRemoteKeepingLocalCloud(t *testing.T) {
	initial := model.InitialState()
	initial.Cloud = model.CloudConfig{Endpoint: "nats://vault.test:4222", Credential: "cred"}
	m, _, _, remote := newManager(t, initial)

	family := model.InitialState()
	family.Children = []model.Child{{ID: "x1", Name: "Zulu", Level: 3}}
	family.ParentPin = "5555"
	require.NoError(t, remote.Store.Put(context.Background(), "GHOST-7", family.Sanitized()))

	got, err := m.Join(context.Background(), "ghost-7")
	require.NoError(t, err)

	assert.Equal(t, "Zulu", got.Children[0].Name)
	assert.Equal(t, "5555", got.ParentPin)
	assert.Equal(t, "GHOST-7", got.Cloud.FamilyCode, "code is normalized")
	assert.Equal(t, "nats://vault.test:4222", got.Cloud.Endpoint, "local cloud settings survive")
	require.NotEmpty(t, got.Logs)
	assert.Equal(t, "SATELLITE SYNC", got.Logs[0].Action)
	assert.Equal(t, "Linked to vault: GHOST-7", got.Logs[0].Value)
}

func TestCreateUploadsImmediately(t *testing.T) {
	initial := model.InitialState()
	initial.Cloud = model.CloudConfig{Endpoint: "nats://vault.test:4222", Credential: "cred"}
	m, _, _, remote := newManager(t, initial)

	code, err := m.Create(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, code)

	pushed, err := remote.Get(context.Background(), code)
	require.NoError(t, err)
	assert.Len(t, pushed.Children, 1)
	assert.Empty(t, pushed.Cloud.FamilyCode, "uploaded snapshot is sanitized")

	state := m.State()
	assert.Equal(t, code, state.Cloud.FamilyCode)
	assert.Equal(t, "VAULT CREATED", state.Logs[0].Action)
	assert.Equal(t, "Initialized vault: "+code, state.Logs[0].Value)
}

func TestRemoteRevisionIsAdoptedWithoutEcho(t *testing.T) {
	initial := model.InitialState()
	initial.Cloud = model.CloudConfig{Endpoint: "nats://vault.test:4222", Credential: "cred"}
	m, clock, _, remote := newManager(t, initial)

	family := model.InitialState()
	require.NoError(t, remote.Store.Put(context.Background(), "GHOST-7", family.Sanitized()))
	_, err := m.Join(context.Background(), "GHOST-7")
	require.NoError(t, err)
	clock.Advance(2 * time.Second) // drain the join push
	base := remote.putCount()

	// Another device writes a newer revision.
	other := family.Clone()
	other.Children[0].Coins = 99
	require.NoError(t, remote.Store.Put(context.Background(), "GHOST-7", other.Sanitized()))

	got := m.State()
	assert.Equal(t, 99, got.Children[0].Coins, "remote revision adopted")
	assert.Equal(t, "GHOST-7", got.Cloud.FamilyCode, "local cloud settings kept")

	clock.Advance(5 * time.Second)
	assert.Equal(t, base, remote.putCount(), "adoption must not schedule a push")
}

func TestDisconnectClearsOnlyFamilyCode(t *testing.T) {
	m, clock, _, remote := newManager(t, linkedState("GHOST-7"))

	got := m.Disconnect()
	assert.Empty(t, got.Cloud.FamilyCode)
	assert.Equal(t, "nats://vault.test:4222", got.Cloud.Endpoint)
	assert.Len(t, got.Children, 1, "family data stays on the device")

	m.Apply(func(s model.AppState) model.AppState {
		return engine.AdjustStats(s, "1", 1, 0, m.Now())
	})
	clock.Advance(5 * time.Second)
	assert.Zero(t, remote.putCount(), "unlinked device must not push")
}

func TestApplyErrLeavesStateUntouched(t *testing.T) {
	m, _, saver, _ := newManager(t, model.InitialState())

	_, err := m.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.ClaimReward(s, "r1", "1", m.Now())
	})
	assert.ErrorIs(t, err, engine.ErrInsufficientCoins)
	assert.Zero(t, saver.saves, "failed transitions are not persisted")
	assert.Zero(t, m.State().Children[0].Coins)
}

func TestCloseFlushesPendingPush(t *testing.T) {
	clock := newFakeClock()
	saver := &memSaver{}
	remote := &countingStore{Store: vault.NewMemoryStore()}
	m := New(linkedState("GHOST-7"), saver, remote, testLogger(), Options{Clock: clock})

	m.Apply(func(s model.AppState) model.AppState {
		return engine.AdjustStats(s, "1", 5, 0, m.Now())
	})
	require.Zero(t, remote.putCount())

	m.Close()
	assert.Equal(t, 1, remote.putCount(), "shutdown must not drop the last change")
}

func TestOnChangeFiresAfterEveryCommit(t *testing.T) {
	m, _, _, _ := newManager(t, model.InitialState())

	var notified []model.AppState
	m.SetOnChange(func(s model.AppState) { notified = append(notified, s) })

	m.Apply(func(s model.AppState) model.AppState {
		return engine.AdjustStats(s, "1", 5, 0, m.Now())
	})
	require.Len(t, notified, 1)
	assert.Equal(t, 5, notified[0].Children[0].Coins)
}
