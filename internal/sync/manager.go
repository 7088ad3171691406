// Package sync owns the live family snapshot. Every mutation flows through
// the Manager, which persists each new snapshot locally and pushes it to the
// remote vault on a trailing debounce so bursts of activity coalesce into one
// write.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/dukerupert/chorequest/internal/engine"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/vault"
)

// DefaultDebounce is how long after the last local change the push fires.
const DefaultDebounce = time.Second

const pushTimeout = 10 * time.Second

// Saver is the local write-through persistence hook.
type Saver interface {
	Save(model.AppState) error
}

// Options tune the Manager. Zero values select production behavior.
type Options struct {
	Debounce time.Duration
	Clock    Clock
}

// Manager serializes access to the family snapshot. All reads and writes go
// through its mutex, giving the rest of the app single-writer semantics.
type Manager struct {
	saver  Saver
	remote vault.Store
	logger *slog.Logger
	clock  Clock
	wait   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu        stdsync.Mutex
	state     model.AppState
	timer     Timer
	stopWatch func()

	onChange func(model.AppState)
}

// New builds a Manager around an already-loaded snapshot. Call Resume to
// reattach to a vault the snapshot is linked to.
func New(initial model.AppState, saver Saver, remote vault.Store, logger *slog.Logger, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		saver:  saver,
		remote: remote,
		logger: logger,
		clock:  opts.Clock,
		wait:   opts.Debounce,
		ctx:    ctx,
		cancel: cancel,
		state:  initial,
	}
}

// SetOnChange registers a hook invoked with each new snapshot, after it has
// been persisted. Used to feed the live UI broadcast.
func (m *Manager) SetOnChange(fn func(model.AppState)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Now exposes the manager's clock so callers stamp transitions consistently.
func (m *Manager) Now() time.Time { return m.clock.Now() }

// State returns a copy of the current snapshot.
func (m *Manager) State() model.AppState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Apply runs an infallible transition, persists the result, and schedules a
// vault push when the family is linked.
func (m *Manager) Apply(fn func(model.AppState) model.AppState) model.AppState {
	m.mu.Lock()
	next := fn(m.state)
	m.commitLocked(next)
	hook := m.onChange
	m.mu.Unlock()

	if hook != nil {
		hook(next.Clone())
	}
	return next
}

// ApplyErr runs a fallible transition. On error the snapshot is untouched and
// nothing is persisted or pushed.
func (m *Manager) ApplyErr(fn func(model.AppState) (model.AppState, error)) (model.AppState, error) {
	m.mu.Lock()
	next, err := fn(m.state)
	if err != nil {
		m.mu.Unlock()
		return next, err
	}
	m.commitLocked(next)
	hook := m.onChange
	m.mu.Unlock()

	if hook != nil {
		hook(next.Clone())
	}
	return next, nil
}

func (m *Manager) commitLocked(next model.AppState) {
	m.state = next
	if err := m.saver.Save(next); err != nil {
		m.logger.Error("persist snapshot", "error", err)
	}
	m.schedulePushLocked()
}

func (m *Manager) schedulePushLocked() {
	if m.state.Cloud.FamilyCode == "" {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = m.clock.AfterFunc(m.wait, m.flush)
}

// flush pushes the current snapshot to the vault. It runs on the debounce
// timer and never holds the mutex across the network call.
func (m *Manager) flush() {
	m.mu.Lock()
	m.timer = nil
	code := m.state.Cloud.FamilyCode
	if code == "" {
		m.mu.Unlock()
		return
	}
	snap := m.state.Sanitized()
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(m.ctx, pushTimeout)
	defer cancel()
	if err := m.remote.Put(ctx, code, snap); err != nil {
		m.logger.Error("push snapshot to vault", "code", code, "error", err)
		return
	}
	m.logger.Debug("pushed snapshot", "code", code)
}

// adoptRemote replaces the local snapshot with one written by another device,
// keeping this device's cloud settings. Adoption never schedules a push;
// echoing a revision back would have devices trading writes forever.
func (m *Manager) adoptRemote(remote model.AppState) {
	m.mu.Lock()
	cloud := m.state.Cloud
	next := remote.Clone()
	next.Cloud = cloud
	m.state = next
	if err := m.saver.Save(next); err != nil {
		m.logger.Error("persist adopted snapshot", "error", err)
	}
	hook := m.onChange
	m.mu.Unlock()

	if hook != nil {
		hook(next.Clone())
	}
}

// Join links this device to an existing vault. The remote snapshot replaces
// local family data wholesale; only cloud settings survive. ErrNotFound means
// the code does not exist, any other error is transport trouble.
func (m *Manager) Join(ctx context.Context, code string) (model.AppState, error) {
	code = vault.NormalizeCode(code)
	if code == "" {
		return model.AppState{}, vault.ErrNotFound
	}

	remote, err := m.remote.Get(ctx, code)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return model.AppState{}, vault.ErrNotFound
		}
		return model.AppState{}, fmt.Errorf("join vault: %w", err)
	}

	m.mu.Lock()
	cloud := m.state.Cloud
	cloud.FamilyCode = code
	next := remote.Clone()
	next.Cloud = cloud
	next = engine.AppendLog(next, "System", "SATELLITE SYNC", model.LogSystem,
		fmt.Sprintf("Linked to vault: %s", code), m.clock.Now())
	m.commitLocked(next)
	hook := m.onChange
	m.mu.Unlock()

	if err := m.watch(code); err != nil {
		m.logger.Error("watch vault after join", "code", code, "error", err)
	}
	if hook != nil {
		hook(next.Clone())
	}
	return next, nil
}

// Create provisions a fresh vault under a generated code and uploads the
// current family immediately so other devices can join right away.
func (m *Manager) Create(ctx context.Context) (string, error) {
	code, err := m.freshCode(ctx)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	next := m.state.Clone()
	next.Cloud.FamilyCode = code
	next = engine.AppendLog(next, "System", "VAULT CREATED", model.LogSystem,
		fmt.Sprintf("Initialized vault: %s", code), m.clock.Now())
	m.state = next
	if err := m.saver.Save(next); err != nil {
		m.logger.Error("persist snapshot", "error", err)
	}
	snap := next.Sanitized()
	hook := m.onChange
	m.mu.Unlock()

	if err := m.remote.Put(ctx, code, snap); err != nil {
		return "", fmt.Errorf("create vault: %w", err)
	}
	if err := m.watch(code); err != nil {
		m.logger.Error("watch vault after create", "code", code, "error", err)
	}
	if hook != nil {
		hook(next.Clone())
	}
	return code, nil
}

// freshCode generates a code not already in use. Collisions are unlikely but
// joining a stranger's family by accident would be worse than a retry.
func (m *Manager) freshCode(ctx context.Context) (string, error) {
	for i := 0; i < 16; i++ {
		code := vault.GenerateCode()
		_, err := m.remote.Get(ctx, code)
		if errors.Is(err, vault.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe vault code: %w", err)
		}
	}
	return "", errors.New("could not find an unused family code")
}

// Resume reattaches the vault watch for a snapshot that was already linked
// when it was loaded from disk.
func (m *Manager) Resume() error {
	m.mu.Lock()
	code := m.state.Cloud.FamilyCode
	m.mu.Unlock()
	if code == "" {
		return nil
	}
	return m.watch(code)
}

func (m *Manager) watch(code string) error {
	stop, err := m.remote.Subscribe(m.ctx, code, m.adoptRemote)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if m.stopWatch != nil {
		m.stopWatch()
	}
	m.stopWatch = stop
	m.mu.Unlock()
	return nil
}

// Disconnect unlinks the device from its vault. Local data and the remote
// copy both stay; only the association is severed.
func (m *Manager) Disconnect() model.AppState {
	m.mu.Lock()
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	next := m.state.Clone()
	next.Cloud.FamilyCode = ""
	m.state = next
	if err := m.saver.Save(next); err != nil {
		m.logger.Error("persist snapshot", "error", err)
	}
	hook := m.onChange
	m.mu.Unlock()

	if hook != nil {
		hook(next.Clone())
	}
	return next
}

// Reset restores the bootstrap family, keeping the device's vault endpoint
// but dropping the family link.
func (m *Manager) Reset() model.AppState {
	m.mu.Lock()
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	next := model.InitialState()
	next.Cloud = m.state.Cloud
	next.Cloud.FamilyCode = ""
	m.state = next
	if err := m.saver.Save(next); err != nil {
		m.logger.Error("persist snapshot", "error", err)
	}
	hook := m.onChange
	m.mu.Unlock()

	if hook != nil {
		hook(next.Clone())
	}
	return next
}

// Close stops the watch and, if a push is still pending, flushes it so the
// last local changes are not lost on shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	pending := m.timer != nil && m.timer.Stop()
	m.timer = nil
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
	m.mu.Unlock()

	if pending {
		m.flush()
	}
	m.cancel()
}
