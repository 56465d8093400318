package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arrondavide/psite/internal/app/domain/session"
	"github.com/arrondavide/psite/pkg/logger"
)

// DefaultChainID is Ethereum mainnet, the network the portal requires.
const DefaultChainID = "0x1"

// Config configures the session manager.
type Config struct {
	// ChainID is the required network; DefaultChainID when empty.
	ChainID string
	// TTL bounds how old a persisted session may be and still restore;
	// session.DefaultTTL when zero.
	TTL time.Duration
}

// Manager owns the current identity. Every mutating path leaves either a
// fully-set session (address set, one persisted record) or a fully-cleared
// one; observers are notified on every identity change so dependent state
// (vote choices, seller views) never outlives a cleared address.
type Manager struct {
	provider Provider
	store    SessionStore
	chainID  string
	ttl      time.Duration
	log      *logger.Logger
	now      func() time.Time

	mu        sync.Mutex
	address   string
	observers []func(address string)
}

// New constructs a session manager. provider may be nil (no extension
// installed); every operation then degrades to the disconnected state.
func New(provider Provider, store SessionStore, cfg Config, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewDefault("wallet")
	}
	if store == nil {
		store = NewMemoryStore()
	}
	if cfg.ChainID == "" {
		cfg.ChainID = DefaultChainID
	}
	if cfg.TTL == 0 {
		cfg.TTL = session.DefaultTTL
	}
	return &Manager{
		provider: provider,
		store:    store,
		chainID:  cfg.ChainID,
		ttl:      cfg.TTL,
		log:      log,
		now:      time.Now,
	}
}

// Address returns the connected wallet address, or empty when disconnected.
func (m *Manager) Address() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.address
}

// Connected reports whether an identity is set.
func (m *Manager) Connected() bool {
	return m.Address() != ""
}

// OnChange registers an observer invoked with the new address ("" on
// disconnect) after every identity change.
func (m *Manager) OnChange(fn func(address string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Restore re-establishes a previously persisted session on startup. It never
// returns an error for a missing provider, an absent or expired record, or a
// provider that no longer authorizes the address: all of those resolve to a
// clean disconnected state.
func (m *Manager) Restore(ctx context.Context) error {
	if m.provider == nil {
		return nil
	}

	rec, ok, err := m.store.Load()
	if err != nil {
		m.log.WithError(err).Warn("session record unreadable; clearing")
		m.clearSession()
		return nil
	}
	if !ok {
		return nil
	}

	if rec.Expired(m.now(), m.ttl) {
		m.log.WithField("address", rec.Address).Info("session expired")
		m.clearSession()
		return nil
	}

	accounts, err := m.provider.Accounts(ctx)
	if err != nil {
		m.log.WithError(err).Warn("provider account check failed")
		m.clearSession()
		return nil
	}

	want := session.Normalize(rec.Address)
	authorized := false
	for _, a := range accounts {
		if session.Normalize(a) == want {
			authorized = true
			break
		}
	}
	if !authorized {
		m.clearSession()
		return nil
	}

	chain, err := m.provider.ChainID(ctx)
	if err != nil || chain != m.chainID {
		m.clearSession()
		return nil
	}

	m.setIdentity(want)
	m.log.WithField("address", want).Info("session restored")
	return nil
}

// Connect requests account access from the provider and establishes a new
// session. Any failure leaves the manager fully disconnected.
func (m *Manager) Connect(ctx context.Context) error {
	if m.provider == nil {
		m.clearSession()
		return ErrNoProvider
	}

	accounts, err := m.provider.RequestAccounts(ctx)
	if err != nil {
		m.clearSession()
		return fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		m.clearSession()
		return ErrRejected
	}

	chain, err := m.provider.ChainID(ctx)
	if err != nil {
		m.clearSession()
		return fmt.Errorf("read chain id: %w", err)
	}
	if chain != m.chainID {
		if err := m.provider.SwitchChain(ctx, m.chainID); err != nil {
			m.clearSession()
			return fmt.Errorf("%w: %v", ErrUnsupportedChain, err)
		}
	}

	addr := session.Normalize(accounts[0])
	if err := m.persist(addr); err != nil {
		m.clearSession()
		return fmt.Errorf("persist session: %w", err)
	}

	m.setIdentity(addr)
	m.log.WithField("address", addr).Info("wallet connected")
	return nil
}

// Disconnect clears the identity and the persisted record. It is idempotent.
func (m *Manager) Disconnect() {
	m.clearSession()
}

// HandleAccountsChanged processes the provider's accountsChanged
// notification: zero accounts disconnects, a new account replaces the
// identity and re-persists it.
func (m *Manager) HandleAccountsChanged(accounts []string) {
	if len(accounts) == 0 {
		m.clearSession()
		return
	}

	addr := session.Normalize(accounts[0])
	if err := m.persist(addr); err != nil {
		m.log.WithError(err).Warn("persist after account change failed")
		m.clearSession()
		return
	}
	m.setIdentity(addr)
	m.log.WithField("address", addr).Info("account changed")
}

// HandleChainChanged processes the provider's chainChanged notification: an
// unsupported chain forces a disconnect, the required chain is a no-op.
func (m *Manager) HandleChainChanged(chainID string) {
	if chainID == m.chainID {
		return
	}
	m.log.WithField("chain_id", chainID).Warn("unsupported chain; disconnecting")
	m.clearSession()
}

// HandleProviderDisconnect processes the provider-level disconnect event.
func (m *Manager) HandleProviderDisconnect() {
	m.clearSession()
}

// internal --------------------------------------------------------------------

func (m *Manager) persist(addr string) error {
	return m.store.Save(session.Record{Address: addr, SavedAt: m.now()})
}

func (m *Manager) setIdentity(addr string) {
	m.mu.Lock()
	m.address = addr
	observers := append([](func(string))(nil), m.observers...)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(addr)
	}
}

func (m *Manager) clearSession() {
	if err := m.store.Clear(); err != nil {
		m.log.WithError(err).Warn("clear session record failed")
	}

	m.mu.Lock()
	wasConnected := m.address != ""
	m.address = ""
	observers := append([](func(string))(nil), m.observers...)
	m.mu.Unlock()

	if !wasConnected {
		return
	}
	for _, fn := range observers {
		fn("")
	}
}
