// Package wallet owns the portal's identity: a single wallet address
// supplied by an external provider extension, restored across reloads from a
// persisted record and torn down on any provider-side change that
// invalidates it.
package wallet

import (
	"context"
	"errors"
)

// Provider is the opaque wallet-extension capability. Methods map onto the
// provider's request surface (list accounts, request accounts, read chain,
// switch chain); asynchronous change notifications are delivered by calling
// the Manager's Handle* methods.
type Provider interface {
	// Accounts returns the currently authorized accounts without prompting.
	Accounts(ctx context.Context) ([]string, error)
	// RequestAccounts prompts the user for account access.
	RequestAccounts(ctx context.Context) ([]string, error)
	// ChainID returns the active chain id (e.g. "0x1").
	ChainID(ctx context.Context) (string, error)
	// SwitchChain asks the provider to switch to the given chain id.
	SwitchChain(ctx context.Context, chainID string) error
}

// Provider failure modes surfaced to the caller as guidance rather than
// faults.
var (
	// ErrNoProvider means no wallet extension is available.
	ErrNoProvider = errors.New("wallet provider not available")
	// ErrRejected means the user declined the connection prompt.
	ErrRejected = errors.New("wallet connection rejected")
	// ErrUnsupportedChain means the provider is on a chain the portal does
	// not support and refused to switch.
	ErrUnsupportedChain = errors.New("unsupported network")
)
