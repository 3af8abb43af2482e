// internal/infra/solana/minter.go
package solana

import (
	"context"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
)

// Minter is the wallet/chain collaborator used by the issuance usecase:
// connectivity and balance checks, per-recipient diploma mints, and
// signature-status confirmation lookups.
type Minter struct {
	client    *client.Client
	authority *MintAuthority
}

// NewMinter builds the Minter. Endpoint resolution: explicit endpoint ->
// devnet default.
func NewMinter(endpoint string, authority *MintAuthority) *Minter {
	ep := strings.TrimSpace(endpoint)
	if ep == "" {
		ep = rpc.DevnetRPCEndpoint
	}
	return &Minter{
		client:    client.NewClient(ep),
		authority: authority,
	}
}

// Connected reports whether the minting wallet is usable. A nil authority
// means the wallet was never attached (precondition failure upstream).
func (m *Minter) Connected(ctx context.Context) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("solana: rpc client not configured")
	}
	if m.authority == nil {
		return fmt.Errorf("solana: mint authority wallet not connected")
	}
	return nil
}

// Balance returns the fee payer's balance in lamports.
func (m *Minter) Balance(ctx context.Context) (uint64, error) {
	if err := m.Connected(ctx); err != nil {
		return 0, err
	}
	bal, err := m.client.GetBalance(ctx, m.authority.PublicKeyBase58())
	if err != nil {
		return 0, fmt.Errorf("GetBalance: %w", err)
	}
	return bal, nil
}

// Mint submits one diploma NFT mint to ownerWallet and returns the
// transaction signature.
func (m *Minter) Mint(ctx context.Context, ownerWallet string, meta DiplomaMetadataInput) (string, error) {
	if err := m.Connected(ctx); err != nil {
		return "", err
	}
	_, sig, err := mintDiplomaToOwner(ctx, m.client, m.authority, ownerWallet, meta)
	if err != nil {
		return "", err
	}
	return sig, nil
}

// Confirmed reports whether the signature has reached at least the
// "confirmed" commitment. A not-yet-visible signature is (false, nil);
// the caller owns the bounded retry policy.
func (m *Minter) Confirmed(ctx context.Context, signature string) (bool, error) {
	if err := m.Connected(ctx); err != nil {
		return false, err
	}

	st, err := m.client.GetSignatureStatus(ctx, signature)
	if err != nil {
		return false, fmt.Errorf("GetSignatureStatus: %w", err)
	}
	if st == nil {
		return false, nil
	}
	if st.Err != nil {
		return false, fmt.Errorf("transaction failed on chain: %v", st.Err)
	}
	if st.ConfirmationStatus == nil {
		return false, nil
	}
	switch *st.ConfirmationStatus {
	case rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
		return true, nil
	default:
		return false, nil
	}
}

// PolicyID exposes the authority address recorded as each school's
// minting-policy id.
func (m *Minter) PolicyID() string {
	if m == nil || m.authority == nil {
		return ""
	}
	return m.authority.PublicKeyBase58()
}
