// internal/infra/solana/mint_authority.go
package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	smpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/types"
)

// MintAuthority is the platform's mint-authority wallet: fee payer and
// signer for every diploma mint. One per deployment, loaded once at boot.
type MintAuthority struct {
	Account types.Account
}

// PublicKeyBase58 returns the authority address; it doubles as the policy
// id recorded for each school (the namespace all diplomas are minted
// under).
func (a *MintAuthority) PublicKeyBase58() string {
	return a.Account.PublicKey.ToBase58()
}

// LoadMintAuthority reads the mint-authority keypair from GCP Secret
// Manager. The secret payload is the JSON int array ([int,int,...])
// produced by the key generation tool.
func LoadMintAuthority(ctx context.Context, projectID, secretID string) (*MintAuthority, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secretmanager.NewClient: %w", err)
	}
	defer client.Close()

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretID)

	res, err := client.AccessSecretVersion(ctx, &smpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("access secret version %s: %w", name, err)
	}

	var ints []int
	if err := json.Unmarshal(res.Payload.Data, &ints); err != nil {
		return nil, fmt.Errorf("unmarshal secret json: %w", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	b := make([]byte, len(ints))
	for i, v := range ints {
		b[i] = byte(v)
	}

	account, err := types.AccountFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("account from secret bytes: %w", err)
	}

	return &MintAuthority{Account: account}, nil
}
