// internal/infra/solana/diploma_mint.go
package solana

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
)

// DiplomaMetadataInput is the on-chain metadata for one diploma NFT.
type DiplomaMetadataInput struct {
	Name   string // e.g. "Diploma - Jane Doe"
	Symbol string // e.g. "DIPLOMA"
	URI    string // metadata.json content address (ipfs://...)
}

// mintDiplomaToOwner submits one transaction minting a single diploma NFT
// (decimals 0, MaxSupply 1, MasterEdition) to ownerWallet. The mint
// authority pays fees and signs; returns the new mint address and the
// transaction signature.
func mintDiplomaToOwner(
	ctx context.Context,
	c *client.Client,
	authority *MintAuthority,
	ownerWallet string,
	meta DiplomaMetadataInput,
) (mintAddr string, signature string, err error) {
	feePayer := authority.Account
	owner := common.PublicKeyFromString(ownerWallet)
	mint := types.NewAccount()

	ata, _, err := common.FindAssociatedTokenAddress(owner, mint.PublicKey)
	if err != nil {
		return "", "", fmt.Errorf("FindAssociatedTokenAddress: %w", err)
	}

	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint.PublicKey)
	if err != nil {
		return "", "", fmt.Errorf("GetTokenMetaPubkey: %w", err)
	}
	masterEditionPubkey, err := token_metadata.GetMasterEdition(mint.PublicKey)
	if err != nil {
		return "", "", fmt.Errorf("GetMasterEdition: %w", err)
	}

	mintRent, err := c.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return "", "", fmt.Errorf("GetMinimumBalanceForRentExemption: %w", err)
	}

	recent, err := c.GetLatestBlockhash(ctx)
	if err != nil {
		return "", "", fmt.Errorf("GetLatestBlockhash: %w", err)
	}

	// One diploma = one token, fixed at the protocol level (MaxSupply = 1).
	maxSupply := uint64(1)

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{mint, feePayer},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        feePayer.PublicKey,
			RecentBlockhash: recent.Blockhash,
			Instructions: []types.Instruction{
				// 1) create the mint account
				system.CreateAccount(system.CreateAccountParam{
					From:     feePayer.PublicKey,
					New:      mint.PublicKey,
					Owner:    common.TokenProgramID,
					Lamports: mintRent,
					Space:    token.MintAccountSize,
				}),
				// 2) initialize it (decimals = 0)
				token.InitializeMint(token.InitializeMintParam{
					Decimals:   0,
					Mint:       mint.PublicKey,
					MintAuth:   feePayer.PublicKey,
					FreezeAuth: &feePayer.PublicKey,
				}),
				// 3) Metaplex metadata account
				token_metadata.CreateMetadataAccountV3(
					token_metadata.CreateMetadataAccountV3Param{
						Metadata:                metadataPubkey,
						Mint:                    mint.PublicKey,
						MintAuthority:           feePayer.PublicKey,
						UpdateAuthority:         feePayer.PublicKey,
						Payer:                   feePayer.PublicKey,
						UpdateAuthorityIsSigner: true,
						IsMutable:               false, // issued diplomas are immutable
						Data: token_metadata.DataV2{
							Name:                 meta.Name,
							Symbol:               meta.Symbol,
							Uri:                  meta.URI,
							SellerFeeBasisPoints: 0,
							Creators: &[]token_metadata.Creator{
								{
									Address:  feePayer.PublicKey,
									Verified: true,
									Share:    100,
								},
							},
						},
						CollectionDetails: nil,
					},
				),
				// 4) recipient's associated token account
				associated_token_account.CreateAssociatedTokenAccount(
					associated_token_account.CreateAssociatedTokenAccountParam{
						Funder:                 feePayer.PublicKey,
						Owner:                  owner,
						Mint:                   mint.PublicKey,
						AssociatedTokenAccount: ata,
					},
				),
				// 5) mint exactly one
				token.MintTo(token.MintToParam{
					Mint:   mint.PublicKey,
					To:     ata,
					Auth:   feePayer.PublicKey,
					Amount: 1,
				}),
				// 6) MasterEdition v3 (MaxSupply = 1)
				token_metadata.CreateMasterEditionV3(
					token_metadata.CreateMasterEditionParam{
						Edition:         masterEditionPubkey,
						Mint:            mint.PublicKey,
						UpdateAuthority: feePayer.PublicKey,
						MintAuthority:   feePayer.PublicKey,
						Metadata:        metadataPubkey,
						Payer:           feePayer.PublicKey,
						MaxSupply:       &maxSupply,
					},
				),
			},
		}),
	})
	if err != nil {
		return "", "", fmt.Errorf("NewTransaction: %w", err)
	}

	sig, err := c.SendTransaction(ctx, tx)
	if err != nil {
		return "", "", fmt.Errorf("SendTransaction: %w", err)
	}

	return mint.PublicKey.ToBase58(), sig, nil
}
