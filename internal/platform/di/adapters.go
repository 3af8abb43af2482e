// internal/platform/di/adapters.go
package di

import (
	"context"

	"github.com/palukuba/proofchain-schools/internal/adapters/out/mail"
	usecase "github.com/palukuba/proofchain-schools/internal/application/usecase"
	solanainfra "github.com/palukuba/proofchain-schools/internal/infra/solana"
)

// minterPort flattens the solana minter's metadata struct into the
// primitive signature the issuance usecase expects.
type minterPort struct {
	*solanainfra.Minter
}

func (m minterPort) Mint(ctx context.Context, ownerWallet, name, symbol, uri string) (string, error) {
	return m.Minter.Mint(ctx, ownerWallet, solanainfra.DiplomaMetadataInput{
		Name:   name,
		Symbol: symbol,
		URI:    uri,
	})
}

// receiptPort maps the usecase receipt payload onto the mailer's.
type receiptPort struct {
	mailer *mail.ReceiptMailer
}

func (p receiptPort) SendIssuanceReceipt(ctx context.Context, to string, r usecase.ReceiptData) error {
	return p.mailer.SendIssuanceReceipt(ctx, to, mail.IssuanceReceipt{
		SchoolName: r.SchoolName,
		BatchSize:  r.BatchSize,
		Minted:     r.Minted,
		NetworkFee: r.NetworkFee,
		StorageFee: r.StorageFee,
		Total:      r.Total,
		IssuedAt:   r.IssuedAt,
	})
}
