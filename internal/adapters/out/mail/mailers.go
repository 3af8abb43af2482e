// internal/adapters/out/mail/mailers.go
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// EmailClient is the minimal sending surface the mailers need.
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// IssuanceReceipt is the data a receipt mail is rendered from.
type IssuanceReceipt struct {
	SchoolName string
	BatchSize  int
	Minted     int
	NetworkFee float64
	StorageFee float64
	Total      float64
	IssuedAt   time.Time
}

// ReceiptMailer sends post-issuance fee receipts to school admins.
type ReceiptMailer struct {
	client EmailClient
	from   string
}

func NewReceiptMailer(client EmailClient, from string) *ReceiptMailer {
	return &ReceiptMailer{client: client, from: from}
}

func (m *ReceiptMailer) SendIssuanceReceipt(ctx context.Context, to string, rc IssuanceReceipt) error {
	if m.client == nil {
		return fmt.Errorf("receipt mailer: nil email client")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Diploma issuance receipt for %s\n\n", rc.SchoolName)
	fmt.Fprintf(&b, "Issued at:    %s\n", rc.IssuedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Diplomas:     %d of %d minted\n", rc.Minted, rc.BatchSize)
	fmt.Fprintf(&b, "Network fee:  %.2f EUR\n", rc.NetworkFee)
	fmt.Fprintf(&b, "Storage fee:  %.2f EUR\n", rc.StorageFee)
	fmt.Fprintf(&b, "Total:        %.2f EUR\n", rc.Total)

	subject := fmt.Sprintf("Issuance receipt: %d diploma(s) minted", rc.Minted)
	return m.client.Send(ctx, m.from, to, subject, b.String())
}

// ResetMailer sends password reset links.
type ResetMailer struct {
	client EmailClient
	from   string
}

func NewResetMailer(client EmailClient, from string) *ResetMailer {
	return &ResetMailer{client: client, from: from}
}

func (m *ResetMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	if m.client == nil {
		return fmt.Errorf("reset mailer: nil email client")
	}
	link = strings.TrimSpace(link)
	if link == "" {
		return fmt.Errorf("reset mailer: empty link")
	}

	body := fmt.Sprintf(
		"A password reset was requested for your school admin account.\n\n"+
			"Open the link below to set a new password:\n%s\n\n"+
			"If you did not request this, you can ignore this mail.\n",
		link,
	)
	return m.client.Send(ctx, m.from, to, "Reset your password", body)
}
