package service

import (
	"context"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"portalpadres_backend/internals/configs"
)

// Fee charged by the education authority for certificate duplicates, MXN.
const reprintFeeMXN = 150

// SnapPayments generates hosted payment links for reprint fees through the
// Midtrans Snap gateway.
type SnapPayments struct {
	client snap.Client
}

// NewSnapPayments returns nil when no server key is configured; the engine
// then falls back to the REGER portal URL.
func NewSnapPayments(serverKey string, production bool) *SnapPayments {
	if serverKey == "" {
		return nil
	}
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	p := &SnapPayments{}
	p.client.New(serverKey, env)
	return p
}

func (p *SnapPayments) Link(ctx context.Context, folio, fullName, email string) (string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  folio,
			GrossAmt: int64(reprintFeeMXN),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: fullName,
			Email: email,
		},
	}

	resp, err := p.client.CreateTransaction(req)
	if err != nil {
		return "", err
	}
	return resp.RedirectURL, nil
}

// NewPaymentLinker picks Snap when a Midtrans server key is configured and
// the REGER portal link otherwise.
func NewPaymentLinker() PaymentLinker {
	snapLinker := NewSnapPayments(
		configs.GetEnv("MIDTRANS_SERVER_KEY"),
		configs.GetEnv("MIDTRANS_USE_PROD") == "true",
	)
	if snapLinker == nil {
		return StaticPayments{}
	}
	return snapLinker
}

// StaticPayments always answers with the configured REGER portal URL.
type StaticPayments struct{}

func (StaticPayments) Link(ctx context.Context, folio, fullName, email string) (string, error) {
	return configs.PaymentPortalURL, nil
}
