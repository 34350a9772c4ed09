package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	braintree "github.com/braintree-go/braintree-go"

	"github.com/shoporbit/storefront/internal/config"
)

// Braintree implements Gateway against the Braintree API. It is
// constructed once in main and injected, never held as a package
// singleton.
type Braintree struct {
	bt *braintree.Braintree
}

func NewBraintree(cfg *config.Config) *Braintree {
	env := braintree.Sandbox
	if cfg.BRAINTREE_ENVIRONMENT == "production" {
		env = braintree.Production
	}
	return &Braintree{
		bt: braintree.New(
			env,
			cfg.BRAINTREE_MERCHANT_ID,
			cfg.BRAINTREE_PUBLIC_KEY,
			cfg.BRAINTREE_PRIVATE_KEY,
		),
	}
}

func (g *Braintree) ClientToken(ctx context.Context) (string, error) {
	token, err := g.bt.ClientToken().Generate(ctx)
	if err != nil {
		return "", fmt.Errorf("braintree client token: %w", err)
	}
	return token, nil
}

func (g *Braintree) Sale(ctx context.Context, amount float64, nonce string) <-chan SaleResult {
	out := make(chan SaleResult, 1)
	go func() {
		defer close(out)

		tx, err := g.bt.Transaction().Create(ctx, &braintree.TransactionRequest{
			Type:               "sale",
			Amount:             braintree.NewDecimal(int64(math.Round(amount*100)), 2),
			PaymentMethodNonce: nonce,
			Options: &braintree.TransactionOptions{
				SubmitForSettlement: true,
			},
		})
		if err != nil {
			out <- SaleResult{Err: fmt.Errorf("braintree sale: %w", err)}
			return
		}

		receipt, err := json.Marshal(tx)
		if err != nil {
			out <- SaleResult{Err: fmt.Errorf("braintree receipt: %w", err)}
			return
		}
		out <- SaleResult{Receipt: receipt}
	}()
	return out
}
