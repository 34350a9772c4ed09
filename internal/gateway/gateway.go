package gateway

import (
	"context"
	"encoding/json"
)

// SaleResult is the fulfilled outcome of an asynchronous sale request.
// Exactly one of Receipt and Err is set.
type SaleResult struct {
	Receipt json.RawMessage
	Err     error
}

// Gateway is the payment provider boundary. ClientToken is a read-only
// operation used by the client to initialize its payment widget. Sale
// submits a transaction for immediate settlement and reports the
// provider's decision on the returned channel; an order may be persisted
// only after receiving a result that carries a receipt.
type Gateway interface {
	ClientToken(ctx context.Context) (string, error)
	Sale(ctx context.Context, amount float64, nonce string) <-chan SaleResult
}
