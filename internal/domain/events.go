package domain

import "time"

// Event types
const (
	EventTypeAccountCreated     = "account.created"
	EventTypeAccountDeleted     = "account.deleted"
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionUpdated = "transaction.updated"
	EventTypeTransactionDeleted = "transaction.deleted"
	EventTypeTransferCreated    = "transfer.created"
)

// Aggregate types
const (
	AggregateTypeAccount     = "account"
	AggregateTypeTransaction = "transaction"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// AccountEventPayload is used for account.created and account.deleted.
func AccountEventPayload(a *Account) map[string]any {
	return map[string]any{
		"account_id": a.ID,
		"user_id":    a.UserID,
		"name":       a.Name,
		"currency":   a.Currency,
		"balance":    a.Balance.String(),
	}
}

// TransactionEventPayload describes a transaction and the resulting balance of
// its account.
func TransactionEventPayload(t *Transaction, balance string) map[string]any {
	p := map[string]any{
		"transaction_id": t.ID,
		"account_id":     t.AccountID,
		"amount":         t.Amount.String(),
		"date":           t.Date.Format(DateLayout),
		"balance":        balance,
	}
	if t.CategoryID != nil {
		p["category_id"] = *t.CategoryID
	}
	return p
}

// TransferEventPayload links the two legs of a transfer.
func TransferEventPayload(debit, credit *Transaction) map[string]any {
	return map[string]any{
		"debit_transaction_id":  debit.ID,
		"credit_transaction_id": credit.ID,
		"from_account_id":       debit.AccountID,
		"to_account_id":         credit.AccountID,
		"amount":                credit.Amount.String(),
		"date":                  credit.Date.Format(DateLayout),
	}
}
