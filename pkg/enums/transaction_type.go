package enums

import "fmt"

// TransactionType classifies wallet ledger entries.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeHold       TransactionType = "hold"
	TransactionTypeRelease    TransactionType = "release"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypeCommission TransactionType = "commission"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeDeposit,
	TransactionTypeWithdrawal,
	TransactionTypeHold,
	TransactionTypeRelease,
	TransactionTypeRefund,
	TransactionTypeCommission,
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// MovesBalance reports whether entries of this type change the wallet total.
// Hold, refund and commission entries only move escrow or report revenue.
func (t TransactionType) MovesBalance() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeRelease:
		return true
	default:
		return false
	}
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
