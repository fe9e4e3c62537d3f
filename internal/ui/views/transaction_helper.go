package views

import (
	"github.com/hance08/keabank/internal/model"
)

// EntryRoleLabel names the part an entry's account plays in its transaction.
func EntryRoleLabel(tx *model.Transaction, entry *model.LedgerEntry) string {
	switch tx.Type {
	case model.TransactionTypeOpening:
		if entry.Type == model.EntryTypeDebit {
			return "opening balance"
		}
		return "new account"
	case model.TransactionTypeExchange:
		if entry.Type == model.EntryTypeDebit {
			return "sold " + entry.Currency.String()
		}
		return "bought " + entry.Currency.String()
	default:
		if entry.Type == model.EntryTypeDebit {
			return "source account"
		}
		return "receiving account"
	}
}

func typeLabel(t model.TransactionType) string {
	switch t {
	case model.TransactionTypeTransfer:
		return "Transfer"
	case model.TransactionTypeExchange:
		return "Exchange"
	case model.TransactionTypeOpening:
		return "Opening"
	default:
		return string(t)
	}
}

func statusLabel(s model.TransactionStatus) string {
	switch s {
	case model.TransactionStatusCompleted:
		return "Completed"
	case model.TransactionStatusPending:
		return "Pending"
	case model.TransactionStatusFailed:
		return "Failed"
	default:
		return string(s)
	}
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
