package prompts

import (
	"fmt"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
)

// PromptAccountSelection lets the user pick one of their accounts and
// returns its id.
func PromptAccountSelection(accounts []*model.Account, message string) (string, error) {
	if len(accounts) == 0 {
		return "", fmt.Errorf("no accounts available")
	}

	labels := make([]string, len(accounts))
	ids := make([]string, len(accounts))
	for i, acc := range accounts {
		labels[i] = fmt.Sprintf("%s (Balance: %s)", acc.Currency, money.Format(acc.Balance))
		ids[i] = acc.ID
	}
	return PromptSelect(message, labels, ids, ids[0])
}

// PromptRecipient picks a transfer recipient among the registered users,
// leaving out the sender.
func PromptRecipient(users []*model.User, senderID string) (string, error) {
	var labels, ids []string
	for _, u := range users {
		if u.ID == senderID {
			continue
		}
		labels = append(labels, fmt.Sprintf("%s (%s)", u.Email, u.ID))
		ids = append(ids, u.ID)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("no other users to transfer to")
	}
	return PromptSelect("Transfer to:", labels, ids, ids[0])
}
