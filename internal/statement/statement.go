// Package statement renders a customer account statement as shareable plain
// text, the kind a shopkeeper sends over a messaging app.
package statement

import (
	"fmt"
	"strings"

	"roznamcha/internal/core"
	"roznamcha/internal/dateutil"
)

// maxOpenRows caps the itemized list; older open balances fold into the
// total only.
const maxOpenRows = 10

type Input struct {
	ShopName   string
	Currency   string
	DateFormat string
	Customer   core.Customer
	History    []core.Transaction
}

// Render builds the statement. The balance is the net of the customer's
// unsettled entries: positive means the customer owes the shop.
func Render(in Input) string {
	var b strings.Builder

	if in.ShopName != "" {
		fmt.Fprintf(&b, "%s\n", in.ShopName)
	}
	fmt.Fprintf(&b, "Statement for %s\n\n", in.Customer.Name)

	balance := core.ComputeBalance(in.History)
	switch {
	case balance > 0:
		fmt.Fprintf(&b, "Balance due: %.2f %s\n", balance, in.Currency)
	case balance < 0:
		fmt.Fprintf(&b, "Credit in your favor: %.2f %s\n", -balance, in.Currency)
	default:
		fmt.Fprintf(&b, "Account settled. Balance: 0.00 %s\n", in.Currency)
	}

	open := openEntries(in.History)
	if len(open) == 0 {
		return b.String()
	}

	b.WriteString("\nOpen entries:\n")
	shown := open
	if len(shown) > maxOpenRows {
		shown = shown[:maxOpenRows]
	}
	for _, t := range shown {
		fmt.Fprintf(&b, "  %s  %-12s %s: %.2f %s\n",
			dateutil.FormatMillis(t.DateMillis, in.DateFormat),
			t.Category,
			t.Description,
			core.EffectiveAmount(t),
			in.Currency)
	}
	if rest := len(open) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "  ...and %d more\n", rest)
	}

	return b.String()
}

func openEntries(history []core.Transaction) []core.Transaction {
	var out []core.Transaction
	for _, t := range history {
		if !t.Settled && !t.IsSettlement() {
			out = append(out, t)
		}
	}
	return out
}
