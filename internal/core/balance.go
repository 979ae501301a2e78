package core

// EffectiveAmount is the single accessor for the monetary value of a
// transaction: the remaining amount when present, otherwise the amount,
// otherwise zero. Every balance and aggregation read goes through here so
// legacy rows with missing values degrade uniformly instead of diverging per
// call site.
func EffectiveAmount(t Transaction) float64 {
	if t.RemainingAmount != nil {
		return *t.RemainingAmount
	}
	if t.Amount != nil {
		return *t.Amount
	}
	return 0
}

// ComputeBalance folds a customer's transactions into a net outstanding
// balance. Unsettled SALE and RECEIVABLE rows add their effective amount
// (money owed to the business), unsettled PURCHASE and DEBT rows subtract it
// (money the business owes). Settled rows and operational cost categories
// contribute nothing. Positive means the customer owes the business.
//
// Amounts are plain float64 with no currency rounding; that matches the data
// as stored and is documented behavior.
func ComputeBalance(txs []Transaction) float64 {
	var balance float64
	for _, t := range txs {
		if t.Settled {
			continue
		}
		switch {
		case t.Category.IsCredit():
			balance += EffectiveAmount(t)
		case t.Category.IsDebit():
			balance -= EffectiveAmount(t)
		}
	}
	return balance
}
