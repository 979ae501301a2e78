package core

// Read-only projections produced by GROUP BY queries. Not entities.

// CategoryTotal is a summed amount per expense category.
type CategoryTotal struct {
	Category    Category `json:"category"`
	TotalAmount float64  `json:"total_amount"`
}

// ItemSaleTotal is a summed sold quantity per item description.
type ItemSaleTotal struct {
	Description   string  `json:"description"`
	TotalQuantity float64 `json:"total_quantity"`
}

// CustomerSaleTotal is a summed sale amount per customer. Name may be empty
// for sales whose customer row no longer resolves.
type CustomerSaleTotal struct {
	CustomerID   *int64  `json:"customer_id,omitempty"`
	CustomerName string  `json:"customer_name"`
	TotalAmount  float64 `json:"total_amount"`
}

// HealthScore grades the business over a date range from sales, expenses and
// outstanding receivables.
type HealthScore struct {
	Score  int    `json:"score"`
	Rating string `json:"rating"`
}

// ScoreHealth awards 50 points for a positive net profit, 25 for an expense
// ratio under 0.8 and 25 for a receivables ratio under 0.3. With no sales the
// score is zero.
func ScoreHealth(sales, expenses, receivables float64) HealthScore {
	score := 0
	if sales > 0 {
		if sales-expenses > 0 {
			score += 50
		}
		if expenses/sales < 0.8 {
			score += 25
		}
		if receivables/sales < 0.3 {
			score += 25
		}
	}
	rating := "needs attention"
	switch {
	case score >= 75:
		rating = "excellent"
	case score >= 50:
		rating = "good"
	}
	return HealthScore{Score: score, Rating: rating}
}
