package core

import "testing"

func f(v float64) *float64 { return &v }

func TestEffectiveAmount(t *testing.T) {
	cases := []struct {
		name string
		tx   Transaction
		want float64
	}{
		{"remaining wins", Transaction{Amount: f(1000), RemainingAmount: f(400)}, 400},
		{"amount fallback", Transaction{Amount: f(1000)}, 1000},
		{"both nil", Transaction{}, 0},
		{"zero remaining", Transaction{Amount: f(1000), RemainingAmount: f(0)}, 0},
	}
	for _, tc := range cases {
		if got := EffectiveAmount(tc.tx); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestComputeBalanceSigns(t *testing.T) {
	cases := []struct {
		name string
		txs  []Transaction
		want float64
	}{
		{"empty", nil, 0},
		{
			"single unsettled sale",
			[]Transaction{{Category: CategorySale, Amount: f(1000), RemainingAmount: f(1000)}},
			1000,
		},
		{
			"settled sale contributes zero",
			[]Transaction{{Category: CategorySale, Amount: f(1000), RemainingAmount: f(0), Settled: true}},
			0,
		},
		{
			"settled row ignored regardless of amounts",
			[]Transaction{{Category: CategoryReceivable, Amount: f(500), RemainingAmount: f(500), Settled: true}},
			0,
		},
		{
			"debt subtracts",
			[]Transaction{{Category: CategoryDebt, Amount: f(300), RemainingAmount: f(300)}},
			-300,
		},
		{
			"purchase subtracts remaining",
			[]Transaction{{Category: CategoryPurchase, Amount: f(800), RemainingAmount: f(250)}},
			-250,
		},
		{
			"operational costs ignored",
			[]Transaction{
				{Category: CategoryRent, Amount: f(100)},
				{Category: CategoryOtherExpense, Amount: f(100)},
				{Category: CategorySalary, Amount: f(100)},
			},
			0,
		},
		{
			"malformed row contributes zero",
			[]Transaction{{Category: CategorySale}},
			0,
		},
		{
			"mixed",
			[]Transaction{
				{Category: CategorySale, Amount: f(1000), RemainingAmount: f(1000)},
				{Category: CategoryReceivable, Amount: f(200)},
				{Category: CategoryDebt, Amount: f(500), RemainingAmount: f(500)},
			},
			700,
		},
	}
	for _, tc := range cases {
		if got := ComputeBalance(tc.txs); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestComputeBalanceIdempotent(t *testing.T) {
	txs := []Transaction{
		{Category: CategorySale, Amount: f(1234.56), RemainingAmount: f(234.56)},
		{Category: CategoryPurchase, Amount: f(99.99)},
	}
	first := ComputeBalance(txs)
	second := ComputeBalance(txs)
	if first != second {
		t.Fatalf("expected identical results, got %v then %v", first, second)
	}
}

func TestComputeBalanceSettlementScenario(t *testing.T) {
	sale := Transaction{ID: 1, Category: CategorySale, Amount: f(1000), RemainingAmount: f(1000)}
	if got := ComputeBalance([]Transaction{sale}); got != 1000 {
		t.Fatalf("before settlement: got %v, want 1000", got)
	}
	sale.RemainingAmount = f(0)
	sale.Settled = true
	parent := sale.ID
	payment := Transaction{ID: 2, Category: CategoryReceivable, Amount: f(1000), ParentTransactionID: &parent, Settled: true}
	if got := ComputeBalance([]Transaction{sale, payment}); got != 0 {
		t.Fatalf("after settlement: got %v, want 0", got)
	}
}

func TestScoreHealth(t *testing.T) {
	cases := []struct {
		name                        string
		sales, expenses, receivable float64
		score                       int
		rating                      string
	}{
		{"no sales", 0, 50, 0, 0, "needs attention"},
		{"all good", 1000, 500, 100, 100, "excellent"},
		{"profit only", 1000, 900, 500, 50, "good"},
		{"loss low ratios", 1000, 1000, 0, 25, "needs attention"},
		{"profit high receivables", 1000, 700, 400, 75, "excellent"},
	}
	for _, tc := range cases {
		got := ScoreHealth(tc.sales, tc.expenses, tc.receivable)
		if got.Score != tc.score || got.Rating != tc.rating {
			t.Errorf("%s: got %+v, want score=%d rating=%q", tc.name, got, tc.score, tc.rating)
		}
	}
}
