package statement

import (
	"fmt"
	"strings"
	"testing"

	"roznamcha/internal/core"
	"roznamcha/internal/dateutil"
)

func f(v float64) *float64 { return &v }

func TestRenderBalanceDue(t *testing.T) {
	got := Render(Input{
		ShopName: "Kabul General Store",
		Currency: "AFN",
		Customer: core.Customer{Name: "Ahmad"},
		History: []core.Transaction{
			{Category: core.CategorySale, Description: "rice", RemainingAmount: f(500), DateMillis: 1000},
		},
	})

	if !strings.Contains(got, "Kabul General Store") {
		t.Error("missing shop header")
	}
	if !strings.Contains(got, "Statement for Ahmad") {
		t.Error("missing customer line")
	}
	if !strings.Contains(got, "Balance due: 500.00 AFN") {
		t.Errorf("missing balance line in:\n%s", got)
	}
	if !strings.Contains(got, "rice") {
		t.Error("missing open entry")
	}
}

func TestRenderCreditBalance(t *testing.T) {
	got := Render(Input{
		Currency: "AFN",
		Customer: core.Customer{Name: "Bashir"},
		History: []core.Transaction{
			{Category: core.CategoryDebt, Description: "advance", RemainingAmount: f(300), DateMillis: 1},
		},
	})
	// Debit entries mean the shop owes: shown as credit, absolute value.
	if !strings.Contains(got, "Credit in your favor: 300.00 AFN") {
		t.Errorf("missing credit line in:\n%s", got)
	}
}

func TestRenderSettledAccount(t *testing.T) {
	got := Render(Input{
		Currency: "AFN",
		Customer: core.Customer{Name: "Karim"},
		History: []core.Transaction{
			{Category: core.CategorySale, Description: "done", RemainingAmount: f(0), Settled: true, DateMillis: 1},
		},
	})
	if !strings.Contains(got, "Account settled") {
		t.Errorf("missing settled line in:\n%s", got)
	}
	if strings.Contains(got, "Open entries") {
		t.Error("settled history must not list open entries")
	}
}

func TestRenderCapsOpenEntries(t *testing.T) {
	var history []core.Transaction
	for i := 0; i < 14; i++ {
		history = append(history, core.Transaction{
			Category:        core.CategorySale,
			Description:     fmt.Sprintf("item %d", i),
			RemainingAmount: f(10),
			DateMillis:      int64(i),
		})
	}

	got := Render(Input{Currency: "AFN", Customer: core.Customer{Name: "X"}, History: history})
	if strings.Count(got, "item ") != maxOpenRows {
		t.Errorf("listed %d entries, want %d:\n%s", strings.Count(got, "item "), maxOpenRows, got)
	}
	if !strings.Contains(got, "...and 4 more") {
		t.Errorf("missing overflow line in:\n%s", got)
	}
	// Balance still reflects every open entry.
	if !strings.Contains(got, "Balance due: 140.00") {
		t.Errorf("balance should cover all 14 entries:\n%s", got)
	}
}

func TestRenderShamsiDates(t *testing.T) {
	got := Render(Input{
		Currency:   "AFN",
		DateFormat: dateutil.FormatShamsi,
		Customer:   core.Customer{Name: "Ahmad"},
		History: []core.Transaction{
			// 2025-03-21 noon UTC, just past the Nowruz boundary.
			{Category: core.CategorySale, Description: "rice", RemainingAmount: f(100), DateMillis: 1742558400000},
		},
	})
	if !strings.Contains(got, "1404") {
		t.Errorf("expected a Shamsi year in:\n%s", got)
	}
}
