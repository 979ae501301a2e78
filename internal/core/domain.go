package core

import (
	"errors"
	"strings"
)

const (
	CategorySale         Category = "SALE"
	CategoryPurchase     Category = "PURCHASE"
	CategoryDebt         Category = "DEBT"
	CategoryReceivable   Category = "RECEIVABLE"
	CategoryRent         Category = "RENT"
	CategoryOtherExpense Category = "OTHER_EXPENSE"
	CategorySalary       Category = "SALARY"

	// CategoryPayment marks a settlement row: a payment applied against an
	// earlier transaction via ParentTransactionID. Payment rows never enter
	// category totals; the money they move is reflected on the parent. Only
	// the settlement flow creates them, so Valid rejects the value on user
	// entries.
	CategoryPayment Category = "PAYMENT"
)

const (
	StatusPaid    PaymentStatus = "PAID"
	StatusDue     PaymentStatus = "DUE"
	StatusPartial PaymentStatus = "PARTIAL"
)

type (
	Category      string
	PaymentStatus string

	// Transaction is a single monetary event in the ledger. Amount fields are
	// nullable floats: legacy rows may carry neither an amount nor a remaining
	// amount and still have to be tolerated everywhere.
	Transaction struct {
		ID                    int64         `json:"id"`
		Category              Category      `json:"category"`
		Description           string        `json:"description"`
		Amount                *float64      `json:"amount,omitempty"`
		OriginalAmount        *float64      `json:"original_amount,omitempty"`
		RemainingAmount       *float64      `json:"remaining_amount,omitempty"`
		Quantity              *float64      `json:"quantity,omitempty"`
		UnitPrice             *float64      `json:"unit_price,omitempty"`
		DateMillis            int64         `json:"date_millis"`
		Remarks               string        `json:"remarks,omitempty"`
		Currency              string        `json:"currency,omitempty"`
		BillNumber            string        `json:"bill_number,omitempty"`
		QuantityUnit          string        `json:"quantity_unit,omitempty"`
		PaymentStatus         PaymentStatus `json:"payment_status,omitempty"`
		Settled               bool          `json:"is_settled"`
		CustomerID            *int64        `json:"customer_id,omitempty"`
		ParentTransactionID   *int64        `json:"parent_transaction_id,omitempty"`
		LinkedInventoryItemID *int64        `json:"linked_inventory_item_id,omitempty"`
	}

	// Customer is deactivated rather than deleted once transactions refer to it.
	Customer struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Code        string `json:"code,omitempty"`
		Type        string `json:"type,omitempty"`
		ContactInfo string `json:"contact_info,omitempty"`
		Active      bool   `json:"is_active"`
	}

	InventoryItem struct {
		ID            int64    `json:"id"`
		Name          string   `json:"name"`
		Unit          string   `json:"unit,omitempty"`
		Quantity      float64  `json:"quantity"`
		PurchasePrice *float64 `json:"purchase_price,omitempty"`
		SalePrice     *float64 `json:"sale_price,omitempty"`
		Remarks       string   `json:"remarks,omitempty"`
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidStatus    = errors.New("invalid payment status")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyName        = errors.New("empty name")
)

// ExpenseCategories are the operational cost categories. They feed profit and
// cash-on-hand figures but never a customer balance.
var ExpenseCategories = []Category{CategoryPurchase, CategoryRent, CategoryOtherExpense, CategorySalary}

// OperationalCategories excludes PURCHASE: rent, other expenses and salaries.
var OperationalCategories = []Category{CategoryRent, CategoryOtherExpense, CategorySalary}

func (c Category) Valid() bool {
	switch c {
	case CategorySale, CategoryPurchase, CategoryDebt, CategoryReceivable,
		CategoryRent, CategoryOtherExpense, CategorySalary:
		return true
	}
	return false
}

// IsCredit reports whether the category represents money owed to the business.
func (c Category) IsCredit() bool {
	return c == CategorySale || c == CategoryReceivable
}

// IsDebit reports whether the category represents money the business owes.
func (c Category) IsDebit() bool {
	return c == CategoryPurchase || c == CategoryDebt
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusDue, StatusPartial:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if t.PaymentStatus != "" && !t.PaymentStatus.Valid() {
		return ErrInvalidStatus
	}
	if t.Amount != nil && *t.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsSettlement reports whether the transaction is a payment applied against an
// earlier debt or receivable.
func (t Transaction) IsSettlement() bool {
	return t.ParentTransactionID != nil
}

func (c Customer) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	return nil
}

func (i InventoryItem) Validate() error {
	if len(strings.TrimSpace(i.Name)) == 0 {
		return ErrEmptyName
	}
	return nil
}
