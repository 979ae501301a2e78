// Package storage is the ledger store: a local SQLite database holding
// transactions, customers, inventory and settings. Aggregate queries follow
// one rule everywhere: an empty result set is 0, never an error. SQL NULL
// sums are coalesced at this boundary.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"roznamcha/internal/core"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = `id, category, description, amount, original_amount, remaining_amount,
	quantity, unit_price, date_millis, remarks, currency, bill_number, quantity_unit,
	payment_status, is_settled, customer_id, parent_transaction_id, linked_inventory_item_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                            core.Transaction
		amount, original, remaining  sql.NullFloat64
		quantity, unitPrice          sql.NullFloat64
		status                       sql.NullString
		customerID, parentID, itemID sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.Category, &t.Description, &amount, &original, &remaining,
		&quantity, &unitPrice, &t.DateMillis, &t.Remarks, &t.Currency, &t.BillNumber,
		&t.QuantityUnit, &status, &t.Settled, &customerID, &parentID, &itemID)
	if err != nil {
		return t, err
	}
	if amount.Valid {
		t.Amount = &amount.Float64
	}
	if original.Valid {
		t.OriginalAmount = &original.Float64
	}
	if remaining.Valid {
		t.RemainingAmount = &remaining.Float64
	}
	if quantity.Valid {
		t.Quantity = &quantity.Float64
	}
	if unitPrice.Valid {
		t.UnitPrice = &unitPrice.Float64
	}
	if status.Valid {
		t.PaymentStatus = core.PaymentStatus(status.String)
	}
	if customerID.Valid {
		t.CustomerID = &customerID.Int64
	}
	if parentID.Valid {
		t.ParentTransactionID = &parentID.Int64
	}
	if itemID.Valid {
		t.LinkedInventoryItemID = &itemID.Int64
	}
	return t, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// --- Transaction CRUD ---

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (category, description, amount, original_amount, remaining_amount,
			quantity, unit_price, date_millis, remarks, currency, bill_number, quantity_unit,
			payment_status, is_settled, customer_id, parent_transaction_id, linked_inventory_item_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Category, t.Description, t.Amount, t.OriginalAmount, t.RemainingAmount,
		t.Quantity, t.UnitPrice, t.DateMillis, t.Remarks, t.Currency, t.BillNumber,
		t.QuantityUnit, nullStr(string(t.PaymentStatus)), t.Settled, t.CustomerID,
		t.ParentTransactionID, t.LinkedInventoryItemID)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET category = ?, description = ?, amount = ?, original_amount = ?,
			remaining_amount = ?, quantity = ?, unit_price = ?, date_millis = ?, remarks = ?,
			currency = ?, bill_number = ?, quantity_unit = ?, payment_status = ?, is_settled = ?,
			customer_id = ?, parent_transaction_id = ?, linked_inventory_item_id = ?
		WHERE id = ?`,
		t.Category, t.Description, t.Amount, t.OriginalAmount, t.RemainingAmount,
		t.Quantity, t.UnitPrice, t.DateMillis, t.Remarks, t.Currency, t.BillNumber,
		t.QuantityUnit, nullStr(string(t.PaymentStatus)), t.Settled, t.CustomerID,
		t.ParentTransactionID, t.LinkedInventoryItemID, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	return nil
}

// SettleTransaction is the targeted settlement write: it only touches the
// remaining amount and the settled flag of the parent row.
func (r *SQLiteRepository) SettleTransaction(ctx context.Context, id int64, remaining float64, settled bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET remaining_amount = ?, is_settled = ? WHERE id = ?`,
		remaining, settled, id)
	if err != nil {
		return fmt.Errorf("settle transaction %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, where string, orderBy string, args ...any) ([]core.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + where + ` ORDER BY ` + orderBy
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SearchTransactionsByCategory lists a category filtered by a description
// substring, newest first. Payment rows carry the PAYMENT category, so they
// are listed under the parent's category and only when asked for.
func (r *SQLiteRepository) SearchTransactionsByCategory(ctx context.Context, category core.Category, query string, includeSettlements bool) ([]core.Transaction, error) {
	if includeSettlements {
		where := `(category = ? OR parent_transaction_id IN (SELECT id FROM transactions WHERE category = ?))
			AND description LIKE ?`
		return r.queryTransactions(ctx, where, `date_millis DESC`, category, category, likePattern(query))
	}
	where := `category = ? AND parent_transaction_id IS NULL AND description LIKE ?`
	return r.queryTransactions(ctx, where, `date_millis DESC`, category, likePattern(query))
}

func (r *SQLiteRepository) TransactionsForCustomer(ctx context.Context, customerID int64) ([]core.Transaction, error) {
	return r.queryTransactions(ctx, `customer_id = ?`, `date_millis DESC`, customerID)
}

// UnsettledReceivablesList lists open credit sales and pure receivables,
// open ones first.
func (r *SQLiteRepository) UnsettledReceivablesList(ctx context.Context, query string) ([]core.Transaction, error) {
	where := `((category = 'SALE' AND payment_status IN ('DUE', 'PARTIAL')) OR (category = 'RECEIVABLE' AND is_settled = 0))
		AND description LIKE ?`
	return r.queryTransactions(ctx, where, `is_settled ASC, date_millis DESC`, likePattern(query))
}

// UnsettledDebtsList is the mirror image for credit purchases and pure debts.
func (r *SQLiteRepository) UnsettledDebtsList(ctx context.Context, query string) ([]core.Transaction, error) {
	where := `((category = 'PURCHASE' AND payment_status IN ('DUE', 'PARTIAL')) OR (category = 'DEBT' AND is_settled = 0))
		AND description LIKE ?`
	return r.queryTransactions(ctx, where, `is_settled ASC, date_millis DESC`, likePattern(query))
}

func likePattern(query string) string {
	return "%" + strings.TrimSpace(query) + "%"
}

// TransactionCount is the total number of ledger rows, settlements included.
// The trial gate compares it against the free entry limit.
func (r *SQLiteRepository) TransactionCount(ctx context.Context) (int, error) {
	return r.countRows(ctx, `SELECT COUNT(id) FROM transactions`)
}

// --- Aggregate sums ---

// sumFloat runs a SUM query and coalesces a NULL (empty set) to 0.
func (r *SQLiteRepository) sumFloat(ctx context.Context, query string, args ...any) (float64, error) {
	var v sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		return 0, fmt.Errorf("sum query: %w", err)
	}
	return v.Float64, nil
}

func (r *SQLiteRepository) TotalByCategory(ctx context.Context, category core.Category) (float64, error) {
	return r.sumFloat(ctx,
		`SELECT SUM(amount) FROM transactions WHERE category = ?`, category)
}

func (r *SQLiteRepository) TotalByCategoryInRange(ctx context.Context, category core.Category, start, end int64) (float64, error) {
	return r.sumFloat(ctx,
		`SELECT SUM(amount) FROM transactions WHERE category = ? AND date_millis BETWEEN ? AND ?`,
		category, start, end)
}

func (r *SQLiteRepository) TotalByCategoryAndStatus(ctx context.Context, category core.Category, status core.PaymentStatus) (float64, error) {
	return r.sumFloat(ctx,
		`SELECT SUM(amount) FROM transactions WHERE category = ? AND payment_status = ?`,
		category, status)
}

func (r *SQLiteRepository) TotalByCategoryAndStatusInRange(ctx context.Context, category core.Category, status core.PaymentStatus, start, end int64) (float64, error) {
	return r.sumFloat(ctx,
		`SELECT SUM(amount) FROM transactions WHERE category = ? AND payment_status = ? AND date_millis BETWEEN ? AND ?`,
		category, status, start, end)
}

func (r *SQLiteRepository) UnsettledTotalByCategory(ctx context.Context, category core.Category) (float64, error) {
	return r.sumFloat(ctx,
		`SELECT SUM(amount) FROM transactions WHERE category = ? AND is_settled = 0`, category)
}

func (r *SQLiteRepository) UnsettledTotalByCategoryInRange(ctx context.Context, category core.Category, start, end int64) (float64, error) {
	return r.sumFloat(ctx,
		`SELECT SUM(amount) FROM transactions WHERE category = ? AND is_settled = 0 AND date_millis BETWEEN ? AND ?`,
		category, start, end)
}

// UnsettledDebtsTotal sums what the business still has to pay out: open pure
// debts plus credit purchases not yet fully paid.
func (r *SQLiteRepository) UnsettledDebtsTotal(ctx context.Context) (float64, error) {
	return r.sumFloat(ctx, `
		SELECT SUM(remaining_amount) FROM transactions
		WHERE is_settled = 0 AND (category = 'DEBT' OR (category = 'PURCHASE' AND payment_status IN ('DUE', 'PARTIAL')))`)
}

func (r *SQLiteRepository) UnsettledDebtsTotalInRange(ctx context.Context, start, end int64) (float64, error) {
	return r.sumFloat(ctx, `
		SELECT SUM(remaining_amount) FROM transactions
		WHERE is_settled = 0 AND (category = 'DEBT' OR (category = 'PURCHASE' AND payment_status IN ('DUE', 'PARTIAL')))
		AND date_millis BETWEEN ? AND ?`, start, end)
}

// UnsettledReceivablesTotal is the symmetric figure for money still owed to
// the business on credit sales and pure receivables.
func (r *SQLiteRepository) UnsettledReceivablesTotal(ctx context.Context) (float64, error) {
	return r.sumFloat(ctx, `
		SELECT SUM(remaining_amount) FROM transactions
		WHERE is_settled = 0 AND (category = 'RECEIVABLE' OR (category = 'SALE' AND payment_status IN ('DUE', 'PARTIAL')))`)
}

// OutstandingReceivables is the broader dashboard figure: every unsettled
// SALE or RECEIVABLE row regardless of payment status.
func (r *SQLiteRepository) OutstandingReceivables(ctx context.Context) (float64, error) {
	return r.sumFloat(ctx, `
		SELECT SUM(remaining_amount) FROM transactions
		WHERE is_settled = 0 AND (category = 'SALE' OR category = 'RECEIVABLE')`)
}

func (r *SQLiteRepository) OutstandingReceivablesInRange(ctx context.Context, start, end int64) (float64, error) {
	return r.sumFloat(ctx, `
		SELECT SUM(remaining_amount) FROM transactions
		WHERE is_settled = 0 AND (category = 'SALE' OR category = 'RECEIVABLE')
		AND date_millis BETWEEN ? AND ?`, start, end)
}

func categoryPlaceholders(categories []core.Category) (string, []any) {
	ph := make([]string, len(categories))
	args := make([]any, len(categories))
	for i, c := range categories {
		ph[i] = "?"
		args[i] = c
	}
	return strings.Join(ph, ", "), args
}

func (r *SQLiteRepository) SumByCategories(ctx context.Context, categories []core.Category) (float64, error) {
	ph, args := categoryPlaceholders(categories)
	return r.sumFloat(ctx,
		`SELECT SUM(amount) FROM transactions WHERE category IN (`+ph+`)`, args...)
}

func (r *SQLiteRepository) SumByCategoriesInRange(ctx context.Context, categories []core.Category, start, end int64) (float64, error) {
	ph, args := categoryPlaceholders(categories)
	args = append(args, start, end)
	return r.sumFloat(ctx,
		`SELECT SUM(amount) FROM transactions WHERE category IN (`+ph+`) AND date_millis BETWEEN ? AND ?`, args...)
}

// --- Customer figures ---

func (r *SQLiteRepository) TotalSalesForCustomer(ctx context.Context, customerID int64) (float64, error) {
	return r.sumFloat(ctx,
		`SELECT SUM(amount) FROM transactions WHERE customer_id = ? AND category = 'SALE'`, customerID)
}

func (r *SQLiteRepository) OutstandingBalanceForCustomer(ctx context.Context, customerID int64) (float64, error) {
	return r.sumFloat(ctx,
		`SELECT SUM(remaining_amount) FROM transactions WHERE customer_id = ? AND is_settled = 0`, customerID)
}

// LastTransactionDateForCustomer returns 0 when the customer has no
// transactions yet.
func (r *SQLiteRepository) LastTransactionDateForCustomer(ctx context.Context, customerID int64) (int64, error) {
	var v sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(date_millis) FROM transactions WHERE customer_id = ?`, customerID).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("last transaction date: %w", err)
	}
	return v.Int64, nil
}

// --- Overdue counts (reminder job) ---

func (r *SQLiteRepository) OverdueReceivablesCount(ctx context.Context, before int64) (int, error) {
	return r.countRows(ctx, `
		SELECT COUNT(id) FROM transactions
		WHERE is_settled = 0 AND (category = 'SALE' OR category = 'RECEIVABLE') AND date_millis < ?`, before)
}

func (r *SQLiteRepository) OverdueDebtsCount(ctx context.Context, before int64) (int, error) {
	return r.countRows(ctx, `
		SELECT COUNT(id) FROM transactions
		WHERE is_settled = 0 AND (category = 'PURCHASE' OR category = 'DEBT') AND date_millis < ?`, before)
}

func (r *SQLiteRepository) countRows(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return n, nil
}

// --- Grouped reports ---

func (r *SQLiteRepository) ExpenseTotalsByCategory(ctx context.Context, categories []core.Category, start, end int64, bounded bool) ([]core.CategoryTotal, error) {
	ph, args := categoryPlaceholders(categories)
	q := `SELECT category, SUM(amount) AS total FROM transactions WHERE category IN (` + ph + `)`
	if bounded {
		q += ` AND date_millis BETWEEN ? AND ?`
		args = append(args, start, end)
	}
	q += ` GROUP BY category ORDER BY total DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("expense totals: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var (
			ct    core.CategoryTotal
			total sql.NullFloat64
		)
		if err := rows.Scan(&ct.Category, &total); err != nil {
			return nil, fmt.Errorf("scan expense total: %w", err)
		}
		ct.TotalAmount = total.Float64
		out = append(out, ct)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) TopSellingItems(ctx context.Context, start, end int64, bounded bool, limit int) ([]core.ItemSaleTotal, error) {
	q := `SELECT description, SUM(quantity) AS total_quantity FROM transactions WHERE category = 'SALE'`
	var args []any
	if bounded {
		q += ` AND date_millis BETWEEN ? AND ?`
		args = append(args, start, end)
	}
	q += ` GROUP BY description ORDER BY total_quantity DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("top selling items: %w", err)
	}
	defer rows.Close()

	var out []core.ItemSaleTotal
	for rows.Next() {
		var (
			it  core.ItemSaleTotal
			qty sql.NullFloat64
		)
		if err := rows.Scan(&it.Description, &qty); err != nil {
			return nil, fmt.Errorf("scan item total: %w", err)
		}
		it.TotalQuantity = qty.Float64
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) TopCustomersBySale(ctx context.Context, start, end int64, bounded bool, limit int) ([]core.CustomerSaleTotal, error) {
	q := `SELECT t.customer_id, c.name, SUM(t.amount) AS total
		FROM transactions AS t
		LEFT JOIN customers AS c ON t.customer_id = c.id
		WHERE t.category = 'SALE' AND t.customer_id IS NOT NULL`
	var args []any
	if bounded {
		q += ` AND t.date_millis BETWEEN ? AND ?`
		args = append(args, start, end)
	}
	q += ` GROUP BY t.customer_id ORDER BY total DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	defer rows.Close()

	var out []core.CustomerSaleTotal
	for rows.Next() {
		var (
			cs    core.CustomerSaleTotal
			cid   sql.NullInt64
			name  sql.NullString
			total sql.NullFloat64
		)
		if err := rows.Scan(&cid, &name, &total); err != nil {
			return nil, fmt.Errorf("scan customer total: %w", err)
		}
		if cid.Valid {
			cs.CustomerID = &cid.Int64
		}
		cs.CustomerName = name.String
		cs.TotalAmount = total.Float64
		out = append(out, cs)
	}
	return out, rows.Err()
}

// --- Customers ---

func (r *SQLiteRepository) InsertCustomer(ctx context.Context, c core.Customer) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (name, code, type, contact_info, is_active) VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Code, c.Type, c.ContactInfo, c.Active)
	if err != nil {
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("customer id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateCustomer(ctx context.Context, c core.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, code = ?, type = ?, contact_info = ?, is_active = ? WHERE id = ?`,
		c.Name, c.Code, c.Type, c.ContactInfo, c.Active, c.ID)
	if err != nil {
		return fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	return nil
}

// DeactivateCustomer soft-deletes: rows referenced by transactions are never
// physically removed.
func (r *SQLiteRepository) DeactivateCustomer(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE customers SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate customer %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) GetCustomer(ctx context.Context, id int64) (core.Customer, error) {
	var c core.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, code, type, contact_info, is_active FROM customers WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Code, &c.Type, &c.ContactInfo, &c.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	if err != nil {
		return c, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) queryCustomers(ctx context.Context, where string, args ...any) ([]core.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, code, type, contact_info, is_active FROM customers WHERE `+where+` ORDER BY name ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []core.Customer
	for rows.Next() {
		var c core.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Type, &c.ContactInfo, &c.Active); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListActiveCustomers(ctx context.Context) ([]core.Customer, error) {
	return r.queryCustomers(ctx, `is_active = 1`)
}

func (r *SQLiteRepository) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	return r.queryCustomers(ctx, `1 = 1`)
}

func (r *SQLiteRepository) SearchActiveCustomers(ctx context.Context, query string) ([]core.Customer, error) {
	return r.queryCustomers(ctx, `is_active = 1 AND name LIKE ?`, likePattern(query))
}

func (r *SQLiteRepository) ActiveCustomerCount(ctx context.Context) (int, error) {
	return r.countRows(ctx, `SELECT COUNT(id) FROM customers WHERE is_active = 1`)
}

// --- Inventory ---

func (r *SQLiteRepository) InsertInventoryItem(ctx context.Context, item core.InventoryItem) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory_items (name, unit, quantity, purchase_price, sale_price, remarks) VALUES (?, ?, ?, ?, ?, ?)`,
		item.Name, item.Unit, item.Quantity, item.PurchasePrice, item.SalePrice, item.Remarks)
	if err != nil {
		return 0, fmt.Errorf("insert inventory item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inventory item id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateInventoryItem(ctx context.Context, item core.InventoryItem) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE inventory_items SET name = ?, unit = ?, quantity = ?, purchase_price = ?, sale_price = ?, remarks = ? WHERE id = ?`,
		item.Name, item.Unit, item.Quantity, item.PurchasePrice, item.SalePrice, item.Remarks, item.ID)
	if err != nil {
		return fmt.Errorf("update inventory item %d: %w", item.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteInventoryItem(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) GetInventoryItem(ctx context.Context, id int64) (core.InventoryItem, error) {
	var (
		item                     core.InventoryItem
		purchasePrice, salePrice sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, unit, quantity, purchase_price, sale_price, remarks FROM inventory_items WHERE id = ?`, id).
		Scan(&item.ID, &item.Name, &item.Unit, &item.Quantity, &purchasePrice, &salePrice, &item.Remarks)
	if errors.Is(err, sql.ErrNoRows) {
		return item, ErrNotFound
	}
	if err != nil {
		return item, fmt.Errorf("get inventory item %d: %w", id, err)
	}
	if purchasePrice.Valid {
		item.PurchasePrice = &purchasePrice.Float64
	}
	if salePrice.Valid {
		item.SalePrice = &salePrice.Float64
	}
	return item, nil
}

func (r *SQLiteRepository) ListInventoryItems(ctx context.Context) ([]core.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, unit, quantity, purchase_price, sale_price, remarks FROM inventory_items ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var out []core.InventoryItem
	for rows.Next() {
		var (
			item                     core.InventoryItem
			purchasePrice, salePrice sql.NullFloat64
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Unit, &item.Quantity, &purchasePrice, &salePrice, &item.Remarks); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		if purchasePrice.Valid {
			item.PurchasePrice = &purchasePrice.Float64
		}
		if salePrice.Valid {
			item.SalePrice = &salePrice.Float64
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// AdjustStock applies a delta to an item's stock level in a single targeted
// statement, negative for sales and positive for purchases.
func (r *SQLiteRepository) AdjustStock(ctx context.Context, id int64, delta float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE inventory_items SET quantity = quantity + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("adjust stock for item %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) TotalStockQuantity(ctx context.Context) (float64, error) {
	return r.sumFloat(ctx, `SELECT SUM(quantity) FROM inventory_items`)
}

func (r *SQLiteRepository) TotalInventoryValue(ctx context.Context) (float64, error) {
	return r.sumFloat(ctx, `SELECT SUM(quantity * purchase_price) FROM inventory_items`)
}

// --- Settings ---

func (r *SQLiteRepository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) AllSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// --- Backup support ---

func (r *SQLiteRepository) AllTransactions(ctx context.Context) ([]core.Transaction, error) {
	return r.queryTransactions(ctx, `1 = 1`, `id ASC`)
}

func (r *SQLiteRepository) AllCustomers(ctx context.Context) ([]core.Customer, error) {
	return r.ListCustomers(ctx)
}

func (r *SQLiteRepository) AllInventoryItems(ctx context.Context) ([]core.InventoryItem, error) {
	return r.ListInventoryItems(ctx)
}

// RestoreAll replaces the entire database content with the given snapshot
// data. This is the one multi-row operation that runs inside a transaction:
// a half-restored ledger is worse than a failed restore.
func (r *SQLiteRepository) RestoreAll(ctx context.Context, txs []core.Transaction, customers []core.Customer, items []core.InventoryItem, settings map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin restore: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "customers", "inventory_items", "settings"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, c := range customers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customers (id, name, code, type, contact_info, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Code, c.Type, c.ContactInfo, c.Active); err != nil {
			return fmt.Errorf("restore customer %d: %w", c.ID, err)
		}
	}
	for _, item := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO inventory_items (id, name, unit, quantity, purchase_price, sale_price, remarks) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.Name, item.Unit, item.Quantity, item.PurchasePrice, item.SalePrice, item.Remarks); err != nil {
			return fmt.Errorf("restore inventory item %d: %w", item.ID, err)
		}
	}
	for _, t := range txs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, category, description, amount, original_amount, remaining_amount,
				quantity, unit_price, date_millis, remarks, currency, bill_number, quantity_unit,
				payment_status, is_settled, customer_id, parent_transaction_id, linked_inventory_item_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Category, t.Description, t.Amount, t.OriginalAmount, t.RemainingAmount,
			t.Quantity, t.UnitPrice, t.DateMillis, t.Remarks, t.Currency, t.BillNumber,
			t.QuantityUnit, nullStr(string(t.PaymentStatus)), t.Settled, t.CustomerID,
			t.ParentTransactionID, t.LinkedInventoryItemID); err != nil {
			return fmt.Errorf("restore transaction %d: %w", t.ID, err)
		}
	}
	for k, v := range settings {
		if _, err := tx.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("restore setting %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit restore: %w", err)
	}
	return nil
}
