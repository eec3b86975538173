package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
)

// SaleRepository encapsulates sale persistence.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	GetByID(ctx context.Context, id int64) (*domain.Sale, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Sale, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Sale, error)
}

type saleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository instantiates the repository.
func NewSaleRepository(pool *pgxpool.Pool) SaleRepository {
	return &saleRepository{pool: pool}
}

// Create writes the sale and its line items in a single transaction.
func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const saleQuery = `
        INSERT INTO sales (user_id, total, payment_method, status, voucher_url)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, sold_at`
	if err := tx.QueryRow(ctx, saleQuery,
		sale.UserID,
		sale.Total,
		sale.PaymentMethod,
		sale.Status,
		sale.VoucherURL,
	).Scan(&sale.ID, &sale.SoldAt); err != nil {
		return err
	}

	const itemQuery = `
        INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, subtotal)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	for i := range sale.Items {
		item := &sale.Items[i]
		item.SaleID = sale.ID
		if err := tx.QueryRow(ctx, itemQuery,
			item.SaleID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
		).Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *saleRepository) GetByID(ctx context.Context, id int64) (*domain.Sale, error) {
	const query = `
        SELECT s.id, s.user_id, u.email, s.total, s.payment_method, s.status, s.voucher_url, s.sold_at
        FROM sales s JOIN users u ON u.id = s.user_id
        WHERE s.id=$1`
	sale, err := scanSale(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *saleRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Sale, error) {
	const query = `
        SELECT s.id, s.user_id, u.email, s.total, s.payment_method, s.status, s.voucher_url, s.sold_at
        FROM sales s JOIN users u ON u.id = s.user_id
        WHERE s.user_id=$1 ORDER BY s.sold_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *saleRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	const query = `
        SELECT s.id, s.user_id, u.email, s.total, s.payment_method, s.status, s.voucher_url, s.sold_at
        FROM sales s JOIN users u ON u.id = s.user_id
        WHERE s.sold_at BETWEEN $1 AND $2 ORDER BY s.sold_at`
	return r.list(ctx, query, from, to)
}

func (r *saleRepository) list(ctx context.Context, query string, args ...any) ([]domain.Sale, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *sale)
	}
	return sales, rows.Err()
}

func (r *saleRepository) loadItems(ctx context.Context, sale *domain.Sale) error {
	const query = `
        SELECT id, sale_id, product_id, quantity, unit_price, subtotal
        FROM sale_items WHERE sale_id=$1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, sale.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
		); err != nil {
			return err
		}
		sale.Items = append(sale.Items, item)
	}
	return rows.Err()
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var sale domain.Sale
	if err := row.Scan(
		&sale.ID,
		&sale.UserID,
		&sale.UserEmail,
		&sale.Total,
		&sale.PaymentMethod,
		&sale.Status,
		&sale.VoucherURL,
		&sale.SoldAt,
	); err != nil {
		return nil, err
	}
	return &sale, nil
}
