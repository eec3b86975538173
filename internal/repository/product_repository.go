package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
)

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	CategoryID *int64
	OnlyActive bool
	Limit      int
	Offset     int
}

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	SetStock(ctx context.Context, id int64, stock int) (*domain.Product, error)
	Deactivate(ctx context.Context, id int64) error
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates the repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, name, description, price, stock, image_url, category_id, is_active, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (name, description, price, stock, image_url, category_id, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.ImageURL,
		product.CategoryID,
		product.Active,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET name=$1, description=$2, price=$3, stock=$4, image_url=$5, category_id=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.ImageURL,
		product.CategoryID,
		product.Active,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.OnlyActive {
		query += ` AND is_active=true`
	}
	if filter.CategoryID != nil {
		query += ` AND category_id=$` + strconv.Itoa(idx)
		args = append(args, *filter.CategoryID)
		idx++
	}
	query += ` ORDER BY name`
	if filter.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(idx)
		args = append(args, filter.Limit)
		idx++
	}
	if filter.Offset > 0 {
		query += ` OFFSET $` + strconv.Itoa(idx)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

// SetStock replaces the stock value and returns the updated product.
func (r *productRepository) SetStock(ctx context.Context, id int64, stock int) (*domain.Product, error) {
	const query = `
        UPDATE products SET stock=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + productColumns
	return scanProduct(r.pool.QueryRow(ctx, query, stock, id))
}

func (r *productRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE products SET is_active=false, updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.ImageURL,
		&product.CategoryID,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}
