package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/fjod/storefront-cart/internal/domain"
	"github.com/fjod/storefront-cart/internal/inventory"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Repository is the SQLite product catalog with per-product stock.
// It satisfies inventory.Lookup.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations() error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, title, price, image
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	query := `
		SELECT id, title, price, image
		FROM products
		WHERE id = ?
	`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.Price, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, inventory.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

func (r *Repository) GetStock(ctx context.Context, id int64) (domain.StockInfo, error) {
	stock := domain.StockInfo{ProductID: id}
	err := r.db.QueryRowContext(ctx, `SELECT amount FROM stock WHERE id = ?`, id).Scan(&stock.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StockInfo{}, inventory.ErrProductNotFound
	}
	if err != nil {
		return domain.StockInfo{}, fmt.Errorf("failed to query stock: %w", err)
	}
	return stock, nil
}

// SetStock sets the available amount for an existing product.
func (r *Repository) SetStock(ctx context.Context, id int64, amount int) error {
	if amount < 0 {
		return fmt.Errorf("stock amount must not be negative, got %d", amount)
	}
	if _, err := r.GetProduct(ctx, id); err != nil {
		return err
	}

	query := `INSERT INTO stock (id, amount) VALUES (?, ?)
	          ON CONFLICT (id) DO UPDATE SET amount = excluded.amount`
	if _, err := r.db.ExecContext(ctx, query, id, amount); err != nil {
		return fmt.Errorf("failed to set stock: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
