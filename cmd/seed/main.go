// Command seed loads the demo product catalog into the database. It is
// idempotent: a catalog that already has products is left untouched.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"vibecart/internal"
	"vibecart/internal/domain"
	"vibecart/internal/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var products = []domain.Product{
	{
		Name:        "Wireless Bluetooth Headphones",
		Price:       79.99,
		Description: "High-quality wireless headphones with noise cancellation",
		Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
		Category:    "Electronics",
		InStock:     true,
	},
	{
		Name:        "Smart Watch Series 5",
		Price:       199.99,
		Description: "Advanced smartwatch with health monitoring features",
		Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500",
		Category:    "Electronics",
		InStock:     true,
	},
	{
		Name:        "Organic Cotton T-Shirt",
		Price:       29.99,
		Description: "Comfortable and sustainable cotton t-shirt",
		Image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=500",
		Category:    "Clothing",
		InStock:     true,
	},
	{
		Name:        "Stainless Steel Water Bottle",
		Price:       24.99,
		Description: "Keep your drinks hot or cold for hours",
		Image:       "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=500",
		Category:    "Accessories",
		InStock:     true,
	},
	{
		Name:        "Programming Book Bundle",
		Price:       49.99,
		Description: "Set of 3 programming books for web development",
		Image:       "https://images.unsplash.com/photo-1544716278-ca5e3f4abd8c?w=500",
		Category:    "Books",
		InStock:     true,
	},
	{
		Name:        "Gaming Mouse",
		Price:       59.99,
		Description: "Precision gaming mouse with RGB lighting",
		Image:       "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=500",
		Category:    "Electronics",
		InStock:     true,
	},
	{
		Name:        "Yoga Mat",
		Price:       34.99,
		Description: "Non-slip yoga mat for all types of exercises",
		Image:       "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=500",
		Category:    "Fitness",
		InStock:     true,
	},
	{
		Name:        "Ceramic Coffee Mug",
		Price:       14.99,
		Description: "Beautiful handcrafted ceramic mug",
		Image:       "https://images.unsplash.com/photo-1544787219-7f47ccb76574?w=500",
		Category:    "Home",
		InStock:     true,
	},
}

func run() error {
	ctx := context.Background()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := postgres.NewProductStore(pool)

	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logger.Info("Catalog already seeded, nothing to do", "products", count)
		return nil
	}

	for _, p := range products {
		p.ID = uuid.NewString()
		if err := store.Insert(ctx, &p); err != nil {
			return fmt.Errorf("failed to insert product %q: %w", p.Name, err)
		}
	}
	logger.Info("Products seeded successfully", "products", len(products))

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
