// seed-demo-data creates and populates demo tables (customers, products,
// orders) so the assistant has something to query during evaluation.
//
// Usage: go run ./scripts/seed-demo-data [-customers 50] [-products 20] [-orders 200]
//
// Database connection: uses the same WAREHOUSE_* environment variables as
// the assistant itself (WAREHOUSE_HOST, WAREHOUSE_PORT, WAREHOUSE_USER,
// WAREHOUSE_PASSWORD, WAREHOUSE_DATABASE, WAREHOUSE_SCHEMA).
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

var (
	firstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Leslie", "Tony", "Margaret", "John"}
	lastNames  = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Lamport", "Hoare", "Hamilton", "Backus"}
	regions    = []string{"north", "south", "east", "west"}
	categories = []string{"electronics", "books", "clothing", "home", "sports"}
	statuses   = []string{"pending", "shipped", "delivered", "cancelled"}
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS customers (
	id         SERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	region     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS products (
	id       SERIAL PRIMARY KEY,
	name     TEXT NOT NULL,
	category TEXT NOT NULL,
	price    NUMERIC(10,2) NOT NULL
);
CREATE TABLE IF NOT EXISTS orders (
	id          SERIAL PRIMARY KEY,
	customer_id INT NOT NULL REFERENCES customers(id),
	product_id  INT NOT NULL REFERENCES products(id),
	quantity    INT NOT NULL,
	total       NUMERIC(10,2) NOT NULL,
	status      TEXT NOT NULL,
	ordered_at  TIMESTAMPTZ NOT NULL
);
`

func main() {
	customers := flag.Int("customers", 50, "Number of customers to create")
	products := flag.Int("products", 20, "Number of products to create")
	orders := flag.Int("orders", 200, "Number of orders to create")
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, connString())
	if err != nil {
		fatal("connect: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		fatal("create tables: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < *customers; i++ {
		name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		email := fmt.Sprintf("user%d@example.com", i)
		region := regions[rng.Intn(len(regions))]
		created := time.Now().AddDate(0, 0, -rng.Intn(365))
		if _, err := conn.Exec(ctx,
			`INSERT INTO customers (name, email, region, created_at) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (email) DO NOTHING`,
			name, email, region, created); err != nil {
			fatal("insert customer: %v", err)
		}
	}

	for i := 0; i < *products; i++ {
		category := categories[rng.Intn(len(categories))]
		name := fmt.Sprintf("%s item %d", category, i)
		price := float64(rng.Intn(20000)+99) / 100
		if _, err := conn.Exec(ctx,
			`INSERT INTO products (name, category, price) VALUES ($1, $2, $3)`,
			name, category, price); err != nil {
			fatal("insert product: %v", err)
		}
	}

	for i := 0; i < *orders; i++ {
		var productID int
		var price float64
		if err := conn.QueryRow(ctx,
			`SELECT id, price FROM products ORDER BY random() LIMIT 1`).Scan(&productID, &price); err != nil {
			fatal("pick product: %v", err)
		}
		var customerID int
		if err := conn.QueryRow(ctx,
			`SELECT id FROM customers ORDER BY random() LIMIT 1`).Scan(&customerID); err != nil {
			fatal("pick customer: %v", err)
		}

		quantity := rng.Intn(5) + 1
		ordered := time.Now().AddDate(0, 0, -rng.Intn(90))
		status := statuses[rng.Intn(len(statuses))]
		if _, err := conn.Exec(ctx,
			`INSERT INTO orders (customer_id, product_id, quantity, total, status, ordered_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			customerID, productID, quantity, price*float64(quantity), status, ordered); err != nil {
			fatal("insert order: %v", err)
		}
	}

	fmt.Printf("Seeded %d customers, %d products, %d orders\n", *customers, *products, *orders)
}

func connString() string {
	host := envOr("WAREHOUSE_HOST", "localhost")
	port := envOr("WAREHOUSE_PORT", "5432")
	user := envOr("WAREHOUSE_USER", "askdb")
	password := os.Getenv("WAREHOUSE_PASSWORD")
	database := envOr("WAREHOUSE_DATABASE", "analytics")

	userInfo := url.QueryEscape(user)
	if password != "" {
		userInfo += ":" + url.QueryEscape(password)
	}
	return fmt.Sprintf("postgresql://%s@%s:%s/%s", userInfo, host, port, url.QueryEscape(database))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
