package engine

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var seedDDL = []string{
	`CREATE TABLE users (
  id INTEGER PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  age INTEGER,
  created_at TEXT
)`,
	`CREATE TABLE products (
  id INTEGER PRIMARY KEY,
  product_name TEXT NOT NULL,
  price REAL NOT NULL,
  category TEXT,
  stock INTEGER
)`,
	`CREATE TABLE orders (
  id INTEGER PRIMARY KEY,
  user_id INTEGER,
  total_amount REAL NOT NULL,
  order_date TEXT,
  FOREIGN KEY (user_id) REFERENCES users (id)
)`,
	`CREATE TABLE order_items (
  id INTEGER PRIMARY KEY,
  order_id INTEGER,
  product_id INTEGER,
  quantity INTEGER NOT NULL,
  price REAL NOT NULL,
  FOREIGN KEY (order_id) REFERENCES orders (id),
  FOREIGN KEY (product_id) REFERENCES products (id)
)`,
}

type seedUser struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	Username string `gorm:"column:username"`
	Email    string `gorm:"column:email"`
	Age      int64  `gorm:"column:age"`
	Joined   string `gorm:"column:created_at"`
}

func (seedUser) TableName() string { return "users" }

type seedProduct struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	ProductName string  `gorm:"column:product_name"`
	Price       float64 `gorm:"column:price"`
	Category    string  `gorm:"column:category"`
	Stock       int64   `gorm:"column:stock"`
}

func (seedProduct) TableName() string { return "products" }

type seedOrder struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	UserID      int64   `gorm:"column:user_id"`
	TotalAmount float64 `gorm:"column:total_amount"`
	OrderDate   string  `gorm:"column:order_date"`
}

func (seedOrder) TableName() string { return "orders" }

type seedOrderItem struct {
	ID        int64   `gorm:"column:id;primaryKey"`
	OrderID   int64   `gorm:"column:order_id"`
	ProductID int64   `gorm:"column:product_id"`
	Quantity  int64   `gorm:"column:quantity"`
	Price     float64 `gorm:"column:price"`
}

func (seedOrderItem) TableName() string { return "order_items" }

var (
	seedUsers = []seedUser{
		{1, "john", "john@example.com", 25, "2023-01-15"},
		{2, "alice", "alice@example.com", 28, "2023-02-20"},
		{3, "carol", "carol@example.com", 42, "2023-03-10"},
		{4, "david", "david@example.com", 19, "2023-04-05"},
		{5, "bob", "bob@example.com", 35, "2023-05-22"},
	}
	seedProducts = []seedProduct{
		{1, "Laptop", 999.99, "Electronics", 25},
		{2, "Smartphone", 699.99, "Electronics", 50},
		{3, "Headphones", 149.99, "Electronics", 100},
		{4, "Coffee Maker", 89.99, "Kitchen", 30},
		{5, "Desk Chair", 199.99, "Furniture", 15},
	}
	seedOrders = []seedOrder{
		{1, 1, 1149.98, "2023-06-10"},
		{2, 2, 699.99, "2023-06-12"},
		{3, 3, 239.98, "2023-06-15"},
		{4, 5, 1199.98, "2023-06-20"},
		{5, 1, 89.99, "2023-06-25"},
	}
	seedOrderItems = []seedOrderItem{
		{1, 1, 1, 1, 999.99},
		{2, 1, 3, 1, 149.99},
		{3, 2, 2, 1, 699.99},
		{4, 3, 3, 1, 149.99},
		{5, 3, 4, 1, 89.99},
		{6, 4, 1, 1, 999.99},
		{7, 4, 5, 1, 199.99},
		{8, 5, 4, 1, 89.99},
	}
)

// SeedTables lists the tables created by the default dataset, in creation order.
var SeedTables = []string{"users", "products", "orders", "order_items"}

// createDefaultTables creates the sample schema and loads its rows.
func createDefaultTables(db *gorm.DB) error {
	for _, ddl := range seedDDL {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	inserts := []struct {
		table string
		rows  any
	}{
		{"users", clone(seedUsers)},
		{"products", clone(seedProducts)},
		{"orders", clone(seedOrders)},
		{"order_items", clone(seedOrderItems)},
	}
	for _, in := range inserts {
		if err := db.Create(in.rows).Error; err != nil {
			return fmt.Errorf("seed %s: %w", in.table, err)
		}
	}
	return nil
}

// dropAllTables drops every table except sqlite_sequence.
func dropAllTables(db *gorm.DB) error {
	var names []string
	if err := db.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&names).Error; err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	for _, name := range names {
		if name == "sqlite_sequence" {
			continue
		}
		if err := db.Exec("DROP TABLE IF EXISTS " + quoteIdent(name)).Error; err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}

// clone hands gorm a private copy so concurrent engines never share seed slices.
func clone[T any](rows []T) *[]T {
	c := append([]T(nil), rows...)
	return &c
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Schema returns the display text describing the sample database.
func (e *Engine) Schema() string {
	return schemaText
}

const schemaText = `/* Database Schema */

-- Users Table
CREATE TABLE users (
  id INTEGER PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  age INTEGER,
  created_at TEXT
);

-- Products Table
CREATE TABLE products (
  id INTEGER PRIMARY KEY,
  product_name TEXT NOT NULL,
  price REAL NOT NULL,
  category TEXT,
  stock INTEGER
);

-- Orders Table
CREATE TABLE orders (
  id INTEGER PRIMARY KEY,
  user_id INTEGER,
  total_amount REAL NOT NULL,
  order_date TEXT,
  FOREIGN KEY (user_id) REFERENCES users (id)
);

-- Order Items Table
CREATE TABLE order_items (
  id INTEGER PRIMARY KEY,
  order_id INTEGER,
  product_id INTEGER,
  quantity INTEGER NOT NULL,
  price REAL NOT NULL,
  FOREIGN KEY (order_id) REFERENCES orders (id),
  FOREIGN KEY (product_id) REFERENCES products (id)
);
`
