package storage

import (
	"github.com/shopspring/decimal"

	"spicymarket/models"
)

// DefaultProducts is the catalog written when product_database has never been set.
func DefaultProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Wireless Bluetooth Headphones", Price: decimal.RequireFromString("89.99"), Rating: 4.5, ReviewCount: 188,
			ImageURL: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500", Category: "electronics"},
		{ID: 2, Name: "Smartwatch with Fitness Tracker", Price: decimal.RequireFromString("159.50"), Rating: 4.8, ReviewCount: 245,
			ImageURL: "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500", Category: "electronics"},
		{ID: 3, Name: "Portable Espresso Machine", Price: decimal.RequireFromString("65.00"), Rating: 4.2, ReviewCount: 98,
			ImageURL: "https://images.unsplash.com/photo-1517668808822-9ebb02f2a0e6?w=500", Category: "homeAndKitchen"},
		{ID: 4, Name: "Vintage Leather Backpack", Price: decimal.RequireFromString("120.00"), Rating: 4.9, ReviewCount: 312,
			ImageURL: "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=500", Category: "fashion"},
		{ID: 5, Name: "Organic Green Tea Set", Price: decimal.RequireFromString("25.99"), Rating: 4.6, ReviewCount: 78,
			ImageURL: "https://images.unsplash.com/photo-1556679343-c7306c1976bc?w=500", Category: "homeAndKitchen"},
		{ID: 6, Name: "Modern Desk Lamp", Price: decimal.RequireFromString("45.00"), Rating: 4.4, ReviewCount: 150,
			ImageURL: "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=500", Category: "homeAndKitchen"},
		{ID: 7, Name: "High-Performance Gaming Mouse", Price: decimal.RequireFromString("79.99"), Rating: 4.7, ReviewCount: 450,
			ImageURL: "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=500", Category: "electronics"},
		{ID: 8, Name: "Professional DSLR Camera", Price: decimal.RequireFromString("899.00"), Rating: 4.9, ReviewCount: 560,
			ImageURL: "https://images.unsplash.com/photo-1516035069371-29a1b244cc32?w=500", Category: "electronics"},
	}
}
