package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(ctx)

	merchantIDs := seedMerchants(ctx, conn)
	itemIDs := seedItems(ctx, conn, merchantIDs)
	customerIDs := seedCustomers(ctx, conn)
	invoiceIDs := seedInvoices(ctx, conn, customerIDs)
	seedLineItems(ctx, conn, invoiceIDs, itemIDs)
	seedTransactions(ctx, conn, invoiceIDs)
	seedDiscounts(ctx, conn, merchantIDs)

	log.Println("Seeding completed successfully!")
}

func seedMerchants(ctx context.Context, conn *pgx.Conn) []string {
	merchants := []struct {
		Name   string
		Status string
	}{
		{"Schroeder-Jerde", "enabled"},
		{"Klein, Rempel and Jones", "enabled"},
		{"Willms and Sons", "enabled"},
		{"Cummings-Thiel", "disabled"},
		{"Williamson Group", "enabled"},
		{"Pollich and Sons", "disabled"},
	}

	fmt.Println("Seeding Merchants...")
	ids := make([]string, 0, len(merchants))
	for _, m := range merchants {
		var id string
		err := conn.QueryRow(ctx, `
			INSERT INTO merchants (name, status) VALUES ($1, $2) RETURNING id;
		`, m.Name, m.Status).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed merchant %s: %v", m.Name, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func seedItems(ctx context.Context, conn *pgx.Conn, merchantIDs []string) []string {
	items := []struct {
		Name      string
		UnitPrice int64
	}{
		{"Qui Esse", 7510},
		{"Autem Minima", 6700},
		{"Ea Voluptatum", 3245},
		{"Nemo Facere", 420},
		{"Expedita Aliquam", 2500},
		{"Provident At", 15900},
		{"Expedita Fuga", 31100},
		{"Est Animi", 8300},
		{"Et Cum", 4360},
		{"Nemo Deleniti", 12075},
		{"Quo Magnam", 1990},
		{"Vero Dolore", 28000},
	}

	fmt.Println("Seeding Items...")
	ids := make([]string, 0, len(items))
	for i, it := range items {
		if len(merchantIDs) == 0 {
			break
		}
		merchantID := merchantIDs[i%len(merchantIDs)]
		var id string
		err := conn.QueryRow(ctx, `
			INSERT INTO items (merchant_id, name, description, unit_price, status)
			VALUES ($1, $2, 'Seeded item', $3, 'enabled') RETURNING id;
		`, merchantID, it.Name, it.UnitPrice).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed item %s: %v", it.Name, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func seedCustomers(ctx context.Context, conn *pgx.Conn) []string {
	customers := []struct {
		First string
		Last  string
	}{
		{"Joey", "Ondricka"},
		{"Cecelia", "Osinski"},
		{"Mariah", "Toy"},
		{"Leanne", "Braun"},
		{"Sylvester", "Nader"},
		{"Heber", "Kuhn"},
		{"Parker", "Daugherty"},
		{"Loyal", "Considine"},
	}

	fmt.Println("Seeding Customers...")
	ids := make([]string, 0, len(customers))
	for _, c := range customers {
		var id string
		err := conn.QueryRow(ctx, `
			INSERT INTO customers (first_name, last_name) VALUES ($1, $2) RETURNING id;
		`, c.First, c.Last).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed customer %s %s: %v", c.First, c.Last, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func seedInvoices(ctx context.Context, conn *pgx.Conn, customerIDs []string) []string {
	statuses := []string{"completed", "completed", "in_progress", "completed", "cancelled", "completed", "in_progress", "completed"}

	fmt.Println("Seeding Invoices...")
	ids := make([]string, 0, len(statuses)*2)
	for i, status := range statuses {
		if len(customerIDs) == 0 {
			break
		}
		customerID := customerIDs[i%len(customerIDs)]
		createdAt := time.Now().AddDate(0, 0, -i*3)
		var id string
		err := conn.QueryRow(ctx, `
			INSERT INTO invoices (customer_id, status, created_at) VALUES ($1, $2, $3) RETURNING id;
		`, customerID, status, createdAt).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed invoice for customer %s: %v", customerID, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func seedLineItems(ctx context.Context, conn *pgx.Conn, invoiceIDs, itemIDs []string) {
	fmt.Println("Seeding Line Items...")
	quantities := []int64{1, 3, 5, 9, 12, 2, 7, 15}
	for i, invoiceID := range invoiceIDs {
		if len(itemIDs) == 0 {
			break
		}
		// two entries per invoice, sometimes for the same item
		for j := 0; j < 2; j++ {
			itemID := itemIDs[(i+j)%len(itemIDs)]
			qty := quantities[(i+j)%len(quantities)]
			var price int64
			if err := conn.QueryRow(ctx, "SELECT unit_price FROM items WHERE id = $1", itemID).Scan(&price); err != nil {
				log.Printf("Failed to read item price: %v", err)
				continue
			}
			_, err := conn.Exec(ctx, `
				INSERT INTO line_items (invoice_id, item_id, quantity, unit_price, status)
				VALUES ($1, $2, $3, $4, 'shipped');
			`, invoiceID, itemID, qty, price)
			if err != nil {
				log.Printf("Failed to seed line item on invoice %s: %v", invoiceID, err)
			}
		}
	}
}

func seedTransactions(ctx context.Context, conn *pgx.Conn, invoiceIDs []string) {
	fmt.Println("Seeding Transactions...")
	for i, invoiceID := range invoiceIDs {
		result := "success"
		if i%5 == 4 {
			result = "failed"
		}
		_, err := conn.Exec(ctx, `
			INSERT INTO transactions (invoice_id, credit_card_number, result)
			VALUES ($1, '4654405418249632', $2);
		`, invoiceID, result)
		if err != nil {
			log.Printf("Failed to seed transaction on invoice %s: %v", invoiceID, err)
		}
	}
}

func seedDiscounts(ctx context.Context, conn *pgx.Conn, merchantIDs []string) {
	discounts := []struct {
		Name      string
		Percent   float64
		Threshold int64
	}{
		{"Ten off ten", 10, 10},
		{"Twenty off fifteen", 20, 15},
		{"Five off five", 5, 5},
		{"Bulk thirty", 30, 25},
	}

	fmt.Println("Seeding Discounts...")
	for i, d := range discounts {
		if len(merchantIDs) == 0 {
			break
		}
		merchantID := merchantIDs[i%len(merchantIDs)]
		_, err := conn.Exec(ctx, `
			INSERT INTO discounts (merchant_id, name, percent, threshold)
			VALUES ($1, $2, $3, $4);
		`, merchantID, d.Name, d.Percent, d.Threshold)
		if err != nil {
			log.Printf("Failed to seed discount %s: %v", d.Name, err)
		}
	}
}
