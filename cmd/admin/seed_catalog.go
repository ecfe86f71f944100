package main

import (
	"context"
	"fmt"
	"time"

	"b2bdesk/internal/adapter/persistence/repository"
	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/infrastructure/database"
	"b2bdesk/internal/infrastructure/logger"
	"b2bdesk/internal/usecase"

	"github.com/spf13/cobra"
)

var seedCatalogCmd = &cobra.Command{
	Use:   "seed-catalog",
	Short: "Load a small demo catalog of products and customers",
	Long: `Insert a handful of demo products and customers so the API can be
exercised locally without hand-crafting catalog payloads first.

Prices are tax inclusive; tax rates are GST percentages.`,
	RunE: runSeedCatalog,
}

func init() {
	rootCmd.AddCommand(seedCatalogCmd)
}

func demoProducts() []entities.Product {
	return []entities.Product{
		{Name: "Copper Wire 8mm Coil", SKU: "CW-8MM", HSNCode: "7408", Unit: "kg", Price: 826.0, TaxRate: 18},
		{Name: "PVC Conduit 25mm", SKU: "PVC-25", HSNCode: "3917", Unit: "pcs", Price: 118.0, TaxRate: 18},
		{Name: "MCB 32A Single Pole", SKU: "MCB-32A", HSNCode: "8536", Unit: "pcs", Price: 295.0, TaxRate: 18},
		{Name: "LED Batten 20W", SKU: "LED-B20", HSNCode: "9405", Unit: "pcs", Price: 336.0, TaxRate: 12},
	}
}

func demoCustomers() []entities.Customer {
	return []entities.Customer{
		{
			Name:  "Sharma Electricals",
			Email: "purchases@sharmaelectricals.example",
			Phone: "+91 98200 00001",
			GSTIN: "27AAACS1234A1Z5",
			Billing: entities.Address{
				Street: "14 Lamington Road", City: "Mumbai", State: "Maharashtra", Pincode: "400007",
			},
		},
		{
			Name:  "Deccan Hardware Traders",
			Email: "accounts@deccanhardware.example",
			Phone: "+91 98450 00002",
			GSTIN: "29AAACD5678B1Z3",
			Billing: entities.Address{
				Street: "6 SP Road", City: "Bengaluru", State: "Karnataka", Pincode: "560002",
			},
		},
	}
}

func runSeedCatalog(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("seed-catalog")

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	ddb := database.ConnectDynamoDB()
	catalog := usecase.NewCatalogUseCase(
		repository.NewProductDynamoRepository(ddb),
		repository.NewCustomerDynamoRepository(ddb),
	)

	for _, p := range demoProducts() {
		created, err := catalog.CreateProduct(ctx, p)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		log.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("Product seeded")
	}

	for _, c := range demoCustomers() {
		c.Shipping = c.Billing
		created, err := catalog.CreateCustomer(ctx, c)
		if err != nil {
			return fmt.Errorf("seed customer %q: %w", c.Name, err)
		}
		log.Info().Str("customer_id", created.ID).Str("name", created.Name).Msg("Customer seeded")
	}

	fmt.Println("Demo catalog seeded.")
	return nil
}
