package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"b2bdesk/internal/infrastructure/database"
	"b2bdesk/internal/infrastructure/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spf13/cobra"
)

var createTablesCmd = &cobra.Command{
	Use:   "create-tables",
	Short: "Create the DynamoDB tables the service depends on",
	Long: `Create the orders, invoices, payments, products and customers tables,
including the order_id secondary indexes used for invoice and payment lookups.

Tables that already exist are skipped. Table names honor the same
environment variables the API reads (ORDERS_TABLE, INVOICES_TABLE,
PAYMENTS_TABLE, PRODUCTS_TABLE, CUSTOMERS_TABLE).`,
	RunE: runCreateTables,
}

func init() {
	rootCmd.AddCommand(createTablesCmd)

	createTablesCmd.Flags().Int("timeout", 60, "Provisioning timeout in seconds")
}

type tableSpec struct {
	name        string
	hashKey     string
	gsiHashKeys map[string]string
}

func tableSpecs() []tableSpec {
	return []tableSpec{
		{name: envOr("ORDERS_TABLE", "orders"), hashKey: "id"},
		{name: envOr("INVOICES_TABLE", "invoices"), hashKey: "invoice_number",
			gsiHashKeys: map[string]string{"order_id-index": "order_id"}},
		{name: envOr("PAYMENTS_TABLE", "payments"), hashKey: "id",
			gsiHashKeys: map[string]string{"order_id-index": "order_id"}},
		{name: envOr("PRODUCTS_TABLE", "products"), hashKey: "id"},
		{name: envOr("CUSTOMERS_TABLE", "customers"), hashKey: "id"},
	}
}

func runCreateTables(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("create-tables")

	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	ddb := database.ConnectDynamoDB()

	for _, spec := range tableSpecs() {
		created, err := createTable(ctx, ddb, spec)
		if err != nil {
			return fmt.Errorf("create table %s: %w", spec.name, err)
		}
		if !created {
			log.Info().Str("table", spec.name).Msg("Table already exists, skipping")
			continue
		}
		log.Info().Str("table", spec.name).Msg("Table created")
	}

	fmt.Println("All tables are ready.")
	return nil
}

func createTable(ctx context.Context, ddb *dynamodb.Client, spec tableSpec) (bool, error) {
	attrs := []types.AttributeDefinition{{
		AttributeName: aws.String(spec.hashKey),
		AttributeType: types.ScalarAttributeTypeS,
	}}

	var gsis []types.GlobalSecondaryIndex
	for indexName, hashKey := range spec.gsiHashKeys {
		attrs = append(attrs, types.AttributeDefinition{
			AttributeName: aws.String(hashKey),
			AttributeType: types.ScalarAttributeTypeS,
		})
		gsis = append(gsis, types.GlobalSecondaryIndex{
			IndexName: aws.String(indexName),
			KeySchema: []types.KeySchemaElement{{
				AttributeName: aws.String(hashKey),
				KeyType:       types.KeyTypeHash,
			}},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}

	input := &dynamodb.CreateTableInput{
		TableName:            aws.String(spec.name),
		AttributeDefinitions: attrs,
		KeySchema: []types.KeySchemaElement{{
			AttributeName: aws.String(spec.hashKey),
			KeyType:       types.KeyTypeHash,
		}},
		BillingMode:            types.BillingModePayPerRequest,
		GlobalSecondaryIndexes: gsis,
	}

	_, err := ddb.CreateTable(ctx, input)
	if err != nil {
		var exists *types.ResourceInUseException
		if errors.As(err, &exists) {
			return false, nil
		}
		return false, err
	}

	waiter := dynamodb.NewTableExistsWaiter(ddb)
	err = waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(spec.name)}, 30*time.Second)
	if err != nil {
		return false, fmt.Errorf("waiting for table to become active: %w", err)
	}
	return true, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
