package repository

import (
	"context"
	"errors"
	"time"

	"b2bdesk/internal/domain/entities"
	"b2bdesk/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultInvoicesTableName = "invoices"
	invoicesOrderIDIndex     = "order_id-index"
)

type invoiceLineItem struct {
	ProductID     string `dynamodbav:"product_id"`
	ProductName   string `dynamodbav:"product_name,omitempty"`
	HSNCode       string `dynamodbav:"hsn_code,omitempty"`
	Unit          string `dynamodbav:"unit,omitempty"`
	Qty           int    `dynamodbav:"qty"`
	Rate          string `dynamodbav:"rate"`
	TaxableValue  string `dynamodbav:"taxable_value"`
	TaxPercentage string `dynamodbav:"tax_percentage"`
	TaxAmount     string `dynamodbav:"tax_amount"`
}

type invoiceItem struct {
	InvoiceNumber string            `dynamodbav:"invoice_number"`
	Type          string            `dynamodbav:"type"`
	OrderID       string            `dynamodbav:"order_id"`
	OrderNumber   string            `dynamodbav:"order_number"`
	CustomerID    string            `dynamodbav:"customer_id,omitempty"`
	PlaceOfSupply string            `dynamodbav:"place_of_supply,omitempty"`
	Interstate    bool              `dynamodbav:"interstate"`
	Items         []invoiceLineItem `dynamodbav:"items"`
	Subtotal      string            `dynamodbav:"subtotal"`
	CGST          string            `dynamodbav:"cgst"`
	SGST          string            `dynamodbav:"sgst"`
	IGST          string            `dynamodbav:"igst"`
	ShippingCost  string            `dynamodbav:"shipping_cost"`
	Discount      string            `dynamodbav:"discount"`
	RoundOff      string            `dynamodbav:"round_off"`
	GrandTotal    string            `dynamodbav:"grand_total"`
	IssuedAt      string            `dynamodbav:"issued_at"`
}

// InvoiceDynamoRepository persists Invoice entities in DynamoDB.
//
// Table requirements:
//   - PK: invoice_number (string)
//   - GSI: order_id-index (PK: order_id)
//
// Invoice numbers are deterministic per order and type, so the conditional
// put doubles as the at-most-once guarantee: a second writer loses the
// condition and gets a zero-value Invoice back, which callers treat as
// idempotent success.

type InvoiceDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb *dynamodb.Client) *InvoiceDynamoRepository {
	return &InvoiceDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("INVOICES_TABLE", defaultInvoicesTableName),
	}
}

func (r *InvoiceDynamoRepository) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	av, err := attributevalue.MarshalMap(toInvoiceItem(inv))
	if err != nil {
		return entities.Invoice{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#n)"),
		ExpressionAttributeNames: map[string]string{
			"#n": "invoice_number",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Invoice{}, nil
		}
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) GetByNumber(ctx context.Context, invoiceNumber string) (entities.Invoice, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"invoice_number": &types.AttributeValueMemberS{Value: invoiceNumber},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	if len(out.Item) == 0 {
		return entities.Invoice{}, nil
	}

	var it invoiceItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Invoice{}, err
	}
	return fromInvoiceItem(it), nil
}

func (r *InvoiceDynamoRepository) ListByOrderID(ctx context.Context, orderID string) ([]entities.Invoice, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(invoicesOrderIDIndex),
		KeyConditionExpression: aws.String("order_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, err
	}

	invoices := make([]entities.Invoice, 0, len(out.Items))
	for _, raw := range out.Items {
		var it invoiceItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		invoices = append(invoices, fromInvoiceItem(it))
	}
	return invoices, nil
}

func toInvoiceItem(inv entities.Invoice) invoiceItem {
	lines := make([]invoiceLineItem, 0, len(inv.Items))
	for _, l := range inv.Items {
		lines = append(lines, invoiceLineItem{
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			HSNCode:       l.HSNCode,
			Unit:          l.Unit,
			Qty:           l.Qty,
			Rate:          floatToString(l.Rate),
			TaxableValue:  floatToString(l.TaxableValue),
			TaxPercentage: floatToString(l.TaxPercentage),
			TaxAmount:     floatToString(l.TaxAmount),
		})
	}

	return invoiceItem{
		InvoiceNumber: inv.InvoiceNumber,
		Type:          string(inv.Type),
		OrderID:       inv.OrderID,
		OrderNumber:   inv.OrderNumber,
		CustomerID:    inv.CustomerID,
		PlaceOfSupply: inv.PlaceOfSupply,
		Interstate:    inv.Interstate,
		Items:         lines,
		Subtotal:      floatToString(inv.Subtotal),
		CGST:          floatToString(inv.CGST),
		SGST:          floatToString(inv.SGST),
		IGST:          floatToString(inv.IGST),
		ShippingCost:  floatToString(inv.ShippingCost),
		Discount:      floatToString(inv.Discount),
		RoundOff:      floatToString(inv.RoundOff),
		GrandTotal:    floatToString(inv.GrandTotal),
		IssuedAt:      inv.IssuedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromInvoiceItem(it invoiceItem) entities.Invoice {
	lines := make([]entities.InvoiceItem, 0, len(it.Items))
	for _, l := range it.Items {
		lines = append(lines, entities.InvoiceItem{
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			HSNCode:       l.HSNCode,
			Unit:          l.Unit,
			Qty:           l.Qty,
			Rate:          stringToFloat(l.Rate),
			TaxableValue:  stringToFloat(l.TaxableValue),
			TaxPercentage: stringToFloat(l.TaxPercentage),
			TaxAmount:     stringToFloat(l.TaxAmount),
		})
	}

	issuedAt, _ := time.Parse(time.RFC3339Nano, it.IssuedAt)
	return entities.Invoice{
		InvoiceNumber: it.InvoiceNumber,
		Type:          entities.InvoiceType(it.Type),
		OrderID:       it.OrderID,
		OrderNumber:   it.OrderNumber,
		CustomerID:    it.CustomerID,
		PlaceOfSupply: it.PlaceOfSupply,
		Interstate:    it.Interstate,
		Items:         lines,
		Subtotal:      stringToFloat(it.Subtotal),
		CGST:          stringToFloat(it.CGST),
		SGST:          stringToFloat(it.SGST),
		IGST:          stringToFloat(it.IGST),
		ShippingCost:  stringToFloat(it.ShippingCost),
		Discount:      stringToFloat(it.Discount),
		RoundOff:      stringToFloat(it.RoundOff),
		GrandTotal:    stringToFloat(it.GrandTotal),
		IssuedAt:      issuedAt,
	}
}
