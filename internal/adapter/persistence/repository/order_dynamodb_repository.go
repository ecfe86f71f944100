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

const defaultOrdersTableName = "orders"

type orderLineItem struct {
	ProductID   string  `dynamodbav:"product_id"`
	ProductName string  `dynamodbav:"product_name,omitempty"`
	HSNCode     string  `dynamodbav:"hsn_code,omitempty"`
	Unit        string  `dynamodbav:"unit,omitempty"`
	Quantity    int     `dynamodbav:"quantity"`
	Price       string  `dynamodbav:"price"`
	TargetPrice *string `dynamodbav:"target_price,omitempty"`
	QuotedPrice *string `dynamodbav:"quoted_price,omitempty"`
	TaxRate     string  `dynamodbav:"tax_rate"`
}

type orderItem struct {
	ID                    string          `dynamodbav:"id"`
	OrderNumber           string          `dynamodbav:"order_number"`
	LegacyOrderID         string          `dynamodbav:"legacy_order_id,omitempty"`
	IsQuotation           bool            `dynamodbav:"is_quotation"`
	Status                string          `dynamodbav:"status"`
	Items                 []orderLineItem `dynamodbav:"items"`
	ShippingCost          string          `dynamodbav:"shipping_cost"`
	Discount              string          `dynamodbav:"discount"`
	TotalAmount           string          `dynamodbav:"total_amount"`
	Notes                 string          `dynamodbav:"notes,omitempty"`
	CustomerID            string          `dynamodbav:"customer_id,omitempty"`
	GeneratedInvoiceKinds []string        `dynamodbav:"generated_invoice_kinds,omitempty"`
	CreatedAt             string          `dynamodbav:"created_at"`
	UpdatedAt             string          `dynamodbav:"updated_at"`
}

// OrderDynamoRepository persists Order entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Money fields are stored as exact decimal strings; float formatting is
// confined to the item mapping here.

type OrderDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb *dynamodb.Client) *OrderDynamoRepository {
	return &OrderDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("ORDERS_TABLE", defaultOrdersTableName),
	}
}

func (r *OrderDynamoRepository) Create(ctx context.Context, o entities.Order) (entities.Order, error) {
	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return entities.Order{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}

	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

func (r *OrderDynamoRepository) List(ctx context.Context) ([]entities.Order, error) {
	orders := make([]entities.Order, 0)

	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it orderItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			orders = append(orders, fromOrderItem(it))
		}
	}
	return orders, nil
}

// Update commits the full record. Transitions always re-read before writing,
// so a whole-item put conditioned on existence is sufficient.
func (r *OrderDynamoRepository) Update(ctx context.Context, o entities.Order) (entities.Order, error) {
	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return entities.Order{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Order{}, nil
		}
		return entities.Order{}, err
	}
	return o, nil
}

func toOrderItem(o entities.Order) orderItem {
	lines := make([]orderLineItem, 0, len(o.Items))
	for _, l := range o.Items {
		lines = append(lines, orderLineItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			HSNCode:     l.HSNCode,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			Price:       floatToString(l.Price),
			TargetPrice: floatPtrToString(l.TargetPrice),
			QuotedPrice: floatPtrToString(l.QuotedPrice),
			TaxRate:     floatToString(l.TaxRate),
		})
	}

	kinds := make([]string, 0, len(o.GeneratedInvoiceKinds))
	for _, k := range o.GeneratedInvoiceKinds {
		kinds = append(kinds, string(k))
	}

	return orderItem{
		ID:                    o.ID,
		OrderNumber:           o.OrderNumber,
		LegacyOrderID:         o.LegacyOrderID,
		IsQuotation:           o.IsQuotation,
		Status:                string(o.Status),
		Items:                 lines,
		ShippingCost:          floatToString(o.ShippingCost),
		Discount:              floatToString(o.Discount),
		TotalAmount:           floatToString(o.TotalAmount),
		Notes:                 o.Notes,
		CustomerID:            o.CustomerID,
		GeneratedInvoiceKinds: kinds,
		CreatedAt:             o.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:             o.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromOrderItem(it orderItem) entities.Order {
	lines := make([]entities.OrderItem, 0, len(it.Items))
	for _, l := range it.Items {
		lines = append(lines, entities.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			HSNCode:     l.HSNCode,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			Price:       stringToFloat(l.Price),
			TargetPrice: stringPtrToFloat(l.TargetPrice),
			QuotedPrice: stringPtrToFloat(l.QuotedPrice),
			TaxRate:     stringToFloat(l.TaxRate),
		})
	}

	var kinds []entities.InvoiceType
	for _, k := range it.GeneratedInvoiceKinds {
		kinds = append(kinds, entities.InvoiceType(k))
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return entities.Order{
		ID:                    it.ID,
		OrderNumber:           it.OrderNumber,
		LegacyOrderID:         it.LegacyOrderID,
		IsQuotation:           it.IsQuotation,
		// Migrated records can carry legacy uppercase enum names; canonicalize
		// on the way out so old rows join the workflow like any other order.
		Status:                entities.MapStatus(it.Status),
		Items:                 lines,
		ShippingCost:          stringToFloat(it.ShippingCost),
		Discount:              stringToFloat(it.Discount),
		TotalAmount:           stringToFloat(it.TotalAmount),
		Notes:                 it.Notes,
		CustomerID:            it.CustomerID,
		GeneratedInvoiceKinds: kinds,
		CreatedAt:             createdAt,
		UpdatedAt:             updatedAt,
	}
}
