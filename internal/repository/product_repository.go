package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
)

type ProductRepository struct {
	client    DynamoAPI
	tableName string
	now       func() time.Time
}

func NewProductRepository(client DynamoAPI, tableName string) *ProductRepository {
	return &ProductRepository{
		client:    client,
		tableName: tableName,
		now:       time.Now,
	}
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	cond, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("id"))).
		Build()
	if err != nil {
		return err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      cond.Condition(),
		ExpressionAttributeNames: cond.Names(),
	})
	if err != nil {
		return fmt.Errorf("failed to put product: %w", err)
	}

	return nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey(productID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if result.Item == nil {
		return nil, domain.ErrProductNotFound
	}

	var product domain.Product
	if err := attributevalue.UnmarshalMap(result.Item, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	if product.ID == "" {
		product.ID = productID
	}

	return &product, nil
}

// ListProducts scans the table, optionally restricted to one category.
func (r *ProductRepository) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	}
	if category != "" {
		expr, err := expression.NewBuilder().
			WithFilter(expression.Name("category").Equal(expression.Value(category))).
			Build()
		if err != nil {
			return nil, err
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	var products []domain.Product
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}
		var batch []domain.Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal products: %w", err)
		}
		products = append(products, batch...)
	}

	return products, nil
}

// versionCondition matches items that still exist at the expected version.
// Items written before versioning have no version attribute and count as 0.
func versionCondition(expected int64) expression.ConditionBuilder {
	matches := expression.Name("version").Equal(expression.Value(expected))
	if expected == 0 {
		matches = expression.Or(matches, expression.AttributeNotExists(expression.Name("version")))
	}
	return expression.And(expression.AttributeExists(expression.Name("id")), matches)
}

// ReplaceProduct overwrites the whole document when the stored version still
// equals product.Version, then advances product.Version.
func (r *ProductRepository) ReplaceProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	expected := product.Version
	next := product.Clone()
	next.Version = expected + 1
	next.UpdatedAt = r.now()

	av, err := attributevalue.MarshalMap(next)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	cond, err := expression.NewBuilder().WithCondition(versionCondition(expected)).Build()
	if err != nil {
		return err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                           aws.String(r.tableName),
		Item:                                av,
		ConditionExpression:                 cond.Condition(),
		ExpressionAttributeNames:            cond.Names(),
		ExpressionAttributeValues:           cond.Values(),
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		if failed, existed := conditionFailed(err); failed {
			if !existed {
				return domain.ErrProductNotFound
			}
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("failed to replace product: %w", err)
	}

	product.Version = next.Version
	product.UpdatedAt = next.UpdatedAt
	return nil
}

// SaveStock writes productColors and totalStock together, only if the stored
// version still equals expectedVersion. It returns the new version.
func (r *ProductRepository) SaveStock(ctx context.Context, productID string, colors []domain.ColorVariant, totalStock int, expectedVersion int64) (int64, error) {
	next := expectedVersion + 1

	update := expression.Set(
		expression.Name("productColors"),
		expression.Value(colors),
	).Set(
		expression.Name("totalStock"),
		expression.Value(totalStock),
	).Set(
		expression.Name("version"),
		expression.Value(next),
	).Set(
		expression.Name("updatedAt"),
		expression.Value(r.now()),
	)

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(versionCondition(expectedVersion)).
		Build()
	if err != nil {
		return 0, err
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(r.tableName),
		Key:                                 stringKey(productID),
		ExpressionAttributeNames:            expr.Names(),
		ExpressionAttributeValues:           expr.Values(),
		UpdateExpression:                    expr.Update(),
		ConditionExpression:                 expr.Condition(),
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		if failed, existed := conditionFailed(err); failed {
			if !existed {
				return 0, domain.ErrProductNotFound
			}
			return 0, domain.ErrVersionConflict
		}
		return 0, fmt.Errorf("failed to update stock: %w", err)
	}

	return next, nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	cond, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return err
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      stringKey(productID),
		ConditionExpression:      cond.Condition(),
		ExpressionAttributeNames: cond.Names(),
	})
	if err != nil {
		if failed, _ := conditionFailed(err); failed {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
