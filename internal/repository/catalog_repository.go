package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
)

// Categories, sizes and the contact record share one table, told apart by kind.
const (
	kindCategory = "category"
	kindSize     = "size"
	kindContact  = "contact"

	contactID = "contact#info"
)

type catalogItem struct {
	ID   string `dynamodbav:"id"`
	Kind string `dynamodbav:"kind"`
	Name string `dynamodbav:"name"`
}

type CatalogRepository struct {
	client    DynamoAPI
	tableName string
}

func NewCatalogRepository(client DynamoAPI, tableName string) *CatalogRepository {
	return &CatalogRepository{
		client:    client,
		tableName: tableName,
	}
}

func (r *CatalogRepository) listKind(ctx context.Context, kind string) ([]catalogItem, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("kind").Equal(expression.Value(kind))).
		Build()
	if err != nil {
		return nil, err
	}

	var items []catalogItem
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s items: %w", kind, err)
		}
		var batch []catalogItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s items: %w", kind, err)
		}
		items = append(items, batch...)
	}
	return items, nil
}

func (r *CatalogRepository) putKind(ctx context.Context, item catalogItem) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", item.Kind, err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", item.Kind, err)
	}
	return nil
}

func (r *CatalogRepository) deleteKind(ctx context.Context, kind, id string, notFound error) error {
	cond, err := expression.NewBuilder().
		WithCondition(expression.Name("kind").Equal(expression.Value(kind))).
		Build()
	if err != nil {
		return err
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       stringKey(id),
		ConditionExpression:       cond.Condition(),
		ExpressionAttributeNames:  cond.Names(),
		ExpressionAttributeValues: cond.Values(),
	})
	if err != nil {
		if failed, _ := conditionFailed(err); failed {
			return notFound
		}
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	return nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	items, err := r.listKind(ctx, kindCategory)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, len(items))
	for i, it := range items {
		out[i] = domain.Category{ID: it.ID, Name: it.Name}
	}
	return out, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	return r.putKind(ctx, catalogItem{ID: c.ID, Kind: kindCategory, Name: c.Name})
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.deleteKind(ctx, kindCategory, id, domain.ErrCategoryNotFound)
}

func (r *CatalogRepository) ListSizes(ctx context.Context) ([]domain.Size, error) {
	items, err := r.listKind(ctx, kindSize)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Size, len(items))
	for i, it := range items {
		out[i] = domain.Size{ID: it.ID, Name: it.Name}
	}
	return out, nil
}

func (r *CatalogRepository) CreateSize(ctx context.Context, s *domain.Size) error {
	return r.putKind(ctx, catalogItem{ID: s.ID, Kind: kindSize, Name: s.Name})
}

func (r *CatalogRepository) DeleteSize(ctx context.Context, id string) error {
	return r.deleteKind(ctx, kindSize, id, domain.ErrSizeNotFound)
}

// GetContact returns an empty record when none has been saved yet.
func (r *CatalogRepository) GetContact(ctx context.Context) (*domain.SiteContact, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey(contactID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get contact info: %w", err)
	}

	var contact domain.SiteContact
	if result.Item == nil {
		return &contact, nil
	}
	if err := attributevalue.UnmarshalMap(result.Item, &contact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact info: %w", err)
	}
	return &contact, nil
}

func (r *CatalogRepository) SaveContact(ctx context.Context, contact *domain.SiteContact) error {
	av, err := attributevalue.MarshalMap(contact)
	if err != nil {
		return fmt.Errorf("failed to marshal contact info: %w", err)
	}
	av["id"] = &types.AttributeValueMemberS{Value: contactID}
	av["kind"] = &types.AttributeValueMemberS{Value: kindContact}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put contact info: %w", err)
	}
	return nil
}
