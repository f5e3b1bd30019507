package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/deals-api/internal/domain"
)

// DealRepo provides typed DynamoDB operations for the deals table.
type DealRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDealRepo(client *dynamodb.Client, tableName string) *DealRepo {
	return &DealRepo{client: client, tableName: tableName}
}

func (r *DealRepo) Put(ctx context.Context, d *domain.Deal) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal deal: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *DealRepo) Get(ctx context.Context, dealID string) (*domain.Deal, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("deal_id", dealID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("deal not found: %w", domain.ErrNotFound)
	}
	var d domain.Deal
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Scan returns the full deal catalog, following LastEvaluatedKey across
// pages. Filtering, ordering and offset pagination happen in the service;
// the catalog is small and offset pagination needs the full result set for a
// total count anyway.
func (r *DealRepo) Scan(ctx context.Context) ([]domain.Deal, error) {
	var deals []domain.Deal
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []domain.Deal
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		deals = append(deals, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return deals, nil
}
