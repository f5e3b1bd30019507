package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/deals-api/internal/domain"
)

// ClaimRepo provides typed DynamoDB operations for the claims table.
// PK: user_id, SK: deal_id. The compound key IS the single-claim-per-deal
// constraint, so concurrent inserts for the same pair can never both succeed.
type ClaimRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewClaimRepo(client *dynamodb.Client, tableName string) *ClaimRepo {
	return &ClaimRepo{client: client, tableName: tableName}
}

// Insert writes the claim only if no claim for the same (user, deal) pair
// exists. Returns (false, nil) when the pair is already claimed; the caller
// decides how to report it. The put is atomic; a losing racer leaves no
// partial state behind.
func (r *ClaimRepo) Insert(ctx context.Context, c *domain.Claim) (bool, error) {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return false, fmt.Errorf("marshal claim: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id) AND attribute_not_exists(deal_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *ClaimRepo) Get(ctx context.Context, userID, dealID string) (*domain.Claim, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "deal_id", dealID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("claim not found: %w", domain.ErrNotFound)
	}
	var c domain.Claim
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByUser returns every claim owned by the user. One partition; a user
// claims at most a handful of deals.
func (r *ClaimRepo) ListByUser(ctx context.Context, userID string) ([]domain.Claim, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String("#u = :v"),
		ExpressionAttributeNames:  map[string]string{"#u": "user_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: userID}},
	})
	if err != nil {
		return nil, err
	}
	var claims []domain.Claim
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// GetByClaimID resolves a claim via the claim_id-index GSI (administrative path).
func (r *ClaimRepo) GetByClaimID(ctx context.Context, claimID string) (*domain.Claim, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("claim_id-index"),
		KeyConditionExpression:    aws.String("#c = :v"),
		ExpressionAttributeNames:  map[string]string{"#c": "claim_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: claimID}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("claim not found: %w", domain.ErrNotFound)
	}
	var c domain.Claim
	if err := attributevalue.UnmarshalMap(out.Items[0], &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateStatus moves the claim from one status to another with a conditional
// write guarded on the expected current status. Returns (false, nil) when the
// guard fails, meaning the record moved under us.
func (r *ClaimRepo) UpdateStatus(ctx context.Context, userID, dealID, from, to string) (bool, error) {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("user_id", userID, "deal_id", dealID),
		UpdateExpression:    aws.String("SET #s = :to, #u = :now"),
		ConditionExpression: aws.String("#s = :from"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
			"#u": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to":   &types.AttributeValueMemberS{Value: to},
			":from": &types.AttributeValueMemberS{Value: from},
			":now":  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
