package dynamo

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-inspire-bot/internal/domain"
)

// pendingMarker prefixes the stored phone attribute while the carrier
// confirmation is outstanding. The marker never leaves this package; the
// domain layer only sees the explicit PhoneStatus.
const pendingMarker = "pending:"

// SubscriptionRepo provides typed DynamoDB operations for the subscriptions table.
// One item per user id, single phone attribute.
type SubscriptionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSubscriptionRepo(client *dynamodb.Client, tableName string) *SubscriptionRepo {
	return &SubscriptionRepo{client: client, tableName: tableName}
}

type subscriptionItem struct {
	UserID string `dynamodbav:"user_id"`
	Phone  string `dynamodbav:"phone"`
}

func (r *SubscriptionRepo) Get(ctx context.Context, userID string) (*domain.Subscription, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, fmt.Errorf("get subscription: %v: %w", err, domain.ErrStoreUnavailable)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("subscription for user %s: %w", userID, domain.ErrNotFound)
	}
	var item subscriptionItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal subscription: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return decodePhone(item.UserID, item.Phone), nil
}

func (r *SubscriptionRepo) Put(ctx context.Context, sub *domain.Subscription) error {
	item, err := attributevalue.MarshalMap(subscriptionItem{
		UserID: sub.UserID,
		Phone:  encodePhone(sub),
	})
	if err != nil {
		return fmt.Errorf("marshal subscription: %v: %w", err, domain.ErrStoreUnavailable)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put subscription: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return nil
}

func (r *SubscriptionRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return fmt.Errorf("delete subscription: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return nil
}

// encodePhone folds the status into the single stored phone attribute.
func encodePhone(sub *domain.Subscription) string {
	if sub.Status == domain.PhoneStatusPending {
		return pendingMarker + sub.Number
	}
	return sub.Number
}

// decodePhone reverses encodePhone into an explicit domain record.
func decodePhone(userID, stored string) *domain.Subscription {
	if number, ok := strings.CutPrefix(stored, pendingMarker); ok {
		return &domain.Subscription{UserID: userID, Status: domain.PhoneStatusPending, Number: number}
	}
	return &domain.Subscription{UserID: userID, Status: domain.PhoneStatusConfirmed, Number: stored}
}

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}
