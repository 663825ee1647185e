package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var (
	// ErrLeaseHeld is returned when another owner holds an unexpired lease.
	ErrLeaseHeld = errors.New("lease held by another writer")
	// ErrLeaseLost is returned when the lease expired and was taken over.
	ErrLeaseLost = errors.New("lease lost")
)

const (
	// DefaultLeaseTTL is how long an acquired lease stays valid without Refresh.
	DefaultLeaseTTL = time.Hour
	// DefaultPollInterval is how often Lock retries a held lease.
	DefaultPollInterval = time.Second
)

// Lease is a single-writer lock stored as one DynamoDB item.
type Lease struct {
	client  DDBClient
	table   string
	key     string
	owner   string
	ttl     time.Duration
	poll    time.Duration
	nowFunc func() time.Time
}

// NewLease creates a lease on key (typically the dataset URI) in table.
func NewLease(client DDBClient, table, key string) *Lease {
	return &Lease{
		client:  client,
		table:   table,
		key:     key,
		owner:   uuid.NewString(),
		ttl:     DefaultLeaseTTL,
		poll:    DefaultPollInterval,
		nowFunc: time.Now,
	}
}

// WithTTL sets the lease duration.
func (l *Lease) WithTTL(ttl time.Duration) *Lease {
	if ttl > 0 {
		l.ttl = ttl
	}
	return l
}

// WithPollInterval sets how often Lock retries while another owner holds the lease.
func (l *Lease) WithPollInterval(d time.Duration) *Lease {
	if d > 0 {
		l.poll = d
	}
	return l
}

// Owner returns the token identifying this holder.
func (l *Lease) Owner() string { return l.owner }

// Lock waits until the lease is acquired or ctx is done. A lease held by
// another owner is retried every poll interval until it is released or expires.
func (l *Lease) Lock(ctx context.Context) error {
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		err := l.TryLock(ctx)
		if !errors.Is(err, ErrLeaseHeld) {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", err, ctx.Err())
		case <-ticker.C:
		}
	}
}

// TryLock acquires the lease if it is free, expired, or already ours, and
// returns ErrLeaseHeld otherwise.
func (l *Lease) TryLock(ctx context.Context) error {
	now := l.nowFunc()
	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.table),
		Item:      l.item(now),
		ConditionExpression: aws.String(
			"attribute_not_exists(lock_key) OR expires_at < :now OR #owner = :owner"),
		ExpressionAttributeNames: map[string]string{"#owner": "owner"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now":   &types.AttributeValueMemberN{Value: unix(now)},
			":owner": &types.AttributeValueMemberS{Value: l.owner},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s", ErrLeaseHeld, l.key)
		}
		return fmt.Errorf("failed to acquire lease: %w", err)
	}
	return nil
}

// Refresh extends a lease this holder still owns.
func (l *Lease) Refresh(ctx context.Context) error {
	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(l.table),
		Item:                     l.item(l.nowFunc()),
		ConditionExpression:      aws.String("#owner = :owner"),
		ExpressionAttributeNames: map[string]string{"#owner": "owner"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: l.owner},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s", ErrLeaseLost, l.key)
		}
		return fmt.Errorf("failed to refresh lease: %w", err)
	}
	return nil
}

// Unlock releases the lease. Releasing a lease that was taken over is not an error.
func (l *Lease) Unlock(ctx context.Context) error {
	_, err := l.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(l.table),
		Key: map[string]types.AttributeValue{
			"lock_key": &types.AttributeValueMemberS{Value: l.key},
		},
		ConditionExpression:      aws.String("#owner = :owner"),
		ExpressionAttributeNames: map[string]string{"#owner": "owner"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: l.owner},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil
		}
		return fmt.Errorf("failed to release lease: %w", err)
	}
	return nil
}

func (l *Lease) item(now time.Time) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"lock_key":   &types.AttributeValueMemberS{Value: l.key},
		"owner":      &types.AttributeValueMemberS{Value: l.owner},
		"expires_at": &types.AttributeValueMemberN{Value: unix(now.Add(l.ttl))},
	}
}

func unix(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
