package s3

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsechapman/kmcluster"
	"github.com/tsechapman/kmcluster/blobstore"
	"github.com/tsechapman/kmcluster/dataset"
)

// mockDDBClient is an in-memory DynamoDB mock that understands the lease conditions.
type mockDDBClient struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{items: make(map[string]map[string]types.AttributeValue)}
}

func attrS(item map[string]types.AttributeValue, name string) string {
	return item[name].(*types.AttributeValueMemberS).Value
}

func attrN(item map[string]types.AttributeValue, name string) int64 {
	v, _ := strconv.ParseInt(item[name].(*types.AttributeValueMemberN).Value, 10, 64)
	return v
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := attrS(params.Item, "lock_key")
	owner := params.ExpressionAttributeValues[":owner"].(*types.AttributeValueMemberS).Value
	existing, exists := m.items[key]

	switch *params.ConditionExpression {
	case "attribute_not_exists(lock_key) OR expires_at < :now OR #owner = :owner":
		now, _ := strconv.ParseInt(params.ExpressionAttributeValues[":now"].(*types.AttributeValueMemberN).Value, 10, 64)
		if exists && attrN(existing, "expires_at") >= now && attrS(existing, "owner") != owner {
			return nil, conditionFailed()
		}
	case "#owner = :owner":
		if !exists || attrS(existing, "owner") != owner {
			return nil, conditionFailed()
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := attrS(params.Key, "lock_key")
	owner := params.ExpressionAttributeValues[":owner"].(*types.AttributeValueMemberS).Value
	existing, exists := m.items[key]
	if !exists || attrS(existing, "owner") != owner {
		return nil, conditionFailed()
	}
	delete(m.items, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestLease_Exclusive(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()

	a := NewLease(ddb, "locks", "s3://bucket/poses.csv")
	b := NewLease(ddb, "locks", "s3://bucket/poses.csv")
	require.NotEqual(t, a.Owner(), b.Owner())

	require.NoError(t, a.Lock(ctx))
	require.NoError(t, a.Lock(ctx), "re-acquiring our own lease succeeds")

	err := b.TryLock(ctx)
	assert.ErrorIs(t, err, ErrLeaseHeld)

	require.NoError(t, a.Unlock(ctx))
	require.NoError(t, b.Lock(ctx))
	require.NoError(t, b.Unlock(ctx))
}

func TestLease_ExpiredTakeover(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	now := time.Unix(1_000_000, 0)

	a := NewLease(ddb, "locks", "k").WithTTL(time.Minute)
	a.nowFunc = func() time.Time { return now }
	require.NoError(t, a.Lock(ctx))

	b := NewLease(ddb, "locks", "k")
	b.nowFunc = func() time.Time { return now.Add(2 * time.Minute) }
	require.NoError(t, b.Lock(ctx))

	assert.ErrorIs(t, a.Refresh(ctx), ErrLeaseLost)
	assert.NoError(t, a.Unlock(ctx), "releasing a lost lease is a no-op")
	assert.NoError(t, b.Refresh(ctx))
}

func TestLease_LockWaitsForRelease(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()

	a := NewLease(ddb, "locks", "k")
	b := NewLease(ddb, "locks", "k").WithPollInterval(5 * time.Millisecond)
	require.NoError(t, a.Lock(ctx))

	done := make(chan error, 1)
	go func() { done <- b.Lock(ctx) }()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, a.Unlock(ctx))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Lock did not return after release")
	}
	require.NoError(t, b.Unlock(ctx))
}

func TestLease_LockHonorsContext(t *testing.T) {
	ddb := newMockDDBClient()
	a := NewLease(ddb, "locks", "k")
	require.NoError(t, a.Lock(context.Background()))

	b := NewLease(ddb, "locks", "k").WithPollInterval(5 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := b.Lock(ctx)
	assert.ErrorIs(t, err, ErrLeaseHeld)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLease_EngineRefreshesBeforeWrite(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	now := time.Unix(1_000_000, 0)
	clock := func() time.Time { return now }

	blobs := blobstore.NewMemoryStore()
	_, err := dataset.NewStore(blobs, "items.csv").Save(ctx, []dataset.Record{
		dataset.NewRecord("a", []float64{0, 0}),
		dataset.NewRecord("b", []float64{10, 10}),
	})
	require.NoError(t, err)

	lease := NewLease(ddb, "locks", "s3://bucket/items.csv").WithTTL(time.Minute)
	lease.nowFunc = clock
	eng, err := kmcluster.Open(ctx,
		kmcluster.WithStore(blobs, "items.csv"),
		kmcluster.WithLocker(lease),
		kmcluster.WithK(2),
		kmcluster.WithSeed(1),
		kmcluster.WithLogger(kmcluster.NoopLogger()),
	)
	require.NoError(t, err)
	defer eng.Close()

	other := NewLease(ddb, "locks", "s3://bucket/items.csv")
	other.nowFunc = clock

	// A write within the TTL extends the lease past the original expiry.
	now = now.Add(50 * time.Second)
	_, err = eng.Assign(ctx, []float64{1, 1}, "c")
	require.NoError(t, err)
	now = now.Add(50 * time.Second)
	assert.ErrorIs(t, other.TryLock(ctx), ErrLeaseHeld)

	// Idle past the TTL, another writer takes over and this engine stops writing.
	now = now.Add(2 * time.Minute)
	require.NoError(t, other.TryLock(ctx))

	puts := blobs.Puts()
	_, err = eng.Assign(ctx, []float64{9, 9}, "d")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLeaseLost)
	assert.Equal(t, kmcluster.KindIO, kmcluster.KindOf(err))
	assert.Equal(t, puts, blobs.Puts())
	assert.Len(t, eng.Records(), 3)
}

type failingDDB struct{ err error }

func (f failingDDB) PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return nil, f.err
}

func (f failingDDB) DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return nil, f.err
}

func TestLease_TransportError(t *testing.T) {
	boom := errors.New("throttled")
	l := NewLease(failingDDB{err: boom}, "locks", "k")

	err := l.Lock(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrLeaseHeld)
	assert.ErrorIs(t, l.Unlock(context.Background()), boom)
}
