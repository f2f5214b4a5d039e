package dynamo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCaso/spendwatch/internal/storage"
	"github.com/GustavoCaso/spendwatch/internal/storage/storagetest"
	"github.com/GustavoCaso/spendwatch/internal/testutil"
)

// fakeClient keeps items in memory and understands the two condition
// expressions the backend issues.
type fakeClient struct {
	mu      sync.Mutex
	tables  map[string]bool
	items   map[string]map[string]types.AttributeValue
	clearFn func(*dynamodb.TransactWriteItemsInput) error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		tables: map[string]bool{},
		items:  map[string]map[string]types.AttributeValue{},
	}
}

func collectionOf(key map[string]types.AttributeValue) string {
	return key[attrCollection].(*types.AttributeValueMemberS).Value
}

func (f *fakeClient) GetItem(
	_ context.Context,
	in *dynamodb.GetItemInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[collectionOf(in.Key)]}, nil
}

func (f *fakeClient) PutItem(
	_ context.Context,
	in *dynamodb.PutItemInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := collectionOf(in.Item)
	existing, exists := f.items[name]

	switch aws.ToString(in.ConditionExpression) {
	case "attribute_not_exists(#c)":
		if exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
		}
	case "#v = :expected":
		want := in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value
		if !exists || existing[attrVersion].(*types.AttributeValueMemberN).Value != want {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("version")}
		}
	default:
		return nil, errors.New("unexpected condition " + aws.ToString(in.ConditionExpression))
	}

	f.items[name] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) TransactWriteItems(
	_ context.Context,
	in *dynamodb.TransactWriteItemsInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.clearFn != nil {
		if err := f.clearFn(in); err != nil {
			return nil, err
		}
	}
	for _, ti := range in.TransactItems {
		delete(f.items, collectionOf(ti.Delete.Key))
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeClient) CreateTable(
	_ context.Context,
	in *dynamodb.CreateTableInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(in.TableName)
	if f.tables[name] {
		return nil, &types.ResourceInUseException{Message: aws.String("table exists")}
	}
	f.tables[name] = true
	return &dynamodb.CreateTableOutput{}, nil
}

func TestBackend(t *testing.T) {
	storagetest.Run(t, func(_ *testing.T) storage.Backend {
		return New(newFakeClient(), "spendwatch")
	})
}

func TestBootstrapIsIdempotent(t *testing.T) {
	client := newFakeClient()
	logger := testutil.TestLogger(t)

	require.NoError(t, Bootstrap(t.Context(), client, "spendwatch", logger))
	require.NoError(t, Bootstrap(t.Context(), client, "spendwatch", logger))
	assert.True(t, client.tables["spendwatch"])
}

func TestWriteBumpsVersion(t *testing.T) {
	b := New(newFakeClient(), "spendwatch")
	ctx := t.Context()

	v1, err := b.Write(ctx, storage.BudgetsCollection, []byte(`[]`), "")
	require.NoError(t, err)
	assert.Equal(t, storage.Version("1"), v1)

	v2, err := b.Write(ctx, storage.BudgetsCollection, []byte(`[{"limit":1,"month":"2024-05"}]`), v1)
	require.NoError(t, err)
	assert.Equal(t, storage.Version("2"), v2)

	_, err = b.Write(ctx, storage.BudgetsCollection, []byte(`[]`), "not-a-number")
	var conflict *storage.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, v2, conflict.Actual)
}

func TestClearIsOneTransaction(t *testing.T) {
	client := newFakeClient()
	b := New(client, "spendwatch")
	ctx := t.Context()

	for _, c := range storage.AllCollections {
		_, err := b.Write(ctx, c, []byte(`[]`), "")
		require.NoError(t, err)
	}

	boom := errors.New("transaction cancelled")
	client.clearFn = func(in *dynamodb.TransactWriteItemsInput) error {
		assert.Len(t, in.TransactItems, len(storage.AllCollections))
		return boom
	}

	require.ErrorIs(t, b.Clear(ctx, storage.AllCollections...), boom)
	for _, c := range storage.AllCollections {
		data, _, err := b.Read(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(data))
	}
}
