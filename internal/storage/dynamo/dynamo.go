// Package dynamo stores each collection as one item of a DynamoDB table. The
// version attribute is checked with a condition expression on every write.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/GustavoCaso/spendwatch/internal/storage"
)

const (
	attrCollection = "collection"
	attrVersion    = "version"
)

type item struct {
	Collection string `dynamodbav:"collection"`
	Data       string `dynamodbav:"data"`
	Version    int64  `dynamodbav:"version"`
	UpdatedAt  int64  `dynamodbav:"updated_at"`
}

type Backend struct {
	client Client
	table  string
	now    func() time.Time
}

func New(client Client, table string) *Backend {
	return &Backend{client: client, table: table, now: time.Now}
}

func key(c storage.Collection) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrCollection: &types.AttributeValueMemberS{Value: string(c)},
	}
}

func (b *Backend) get(ctx context.Context, c storage.Collection) (*item, error) {
	out, err := b.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(b.table),
		Key:            key(c),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	var it item
	if err = attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal collection item: %w", err)
	}
	return &it, nil
}

func (b *Backend) Read(ctx context.Context, c storage.Collection) ([]byte, storage.Version, error) {
	it, err := b.get(ctx, c)
	if err != nil {
		return nil, "", err
	}
	if it == nil {
		return nil, "", nil
	}
	return []byte(it.Data), formatVersion(it.Version), nil
}

func (b *Backend) Write(ctx context.Context, c storage.Collection, data []byte, expected storage.Version) (storage.Version, error) {
	next := item{
		Collection: string(c),
		Data:       string(data),
		Version:    1,
		UpdatedAt:  b.now().Unix(),
	}

	input := &dynamodb.PutItemInput{
		TableName:                aws.String(b.table),
		ExpressionAttributeNames: map[string]string{},
	}

	if expected == "" {
		input.ConditionExpression = aws.String("attribute_not_exists(#c)")
		input.ExpressionAttributeNames["#c"] = attrCollection
	} else {
		current, err := strconv.ParseInt(string(expected), 10, 64)
		if err != nil {
			return "", b.conflict(ctx, c, expected)
		}
		next.Version = current + 1
		input.ConditionExpression = aws.String("#v = :expected")
		input.ExpressionAttributeNames["#v"] = attrVersion
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: string(expected)},
		}
	}

	av, err := attributevalue.MarshalMap(next)
	if err != nil {
		return "", fmt.Errorf("marshal collection item: %w", err)
	}
	input.Item = av

	if _, err = b.client.PutItem(ctx, input); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return "", b.conflict(ctx, c, expected)
		}
		return "", err
	}

	return formatVersion(next.Version), nil
}

func (b *Backend) conflict(ctx context.Context, c storage.Collection, expected storage.Version) error {
	var actual storage.Version
	if it, err := b.get(ctx, c); err == nil && it != nil {
		actual = formatVersion(it.Version)
	}
	return &storage.ConflictError{Collection: c, Expected: expected, Actual: actual}
}

// Clear deletes the collection items in a single transaction.
func (b *Backend) Clear(ctx context.Context, collections ...storage.Collection) error {
	if len(collections) == 0 {
		return nil
	}

	items := make([]types.TransactWriteItem, 0, len(collections))
	for _, c := range collections {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(b.table),
				Key:       key(c),
			},
		})
	}

	_, err := b.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	return err
}

func (b *Backend) Close() error {
	return nil
}

func formatVersion(v int64) storage.Version {
	return storage.Version(strconv.FormatInt(v, 10))
}
