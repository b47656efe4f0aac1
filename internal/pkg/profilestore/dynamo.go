package profilestore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoStore implements Store against a DynamoDB table keyed by userId.
type DynamoStore struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoStore creates a store bound to a table.
func NewDynamoStore(client *dynamodb.Client, table string) *DynamoStore {
	return &DynamoStore{
		client: client,
		table:  table,
	}
}

// PutProfile writes the record as a single item.
func (s *DynamoStore) PutProfile(ctx context.Context, rec *Record) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshaling profile for %q: %w", rec.AccountID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("writing profile for %q: %w", rec.AccountID, err)
	}
	return nil
}
