package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/google/uuid"

	"github.com/jsphweid/mellowchord/model"
)

var ErrNotFound = errors.New("progression not found")

// Store keeps saved progressions by id.
type Store interface {
	Put(ctx context.Context, r model.ProgressionRecord) (model.SavedProgression, error)
	Get(ctx context.Context, id string) (model.SavedProgression, error)
	Delete(ctx context.Context, id string) error
}

func newSaved(r model.ProgressionRecord, now time.Time) model.SavedProgression {
	return model.SavedProgression{
		ID:                uuid.NewString(),
		CreatedAt:         now.Unix(),
		ProgressionRecord: r,
	}
}

// NewClient connects to DynamoDB. An empty endpoint uses the AWS default
// for the region; local development points it at dynamodb-local.
func NewClient(endpoint, region string) (*dynamodb.DynamoDB, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a DynamoDB session: %w", err)
	}
	return dynamodb.New(sess), nil
}

type DynamoStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
	now    func() time.Time
}

func NewDynamoStore(client dynamodbiface.DynamoDBAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table, now: time.Now}
}

func (s *DynamoStore) key(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(id)},
	}
}

func (s *DynamoStore) Put(ctx context.Context, r model.ProgressionRecord) (model.SavedProgression, error) {
	saved := newSaved(r, s.now())
	item, err := dynamodbattribute.MarshalMap(saved)
	if err != nil {
		return model.SavedProgression{}, err
	}
	_, err = s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return model.SavedProgression{}, fmt.Errorf("error from DynamoDB: %w", err)
	}
	return saved, nil
}

func (s *DynamoStore) Get(ctx context.Context, id string) (model.SavedProgression, error) {
	out, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(id),
	})
	if err != nil {
		return model.SavedProgression{}, fmt.Errorf("error from DynamoDB: %w", err)
	}
	if len(out.Item) == 0 {
		return model.SavedProgression{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	var saved model.SavedProgression
	if err := dynamodbattribute.UnmarshalMap(out.Item, &saved); err != nil {
		return model.SavedProgression{}, err
	}
	return saved, nil
}

func (s *DynamoStore) Delete(ctx context.Context, id string) error {
	out, err := s.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.table),
		Key:          s.key(id),
		ReturnValues: aws.String(dynamodb.ReturnValueAllOld),
	})
	if err != nil {
		return fmt.Errorf("error from DynamoDB: %w", err)
	}
	if len(out.Attributes) == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// MemoryStore is a Store for tests and single-process use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]model.SavedProgression
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]model.SavedProgression), now: time.Now}
}

func (s *MemoryStore) Put(ctx context.Context, r model.ProgressionRecord) (model.SavedProgression, error) {
	if err := ctx.Err(); err != nil {
		return model.SavedProgression{}, err
	}
	saved := newSaved(r, s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[saved.ID] = saved
	return saved, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (model.SavedProgression, error) {
	if err := ctx.Err(); err != nil {
		return model.SavedProgression{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	saved, ok := s.items[id]
	if !ok {
		return model.SavedProgression{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return saved, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(s.items, id)
	return nil
}
