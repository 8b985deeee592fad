package tcdynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// APICall is the signature shared by the DynamoDB client operations.
type APICall[T, U any] = func(context.Context, *T, ...func(*dynamodb.Options)) (*U, error)

// MockClient is a simple expectation-based Client for testing code that manages tables
// without a running container. Unset operations fail the test when called.
type MockClient struct {
	CreateTableFunc    APICall[dynamodb.CreateTableInput, dynamodb.CreateTableOutput]
	DeleteTableFunc    APICall[dynamodb.DeleteTableInput, dynamodb.DeleteTableOutput]
	DescribeTableFunc  APICall[dynamodb.DescribeTableInput, dynamodb.DescribeTableOutput]
	BatchWriteItemFunc APICall[dynamodb.BatchWriteItemInput, dynamodb.BatchWriteItemOutput]
	ListTablesFunc     APICall[dynamodb.ListTablesInput, dynamodb.ListTablesOutput]
	ScanFunc           APICall[dynamodb.ScanInput, dynamodb.ScanOutput]
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)

// NewMockClient creates a new mock client whose operations fail the test until an
// expectation is set.
func NewMockClient(t testing.TB) *MockClient {
	return &MockClient{
		CreateTableFunc:    unexpectedCall[dynamodb.CreateTableInput, dynamodb.CreateTableOutput](t, "CreateTable"),
		DeleteTableFunc:    unexpectedCall[dynamodb.DeleteTableInput, dynamodb.DeleteTableOutput](t, "DeleteTable"),
		DescribeTableFunc:  unexpectedCall[dynamodb.DescribeTableInput, dynamodb.DescribeTableOutput](t, "DescribeTable"),
		BatchWriteItemFunc: unexpectedCall[dynamodb.BatchWriteItemInput, dynamodb.BatchWriteItemOutput](t, "BatchWriteItem"),
		ListTablesFunc:     unexpectedCall[dynamodb.ListTablesInput, dynamodb.ListTablesOutput](t, "ListTables"),
		ScanFunc:           unexpectedCall[dynamodb.ScanInput, dynamodb.ScanOutput](t, "Scan"),
	}
}

func unexpectedCall[T, U any](t testing.TB, op string) APICall[T, U] {
	return func(ctx context.Context, params *T, optFns ...func(*dynamodb.Options)) (*U, error) {
		t.Errorf("unexpected call to %s", op)
		return new(U), nil
	}
}

func (m *MockClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	return m.CreateTableFunc(ctx, params, optFns...)
}

func (m *MockClient) DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	return m.DeleteTableFunc(ctx, params, optFns...)
}

func (m *MockClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return m.DescribeTableFunc(ctx, params, optFns...)
}

// BatchWriteItem is called concurrently while seeding, so expectations must be safe
// for concurrent use.
func (m *MockClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	return m.BatchWriteItemFunc(ctx, params, optFns...)
}

func (m *MockClient) ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	return m.ListTablesFunc(ctx, params, optFns...)
}

func (m *MockClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return m.ScanFunc(ctx, params, optFns...)
}
