package tcdynamodb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FakeClient is a minimal in-memory DynamoDB engine used by tests in this module.
// It keeps tables and their items, lists table names alphabetically and supports
// paging for ListTables and Scan. Filters are not evaluated.
type FakeClient struct {
	mu     sync.Mutex
	tables map[string]*fakeTable

	// Optional failure hooks, consulted before the call is applied.
	CreateErr func(input *dynamodb.CreateTableInput) error
	DeleteErr func(name string) error
	BatchErr  func(input *dynamodb.BatchWriteItemInput) error

	Creates []*dynamodb.CreateTableInput
	Deletes []string
	Batches int
}

type fakeTable struct {
	input *dynamodb.CreateTableInput
	items []map[string]types.AttributeValue
}

var _ Client = (*FakeClient)(nil)

// NewFakeClient creates an empty fake engine.
func NewFakeClient() *FakeClient {
	return &FakeClient{tables: make(map[string]*fakeTable)}
}

// Items returns the items stored in the named table.
func (f *FakeClient) Items(name string) []map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tbl, ok := f.tables[name]; ok {
		return append([]map[string]types.AttributeValue(nil), tbl.items...)
	}
	return nil
}

// Table returns the request the named table was created with.
func (f *FakeClient) Table(name string) *dynamodb.CreateTableInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tbl, ok := f.tables[name]; ok {
		return tbl.input
	}
	return nil
}

func notFound(name string) error {
	return &types.ResourceNotFoundException{Message: aws.String(fmt.Sprintf("Cannot do operations on a non-existent table: %s", name))}
}

func (f *FakeClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Creates = append(f.Creates, params)
	if f.CreateErr != nil {
		if err := f.CreateErr(params); err != nil {
			return nil, err
		}
	}

	name := aws.ToString(params.TableName)
	if name == "" {
		return nil, fmt.Errorf("table name is required")
	}
	if _, ok := f.tables[name]; ok {
		return nil, &types.ResourceInUseException{Message: aws.String("Cannot create preexisting table")}
	}
	f.tables[name] = &fakeTable{input: params}
	return &dynamodb.CreateTableOutput{
		TableDescription: &types.TableDescription{
			TableName:   aws.String(name),
			TableStatus: types.TableStatusActive,
		},
	}, nil
}

func (f *FakeClient) DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(params.TableName)
	f.Deletes = append(f.Deletes, name)
	if f.DeleteErr != nil {
		if err := f.DeleteErr(name); err != nil {
			return nil, err
		}
	}

	if _, ok := f.tables[name]; !ok {
		return nil, notFound(name)
	}
	delete(f.tables, name)
	return &dynamodb.DeleteTableOutput{}, nil
}

func (f *FakeClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(params.TableName)
	tbl, ok := f.tables[name]
	if !ok {
		return nil, notFound(name)
	}
	return &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:            aws.String(name),
			TableStatus:          types.TableStatusActive,
			KeySchema:            tbl.input.KeySchema,
			AttributeDefinitions: tbl.input.AttributeDefinitions,
			ItemCount:            aws.Int64(int64(len(tbl.items))),
		},
	}, nil
}

func (f *FakeClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Batches++
	if f.BatchErr != nil {
		if err := f.BatchErr(params); err != nil {
			return nil, err
		}
	}

	for name, requests := range params.RequestItems {
		if len(requests) > 25 {
			return nil, fmt.Errorf("too many items in batch: %d", len(requests))
		}
		tbl, ok := f.tables[name]
		if !ok {
			return nil, notFound(name)
		}
		for _, req := range requests {
			if req.PutRequest != nil {
				tbl.items = append(tbl.items, req.PutRequest.Item)
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *FakeClient) ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		if start := aws.ToString(params.ExclusiveStartTableName); start != "" && name <= start {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := &dynamodb.ListTablesOutput{TableNames: names}
	if limit := int(aws.ToInt32(params.Limit)); limit > 0 && len(names) > limit {
		out.TableNames = names[:limit]
		out.LastEvaluatedTableName = aws.String(names[limit-1])
	}
	return out, nil
}

const offsetKey = "__offset"

func (f *FakeClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(params.TableName)
	tbl, ok := f.tables[name]
	if !ok {
		return nil, notFound(name)
	}

	start := 0
	if n, ok := params.ExclusiveStartKey[offsetKey].(*types.AttributeValueMemberN); ok {
		start, _ = strconv.Atoi(n.Value)
	}
	items := tbl.items[start:]

	out := &dynamodb.ScanOutput{}
	if limit := int(aws.ToInt32(params.Limit)); limit > 0 && len(items) > limit {
		items = items[:limit]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			offsetKey: &types.AttributeValueMemberN{Value: strconv.Itoa(start + limit)},
		}
	}
	out.Items = append([]map[string]types.AttributeValue(nil), items...)
	out.Count = int32(len(out.Items))
	return out, nil
}
