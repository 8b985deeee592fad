package schema

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// MaxBatchSize is the maximum number of items allowed in a DynamoDB batch operation.
	MaxBatchSize = 25
)

// Index describes a global secondary index of a ToolboxTable.
type Index struct {
	Name         string // Index name
	PartitionKey *Key   // Required partition key
	SortKey      *Key   // Optional sort key
}

// ToolboxTable is a high-level table definition, modeled after table definitions
// found in dynamodb toolbox libraries. It implements CreateTableMarshaler.
type ToolboxTable struct {
	Name         string        // Literal table name, optional
	NameFunc     func() string // Produces the table name; takes precedence over Name
	PartitionKey *Key          // Required partition key
	SortKey      *Key          // Optional sort key
	Indexes      []Index       // Global secondary indexes, in declaration order
}

// TableName resolves the table name. An empty string means the name is left
// for the caller to decide.
func (t *ToolboxTable) TableName() string {
	if t.NameFunc != nil {
		return t.NameFunc()
	}
	return t.Name
}

// MarshalCreateTable converts the definition into the equivalent create table request.
// Attribute definitions shared between the primary key and the indexes are listed once.
// GlobalSecondaryIndexes is left nil when the table has no indexes.
func (t *ToolboxTable) MarshalCreateTable() (*dynamodb.CreateTableInput, error) {
	keySchema, attributes, err := KeySchema(t.PartitionKey, t.SortKey)
	if err != nil {
		return nil, err
	}

	var gsis []types.GlobalSecondaryIndex
	for _, idx := range t.Indexes {
		idxSchema, idxAttributes, err := KeySchema(idx.PartitionKey, idx.SortKey)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", idx.Name, err)
		}
		gsis = append(gsis, types.GlobalSecondaryIndex{
			IndexName: aws.String(idx.Name),
			KeySchema: idxSchema,
			Projection: &types.Projection{
				ProjectionType: types.ProjectionTypeAll,
			},
		})
		attributes = append(attributes, idxAttributes...)
	}

	attributes, err = dedupAttributes(attributes)
	if err != nil {
		return nil, err
	}

	input := &dynamodb.CreateTableInput{
		KeySchema:              keySchema,
		AttributeDefinitions:   attributes,
		GlobalSecondaryIndexes: gsis,
	}
	if name := t.TableName(); name != "" {
		input.TableName = aws.String(name)
	}
	return input, nil
}

// dedupAttributes removes repeated (name, type) pairs, keeping the first occurrence.
// An attribute declared with two different types is reported as a conflict.
func dedupAttributes(in []types.AttributeDefinition) ([]types.AttributeDefinition, error) {
	seen := make(map[string]types.ScalarAttributeType, len(in))
	out := make([]types.AttributeDefinition, 0, len(in))
	for _, attr := range in {
		name := aws.ToString(attr.AttributeName)
		if prev, ok := seen[name]; ok {
			if prev != attr.AttributeType {
				return nil, fmt.Errorf("%w: %s declared as %s and %s", ErrConflictingAttributeType, name, prev, attr.AttributeType)
			}
			continue
		}
		seen[name] = attr.AttributeType
		out = append(out, attr)
	}
	return out, nil
}

// MarshalBatch marshals items into batch write put requests for the named table. Since there
// is a limit on how many requests can be contained in a single input, the requests are chunked
// in sizes of 25 or less. Items can be anything accepted by [attributevalue.MarshalMap].
func MarshalBatch(tableName string, items ...any) ([]*dynamodb.BatchWriteItemInput, error) {
	var batches []*dynamodb.BatchWriteItemInput

	for i := 0; i < len(items); i += MaxBatchSize {
		end := i + MaxBatchSize
		if end > len(items) {
			end = len(items)
		}

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for j, item := range items[i:end] {
			av, err := marshalItem(item)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal item %d: %w", i+j, err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: av},
			})
		}

		batches = append(batches, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				tableName: writeRequests,
			},
		})
	}

	return batches, nil
}

func marshalItem(item any) (map[string]types.AttributeValue, error) {
	if av, ok := item.(map[string]types.AttributeValue); ok {
		return av, nil
	}
	av, err := attributevalue.Marshal(item)
	if err != nil {
		return nil, err
	}
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		return nil, fmt.Errorf("item of type %T is not a map or struct", item)
	}
	return m.Value, nil
}
