package schema

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	// ErrMissingPartitionKey is returned when a key schema is built without a partition key.
	ErrMissingPartitionKey = errors.New("partition key must be defined")
	// ErrInvalidTemplate is returned when an infrastructure template cannot be used
	// as a create table request.
	ErrInvalidTemplate = errors.New("invalid template")
	// ErrConflictingAttributeType is returned when the same attribute is declared
	// with different types across the primary key and secondary indexes.
	ErrConflictingAttributeType = errors.New("conflicting attribute type")
)

// KeyType is the high-level type name of a key attribute.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeBinary KeyType = "binary"
	KeyTypeNumber KeyType = "number"
)

// AttributeType converts a key type into the dynamodb scalar attribute type.
// Unknown key types are a programming error and cause a panic.
func AttributeType(kt KeyType) types.ScalarAttributeType {
	switch kt {
	case KeyTypeString:
		return types.ScalarAttributeTypeS
	case KeyTypeBinary:
		return types.ScalarAttributeTypeB
	case KeyTypeNumber:
		return types.ScalarAttributeTypeN
	default:
		panic(fmt.Sprintf("unsupported key type %q", kt))
	}
}

// Key describes a partition or sort key attribute.
type Key struct {
	Name string  // Attribute name
	Type KeyType // Attribute type
}

// KeySchema builds the key schema for a partition key and an optional sort key,
// along with the attribute definitions for both keys in the same order.
// Attribute definitions are not deduplicated.
func KeySchema(partitionKey, sortKey *Key) ([]types.KeySchemaElement, []types.AttributeDefinition, error) {
	if partitionKey == nil || partitionKey.Name == "" {
		return nil, nil, ErrMissingPartitionKey
	}

	keySchema := []types.KeySchemaElement{
		{AttributeName: aws.String(partitionKey.Name), KeyType: types.KeyTypeHash},
	}
	attributes := []types.AttributeDefinition{
		{AttributeName: aws.String(partitionKey.Name), AttributeType: AttributeType(partitionKey.Type)},
	}

	if sortKey != nil {
		keySchema = append(keySchema, types.KeySchemaElement{
			AttributeName: aws.String(sortKey.Name),
			KeyType:       types.KeyTypeRange,
		})
		attributes = append(attributes, types.AttributeDefinition{
			AttributeName: aws.String(sortKey.Name),
			AttributeType: AttributeType(sortKey.Type),
		})
	}

	return keySchema, attributes, nil
}

// CreateTableMarshaler can marshal a table description into a dynamodb create table request.
// Implementations must return a request the caller is free to modify.
type CreateTableMarshaler interface {
	MarshalCreateTable() (*dynamodb.CreateTableInput, error)
}

// Input is a CreateTableMarshaler for a raw create table request. The table name,
// secondary indexes and billing settings are optional.
type Input dynamodb.CreateTableInput

// MarshalCreateTable implements CreateTableMarshaler by returning a shallow copy of the request.
func (in *Input) MarshalCreateTable() (*dynamodb.CreateTableInput, error) {
	if in == nil {
		return nil, fmt.Errorf("create table input is nil")
	}
	out := dynamodb.CreateTableInput(*in)
	return &out, nil
}

// FromInput wraps a raw create table request as a CreateTableMarshaler.
func FromInput(in *dynamodb.CreateTableInput) CreateTableMarshaler {
	return (*Input)(in)
}
