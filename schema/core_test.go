package schema

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestAttributeType(t *testing.T) {
	tests := []struct {
		in   KeyType
		want types.ScalarAttributeType
	}{
		{KeyTypeString, types.ScalarAttributeTypeS},
		{KeyTypeBinary, types.ScalarAttributeTypeB},
		{KeyTypeNumber, types.ScalarAttributeTypeN},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			if got := AttributeType(tt.in); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	t.Run("unknown type panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for unknown key type")
			}
		}()
		AttributeType("boolean")
	})
}

func TestKeySchema(t *testing.T) {
	t.Run("partition key only", func(t *testing.T) {
		keySchema, attrs, err := KeySchema(StringKey("id"), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(keySchema) != 1 {
			t.Fatalf("expected 1 key schema element, got %d", len(keySchema))
		}
		if aws.ToString(keySchema[0].AttributeName) != "id" || keySchema[0].KeyType != types.KeyTypeHash {
			t.Errorf("unexpected key schema element: %+v", keySchema[0])
		}

		if len(attrs) != 1 {
			t.Fatalf("expected 1 attribute definition, got %d", len(attrs))
		}
		if attrs[0].AttributeType != types.ScalarAttributeTypeS {
			t.Errorf("expected attribute type S, got %s", attrs[0].AttributeType)
		}
	})

	t.Run("partition and sort key", func(t *testing.T) {
		keySchema, attrs, err := KeySchema(BinaryKey("pk"), NumberKey("sk"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(keySchema) != 2 {
			t.Fatalf("expected 2 key schema elements, got %d", len(keySchema))
		}
		if keySchema[0].KeyType != types.KeyTypeHash {
			t.Errorf("expected HASH first, got %s", keySchema[0].KeyType)
		}
		if keySchema[1].KeyType != types.KeyTypeRange || aws.ToString(keySchema[1].AttributeName) != "sk" {
			t.Errorf("expected RANGE sk second, got %+v", keySchema[1])
		}

		if attrs[0].AttributeType != types.ScalarAttributeTypeB {
			t.Errorf("expected pk type B, got %s", attrs[0].AttributeType)
		}
		if attrs[1].AttributeType != types.ScalarAttributeTypeN {
			t.Errorf("expected sk type N, got %s", attrs[1].AttributeType)
		}
	})

	t.Run("same attribute twice is not deduplicated", func(t *testing.T) {
		_, attrs, err := KeySchema(StringKey("id"), StringKey("id"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(attrs) != 2 {
			t.Errorf("expected 2 attribute definitions, got %d", len(attrs))
		}
	})

	t.Run("missing partition key", func(t *testing.T) {
		_, _, err := KeySchema(nil, StringKey("sk"))
		if !errors.Is(err, ErrMissingPartitionKey) {
			t.Errorf("expected ErrMissingPartitionKey, got %v", err)
		}
	})
}

func TestInput(t *testing.T) {
	raw := &dynamodb.CreateTableInput{
		TableName:            aws.String("raw"),
		KeySchema:            []types.KeySchemaElement{{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash}},
		AttributeDefinitions: []types.AttributeDefinition{{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS}},
	}

	input, err := FromInput(raw).MarshalCreateTable()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if aws.ToString(input.TableName) != "raw" {
		t.Errorf("expected table name raw, got %s", aws.ToString(input.TableName))
	}

	// modifying the copy must not leak into the caller's request
	input.TableName = aws.String("changed")
	input.BillingMode = types.BillingModePayPerRequest
	if aws.ToString(raw.TableName) != "raw" {
		t.Error("expected original table name to be unchanged")
	}
	if raw.BillingMode != "" {
		t.Error("expected original billing mode to be unchanged")
	}

	t.Run("nil input", func(t *testing.T) {
		if _, err := FromInput(nil).MarshalCreateTable(); err == nil {
			t.Error("expected error for nil input")
		}
	})
}
