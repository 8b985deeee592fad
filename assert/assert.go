// Package assert provides fluent assertion utilities for tests running against
// DynamoDB Local. It makes tests more readable by providing expressive assertion
// methods on scanned items, table listings, create table requests and seeding results.
//
// # Usage
//
//	import "github.com/tapendium/testcontainers-dynamodb/assert"
//
//	// Assert on scanned items
//	assert.Items(t, items).
//		HasCount(2).
//		ContainsItem("id", "u1").
//		HasAttribute("name", "Ada")
//
//	// Assert on table names
//	assert.Tables(t, names).
//		Equal("emptyTable", "newTable")
//
//	// Assert on create table requests
//	assert.Table(t, input).
//		HasPartitionKey("id").
//		HasAttributeCount(1).
//		HasNoIndexes()
//
//	// Assert on seeding results
//	assert.Settled(t, settlements).
//		AllSucceeded().
//		HasBatches(2)
package assert

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	tcdynamodb "github.com/tapendium/testcontainers-dynamodb"
)

// ItemsAssertion provides fluent assertions for DynamoDB items.
type ItemsAssertion struct {
	t     testing.TB
	items []map[string]types.AttributeValue
}

// Items creates a new ItemsAssertion for the given DynamoDB items.
func Items(t testing.TB, items []map[string]types.AttributeValue) *ItemsAssertion {
	t.Helper()
	return &ItemsAssertion{
		t:     t,
		items: items,
	}
}

// HasCount asserts that the items collection has the expected count.
func (a *ItemsAssertion) HasCount(expected int) *ItemsAssertion {
	a.t.Helper()
	if len(a.items) != expected {
		a.t.Errorf("expected %d items, got %d", expected, len(a.items))
	}
	return a
}

// IsEmpty asserts that the items collection is empty.
func (a *ItemsAssertion) IsEmpty() *ItemsAssertion {
	a.t.Helper()
	return a.HasCount(0)
}

// IsNotEmpty asserts that the items collection is not empty.
func (a *ItemsAssertion) IsNotEmpty() *ItemsAssertion {
	a.t.Helper()
	if len(a.items) == 0 {
		a.t.Error("expected items to not be empty")
	}
	return a
}

// ContainsItem asserts that an item exists whose string key attribute equals value.
func (a *ItemsAssertion) ContainsItem(key, value string) *ItemsAssertion {
	a.t.Helper()
	for _, item := range a.items {
		if stringAttribute(item, key) == value {
			return a
		}
	}

	a.t.Errorf("expected to find item with %s=%s", key, value)
	return a
}

// HasAttribute asserts that at least one item has the specified string attribute
// with the expected value.
func (a *ItemsAssertion) HasAttribute(attributeName, expectedValue string) *ItemsAssertion {
	a.t.Helper()
	for _, item := range a.items {
		if _, ok := item[attributeName]; ok && stringAttribute(item, attributeName) == expectedValue {
			return a
		}
	}

	a.t.Errorf("expected to find attribute %s with value %s in items", attributeName, expectedValue)
	return a
}

// AllHaveAttribute asserts that every item carries the named attribute.
func (a *ItemsAssertion) AllHaveAttribute(attributeName string) *ItemsAssertion {
	a.t.Helper()
	for i, item := range a.items {
		if _, ok := item[attributeName]; !ok {
			a.t.Errorf("item %d missing attribute %s", i, attributeName)
		}
	}
	return a
}

// stringAttribute returns the string or number value of the attribute, or "" when it
// is missing or of another type.
func stringAttribute(item map[string]types.AttributeValue, name string) string {
	switch v := item[name].(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	default:
		return ""
	}
}

// TablesAssertion provides fluent assertions for table name listings.
type TablesAssertion struct {
	t     testing.TB
	names []string
}

// Tables creates a new TablesAssertion for the given table names.
func Tables(t testing.TB, names []string) *TablesAssertion {
	t.Helper()
	return &TablesAssertion{
		t:     t,
		names: names,
	}
}

// HasCount asserts the number of table names.
func (a *TablesAssertion) HasCount(expected int) *TablesAssertion {
	a.t.Helper()
	if len(a.names) != expected {
		a.t.Errorf("expected %d tables, got %d: %v", expected, len(a.names), a.names)
	}
	return a
}

// Equal asserts that the table names are exactly the expected ones, in order.
func (a *TablesAssertion) Equal(expected ...string) *TablesAssertion {
	a.t.Helper()
	if len(a.names) != len(expected) {
		a.t.Errorf("expected tables %v, got %v", expected, a.names)
		return a
	}
	for i := range expected {
		if a.names[i] != expected[i] {
			a.t.Errorf("expected tables %v, got %v", expected, a.names)
			return a
		}
	}
	return a
}

// Contains asserts that the named table is listed.
func (a *TablesAssertion) Contains(name string) *TablesAssertion {
	a.t.Helper()
	for _, n := range a.names {
		if n == name {
			return a
		}
	}
	a.t.Errorf("expected to find table %s in %v", name, a.names)
	return a
}

// NotContains asserts that the named table is not listed.
func (a *TablesAssertion) NotContains(name string) *TablesAssertion {
	a.t.Helper()
	for _, n := range a.names {
		if n == name {
			a.t.Errorf("expected table %s to be absent from %v", name, a.names)
			return a
		}
	}
	return a
}

// AllHavePrefix asserts that every table name starts with prefix.
func (a *TablesAssertion) AllHavePrefix(prefix string) *TablesAssertion {
	a.t.Helper()
	for _, n := range a.names {
		if !strings.HasPrefix(n, prefix) {
			a.t.Errorf("expected table %s to start with %s", n, prefix)
		}
	}
	return a
}

// AllDistinct asserts that no table name is listed twice.
func (a *TablesAssertion) AllDistinct() *TablesAssertion {
	a.t.Helper()
	seen := make(map[string]struct{}, len(a.names))
	for _, n := range a.names {
		if _, ok := seen[n]; ok {
			a.t.Errorf("table %s listed more than once", n)
		}
		seen[n] = struct{}{}
	}
	return a
}

// TableAssertion provides fluent assertions for create table requests.
type TableAssertion struct {
	t     testing.TB
	input *dynamodb.CreateTableInput
}

// Table creates a new TableAssertion for the given create table request.
func Table(t testing.TB, input *dynamodb.CreateTableInput) *TableAssertion {
	t.Helper()
	if input == nil {
		t.Fatal("create table input is nil")
	}
	return &TableAssertion{
		t:     t,
		input: input,
	}
}

// HasName asserts the table name.
func (a *TableAssertion) HasName(expected string) *TableAssertion {
	a.t.Helper()
	if got := aws.ToString(a.input.TableName); got != expected {
		a.t.Errorf("expected table name %s, got %s", expected, got)
	}
	return a
}

// HasPartitionKey asserts that the key schema's HASH element is the named attribute.
func (a *TableAssertion) HasPartitionKey(name string) *TableAssertion {
	a.t.Helper()
	return a.hasKey(name, types.KeyTypeHash)
}

// HasSortKey asserts that the key schema's RANGE element is the named attribute.
func (a *TableAssertion) HasSortKey(name string) *TableAssertion {
	a.t.Helper()
	return a.hasKey(name, types.KeyTypeRange)
}

func (a *TableAssertion) hasKey(name string, kt types.KeyType) *TableAssertion {
	a.t.Helper()
	for _, el := range a.input.KeySchema {
		if el.KeyType == kt {
			if got := aws.ToString(el.AttributeName); got != name {
				a.t.Errorf("expected %s key %s, got %s", kt, name, got)
			}
			return a
		}
	}
	a.t.Errorf("expected %s key %s, found none", kt, name)
	return a
}

// HasAttribute asserts that the attribute is defined with the given type.
func (a *TableAssertion) HasAttribute(name string, st types.ScalarAttributeType) *TableAssertion {
	a.t.Helper()
	for _, def := range a.input.AttributeDefinitions {
		if aws.ToString(def.AttributeName) == name {
			if def.AttributeType != st {
				a.t.Errorf("expected attribute %s of type %s, got %s", name, st, def.AttributeType)
			}
			return a
		}
	}
	a.t.Errorf("expected attribute definition %s", name)
	return a
}

// HasAttributeCount asserts the number of attribute definitions.
func (a *TableAssertion) HasAttributeCount(expected int) *TableAssertion {
	a.t.Helper()
	if got := len(a.input.AttributeDefinitions); got != expected {
		a.t.Errorf("expected %d attribute definitions, got %d", expected, got)
	}
	return a
}

// HasIndex asserts that a global secondary index with the given name exists.
func (a *TableAssertion) HasIndex(name string) *TableAssertion {
	a.t.Helper()
	for _, gsi := range a.input.GlobalSecondaryIndexes {
		if aws.ToString(gsi.IndexName) == name {
			return a
		}
	}
	a.t.Errorf("expected global secondary index %s", name)
	return a
}

// HasNoIndexes asserts that the request carries no global secondary index field at all.
func (a *TableAssertion) HasNoIndexes() *TableAssertion {
	a.t.Helper()
	if a.input.GlobalSecondaryIndexes != nil {
		a.t.Errorf("expected no global secondary indexes, got %d", len(a.input.GlobalSecondaryIndexes))
	}
	return a
}

// SettlementsAssertion provides fluent assertions for fan-out results.
type SettlementsAssertion struct {
	t           testing.TB
	settlements tcdynamodb.Settlements
}

// Settled creates a new SettlementsAssertion for the given settlements.
func Settled(t testing.TB, settlements tcdynamodb.Settlements) *SettlementsAssertion {
	t.Helper()
	return &SettlementsAssertion{
		t:           t,
		settlements: settlements,
	}
}

// HasBatches asserts the number of settled requests.
func (a *SettlementsAssertion) HasBatches(expected int) *SettlementsAssertion {
	a.t.Helper()
	if len(a.settlements) != expected {
		a.t.Errorf("expected %d settlements, got %d", expected, len(a.settlements))
	}
	return a
}

// AllSucceeded asserts that no request failed and nothing was left unprocessed.
func (a *SettlementsAssertion) AllSucceeded() *SettlementsAssertion {
	a.t.Helper()
	if err := a.settlements.Err(); err != nil {
		a.t.Errorf("expected all requests to succeed: %v", err)
	}
	for _, st := range a.settlements {
		if st.Unprocessed > 0 {
			a.t.Errorf("batch %d of table %s left %d items unprocessed", st.Batch, st.Table, st.Unprocessed)
		}
	}
	return a
}

// HasFailures asserts the number of failed requests.
func (a *SettlementsAssertion) HasFailures(expected int) *SettlementsAssertion {
	a.t.Helper()
	if got := len(a.settlements.Failed()); got != expected {
		a.t.Errorf("expected %d failed requests, got %d", expected, got)
	}
	return a
}

// HasItems asserts the total number of items across all settled batches.
func (a *SettlementsAssertion) HasItems(expected int) *SettlementsAssertion {
	a.t.Helper()
	total := 0
	for _, st := range a.settlements {
		total += st.Items
	}
	if total != expected {
		a.t.Errorf("expected %d items across batches, got %d", expected, total)
	}
	return a
}
