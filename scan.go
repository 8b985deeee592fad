package tcdynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ListTables returns every table name known to the engine, in the order the engine
// returns them.
func ListTables(ctx context.Context, client Client) ([]string, error) {
	names := make([]string, 0)
	paginator := dynamodb.NewListTablesPaginator(client, &dynamodb.ListTablesInput{})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tables: %w", err)
		}
		names = append(names, out.TableNames...)
	}
	return names, nil
}

// ScanInput builds a scan request for the named table with an optional filter.
func ScanInput(tableName string, filter expression.ConditionBuilder) (*dynamodb.ScanInput, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	}
	if !filter.IsSet() {
		return input, nil
	}

	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input.FilterExpression = expr.Filter()
	input.ExpressionAttributeNames = expr.Names()
	input.ExpressionAttributeValues = expr.Values()
	return input, nil
}

// Scan reads every item of the named table matching filter. Pass a zero
// expression.ConditionBuilder to read all items.
func Scan(ctx context.Context, client Client, tableName string, filter expression.ConditionBuilder) ([]map[string]types.AttributeValue, error) {
	input, err := ScanInput(tableName, filter)
	if err != nil {
		return nil, err
	}

	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewScanPaginator(client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table %s: %w", tableName, err)
		}
		items = append(items, out.Items...)
	}
	return items, nil
}

// ScanItems is like Scan but unmarshals the items into out, which must be a pointer
// to a slice.
//
// Example usage:
//
//	var users []User
//	err := tcdynamodb.ScanItems(ctx, client, table, expression.Name("active").Equal(expression.Value(true)), &users)
func ScanItems(ctx context.Context, client Client, tableName string, filter expression.ConditionBuilder, out any) error {
	items, err := Scan(ctx, client, tableName, filter)
	if err != nil {
		return err
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal items: %w", err)
	}
	return nil
}
