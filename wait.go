package tcdynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DefaultTableWaitTimeout bounds how long the table manager waits for a table to
// settle after creating or deleting it.
const DefaultTableWaitTimeout = 30 * time.Second

// pollInterval is the delay between two DescribeTable calls while waiting.
var pollInterval = time.Second

// Ping reports whether the engine behind client answers requests.
func Ping(ctx context.Context, client Client) error {
	if _, err := client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)}); err != nil {
		return fmt.Errorf("dynamodb is not available: %w", err)
	}
	return nil
}

// tableCheck inspects one DescribeTable result and reports whether the wait is over.
type tableCheck func(table *types.TableDescription, err error) (bool, error)

// WaitForTableActive waits for a table to become active.
func WaitForTableActive(ctx context.Context, client Client, tableName string, timeout time.Duration) error {
	err := pollTable(ctx, client, tableName, timeout, func(table *types.TableDescription, err error) (bool, error) {
		if err != nil {
			return false, fmt.Errorf("failed to describe table %s: %w", tableName, err)
		}
		return table != nil && table.TableStatus == types.TableStatusActive, nil
	})
	if err == errWaitTimeout {
		return fmt.Errorf("table %s did not become active within %v", tableName, timeout)
	}
	return err
}

// WaitForTableDeleted waits until the engine no longer knows the table.
func WaitForTableDeleted(ctx context.Context, client Client, tableName string, timeout time.Duration) error {
	err := pollTable(ctx, client, tableName, timeout, func(_ *types.TableDescription, err error) (bool, error) {
		switch {
		case err == nil:
			return false, nil
		case IsNotFound(err):
			return true, nil
		default:
			return false, fmt.Errorf("error checking table deletion status: %w", err)
		}
	})
	if err == errWaitTimeout {
		return fmt.Errorf("table %s was not deleted within %v", tableName, timeout)
	}
	return err
}

var errWaitTimeout = errors.New("wait timed out")

// pollTable describes the table until check reports completion, check fails, the
// context ends or timeout elapses. The first describe is issued immediately.
func pollTable(ctx context.Context, client Client, tableName string, timeout time.Duration, check tableCheck) error {
	deadline := time.Now().Add(timeout)
	input := &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}

	for {
		var table *types.TableDescription
		out, err := client.DescribeTable(ctx, input)
		if out != nil {
			table = out.Table
		}

		done, err := check(table, err)
		if err != nil || done {
			return err
		}
		if !time.Now().Add(pollInterval).Before(deadline) {
			return errWaitTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
