package tcdynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedClient forces single-element pages.
type pagedClient struct {
	*FakeClient
	listCalls int
	scanCalls int
}

func (c *pagedClient) ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	c.listCalls++
	params.Limit = aws.Int32(1)
	return c.FakeClient.ListTables(ctx, params, optFns...)
}

func (c *pagedClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	c.scanCalls++
	params.Limit = aws.Int32(1)
	return c.FakeClient.Scan(ctx, params, optFns...)
}

func TestListTables(t *testing.T) {
	ctx := context.Background()

	t.Run("follows pages", func(t *testing.T) {
		client := &pagedClient{FakeClient: NewFakeClient()}
		tm := newTestManager(client)
		require.NoError(t, tm.ResetData(ctx,
			TableInit{Table: usersTable("c")},
			TableInit{Table: usersTable("a")},
			TableInit{Table: usersTable("b")},
		))

		names, err := ListTables(ctx, client)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, names)
		assert.Equal(t, 3, client.listCalls)
	})

	t.Run("empty engine", func(t *testing.T) {
		names, err := ListTables(ctx, NewFakeClient())
		require.NoError(t, err)
		assert.NotNil(t, names)
		assert.Empty(t, names)
	})

	t.Run("error", func(t *testing.T) {
		mock := NewMockClient(t)
		mock.ListTablesFunc = func(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
			return nil, errors.New("connection refused")
		}

		_, err := ListTables(ctx, mock)
		assert.ErrorContains(t, err, "failed to list tables")
	})
}

func TestScanInput(t *testing.T) {
	t.Run("without filter", func(t *testing.T) {
		input, err := ScanInput("users", expression.ConditionBuilder{})
		require.NoError(t, err)
		assert.Equal(t, "users", aws.ToString(input.TableName))
		assert.Nil(t, input.FilterExpression)
		assert.Nil(t, input.ExpressionAttributeNames)
	})

	t.Run("with filter", func(t *testing.T) {
		input, err := ScanInput("users", expression.Name("name").Equal(expression.Value("Ada")))
		require.NoError(t, err)
		assert.Equal(t, "#0 = :0", aws.ToString(input.FilterExpression))
		assert.Equal(t, map[string]string{"#0": "name"}, input.ExpressionAttributeNames)
		assert.Contains(t, input.ExpressionAttributeValues, ":0")
	})
}

func TestScan(t *testing.T) {
	ctx := context.Background()

	client := &pagedClient{FakeClient: NewFakeClient()}
	tm := newTestManager(client)
	require.NoError(t, tm.ResetData(ctx, TableInit{Table: usersTable("users"), Items: userItems(3)}))

	t.Run("follows pages", func(t *testing.T) {
		client.scanCalls = 0
		items, err := Scan(ctx, client, "users", expression.ConditionBuilder{})
		require.NoError(t, err)
		assert.Len(t, items, 3)
		assert.Equal(t, 3, client.scanCalls)
	})

	t.Run("unmarshals items", func(t *testing.T) {
		type user struct {
			ID string `dynamodbav:"id"`
			N  int    `dynamodbav:"n"`
		}

		var users []user
		require.NoError(t, ScanItems(ctx, client, "users", expression.ConditionBuilder{}, &users))
		assert.ElementsMatch(t, []user{{"u0", 0}, {"u1", 1}, {"u2", 2}}, users)
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := Scan(ctx, client, "other", expression.ConditionBuilder{})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("passes the filter", func(t *testing.T) {
		mock := NewMockClient(t)
		mock.ScanFunc = func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			assert.NotNil(t, params.FilterExpression)
			return &dynamodb.ScanOutput{}, nil
		}

		items, err := Scan(ctx, mock, "users", expression.Name("n").GreaterThan(expression.Value(1)))
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
