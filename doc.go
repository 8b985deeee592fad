// Package tcdynamodb runs DynamoDB Local in a container for integration tests and
// manages the tables those tests use.
//
// The package includes:
//   - A container wrapper built on testcontainers-go
//   - A table manager creating uniquely named tables, seeding and deleting them
//   - Resetting a known set of tables to their initial content between tests
//   - An expectation-based mock client for unit tests without Docker
//
// Table definitions are described with the schema subpackage.
//
// # Container
//
//	initData := []tcdynamodb.TableInit{
//		{
//			Table: schema.NewTable(
//				schema.WithName("users"),
//				schema.WithPartitionKey("id", schema.KeyTypeString),
//			),
//			Items: []any{
//				map[string]any{"id": "u1", "name": "Ada"},
//			},
//		},
//	}
//
//	container, err := tcdynamodb.New(initData).Start(ctx)
//	if err != nil {
//		t.Fatal(err)
//	}
//	t.Cleanup(func() { container.Stop(context.Background()) })
//
// The started container resets the init data on start. Call ResetData between tests
// to restore it:
//
//	err := container.ResetData(ctx)
//
// # Test Tables
//
// CreateTable generates a fresh name for every call so tests never collide:
//
//	name, err := container.CreateTable(ctx, schema.NewTable(
//		schema.WithPartitionKey("id", schema.KeyTypeString),
//	))
//	defer container.DeleteTable(ctx, name)
//
// Tables created this way are tracked and can be dropped at once:
//
//	if err := container.DeleteAllTables(ctx).Err(); err != nil {
//		t.Log(err)
//	}
//
// # Configuration
//
// LoadConfig reads DYNAMODB_LOCAL_* environment variables and an optional
// dynamodb-local.yaml file:
//
//	cfg, err := tcdynamodb.LoadConfig()
//	container, err := tcdynamodb.NewFromConfig(cfg, initData).Start(ctx)
//
// # Mock Client
//
//	mock := tcdynamodb.NewMockClient(t)
//	mock.CreateTableFunc = func(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
//		return &dynamodb.CreateTableOutput{}, nil
//	}
//	manager := tcdynamodb.NewTableManager(mock, nil)
package tcdynamodb
