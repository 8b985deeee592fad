// Package schema converts table descriptions into DynamoDB create table requests
// for the AWS SDK for Go v2.
//
// Three kinds of description are supported, each implementing [CreateTableMarshaler]:
//   - [Input]: a raw *dynamodb.CreateTableInput, used as is
//   - [ToolboxTable]: a high-level definition with typed partition/sort keys and indexes
//   - [Template]: a table resource declared in a CloudFormation template
//
// # Toolbox Tables
//
//	table := schema.NewTable(
//		schema.WithName("users"),
//		schema.WithPartitionKey("pk", schema.KeyTypeString),
//		schema.WithSortKey("sk", schema.KeyTypeString),
//		schema.WithIndex("by-email", schema.StringKey("email"), schema.StringKey("sk")),
//	)
//	input, err := table.MarshalCreateTable()
//
// Attribute definitions shared between the primary key and any index are emitted once.
// Every index is projected with ALL attributes.
//
// # CloudFormation Templates
//
//	input, err := schema.CreateTableInputFromTemplate("infra/db.yaml", "UsersTable")
//
// # Table Names
//
// [TableName] generates collision-free names for test tables:
//
//	name := schema.TableName("users") // users-3f2a...
package schema
