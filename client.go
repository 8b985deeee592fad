package tcdynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const (
	// DefaultRegion is the placeholder region used for the local instance.
	// DynamoDB Local accepts any region.
	DefaultRegion = "local"
	// DefaultAccessKeyID is the placeholder access key used for the local instance.
	DefaultAccessKeyID = "dummy"
	// DefaultSecretAccessKey is the placeholder secret used for the local instance.
	DefaultSecretAccessKey = "dummy"
)

// Client defines the DynamoDB operations required to manage test tables.
// *dynamodb.Client satisfies it.
type Client interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Ensure *dynamodb.Client implements Client
var _ Client = (*dynamodb.Client)(nil)

// NewClient creates a DynamoDB client configured to connect to the local instance
// listening at endpoint, e.g. "http://localhost:8000".
//
// Example usage:
//
//	client := tcdynamodb.NewClient(container.Endpoint())
//	_, err := client.ListTables(ctx, &dynamodb.ListTablesInput{})
func NewClient(endpoint string, optFns ...func(*dynamodb.Options)) *dynamodb.Client {
	cfg := aws.Config{
		Region:       DefaultRegion,
		Credentials:  credentials.NewStaticCredentialsProvider(DefaultAccessKeyID, DefaultSecretAccessKey, ""),
		BaseEndpoint: aws.String(endpoint),
	}

	return dynamodb.NewFromConfig(cfg, optFns...)
}

// NewClientFromConfig creates a local DynamoDB client from the default AWS configuration
// chain (shared config, environment), overriding the region, credentials and endpoint.
// This allows for more customization than NewClient, such as retry settings or HTTP clients.
func NewClientFromConfig(ctx context.Context, endpoint string, optFns ...func(*config.LoadOptions) error) (*dynamodb.Client, error) {
	opts := append([]func(*config.LoadOptions) error{
		config.WithRegion(DefaultRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(DefaultAccessKeyID, DefaultSecretAccessKey, "")),
		config.WithBaseEndpoint(endpoint),
	}, optFns...)

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg), nil
}
