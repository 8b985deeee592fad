package tcdynamodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
	"github.com/tapendium/testcontainers-dynamodb/schema"
)

// TableInit describes a table, and optionally its items, that is recreated by
// [TableManager.ResetData].
type TableInit struct {
	Table schema.CreateTableMarshaler // Table definition; must resolve to a table name
	Items []any                       // Items seeded after creation
}

// Settlement is the outcome of a single request issued during a fan-out operation.
type Settlement struct {
	Table       string // Table the request was issued for
	Batch       int    // Batch index for seeding requests
	Items       int    // Number of items in the batch
	Unprocessed int    // Number of items the engine reported as unprocessed
	Err         error  // Request error, if any
}

// Settlements is the set of outcomes of a fan-out operation.
type Settlements []Settlement

// Failed returns the settlements with an error.
func (s Settlements) Failed() Settlements {
	var failed Settlements
	for _, st := range s {
		if st.Err != nil {
			failed = append(failed, st)
		}
	}
	return failed
}

// Err joins the errors of all failed settlements. It returns nil when every
// request succeeded.
func (s Settlements) Err() error {
	var errs []error
	for _, st := range s.Failed() {
		errs = append(errs, st.Err)
	}
	return errors.Join(errs...)
}

// TableManager creates, seeds and deletes test tables, keeping track of the tables it
// created. Calls that create or delete tables on the same manager should not overlap.
type TableManager struct {
	client      Client
	initData    []TableInit
	logger      logrus.FieldLogger
	waitTimeout time.Duration

	mu     sync.Mutex
	tables []string // tables created by CreateTable, in creation order
}

// NewTableManager creates a new table manager with the given DynamoDB client. The init data
// is the default table set recreated by ResetData.
func NewTableManager(client Client, initData []TableInit, opts ...func(*TableManager)) *TableManager {
	tm := &TableManager{
		client:      client,
		initData:    initData,
		logger:      logrus.StandardLogger(),
		waitTimeout: DefaultTableWaitTimeout,
		tables:      make([]string, 0),
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// WithManagerLogger sets the logger used by the table manager.
func WithManagerLogger(logger logrus.FieldLogger) func(*TableManager) {
	return func(tm *TableManager) {
		tm.logger = logger
	}
}

// WithWaitTimeout sets how long the table manager waits for a created table to become
// active or a deleted table to disappear.
func WithWaitTimeout(timeout time.Duration) func(*TableManager) {
	return func(tm *TableManager) {
		if timeout > 0 {
			tm.waitTimeout = timeout
		}
	}
}

// TableNames returns the names of the tables created by this manager, in creation order.
func (tm *TableManager) TableNames() []string {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	names := make([]string, len(tm.tables))
	copy(names, tm.tables)
	return names
}

// CreateTable creates a new table from def with a generated, collision-free name and
// optionally seeds it with items. The name is derived from the definition's table name,
// or from [schema.DefaultTableName] when it has none. Tables are billed per request
// unless the definition specifies billing. The generated name is returned once the
// table is active; a table that fails to become active stays tracked.
func (tm *TableManager) CreateTable(ctx context.Context, def schema.CreateTableMarshaler, items ...any) (string, error) {
	if def == nil {
		return "", fmt.Errorf("table definition is nil")
	}
	input, err := def.MarshalCreateTable()
	if err != nil {
		return "", fmt.Errorf("failed to marshal table: %w", err)
	}

	name := schema.TableName(aws.ToString(input.TableName))
	input.TableName = aws.String(name)
	withDefaultBilling(input)

	tm.logger.WithField("table", name).Debug("creating table")
	if _, err := tm.client.CreateTable(ctx, input); err != nil {
		return "", fmt.Errorf("failed to create table %s: %w", name, err)
	}

	tm.mu.Lock()
	tm.tables = append(tm.tables, name)
	tm.mu.Unlock()

	if err := WaitForTableActive(ctx, tm.client, name, tm.waitTimeout); err != nil {
		return name, err
	}

	if len(items) > 0 {
		if _, err := tm.SeedTable(ctx, name, items...); err != nil {
			return name, err
		}
	}

	return name, nil
}

// SeedTable writes items to the named table in batches of [schema.MaxBatchSize]. Batches are
// written concurrently and all of them are awaited. A failing batch does not fail the call;
// inspect the returned settlements to detect partial seeding. An error is returned only
// when the items cannot be marshaled, in which case nothing is written.
func (tm *TableManager) SeedTable(ctx context.Context, name string, items ...any) (Settlements, error) {
	batches, err := schema.MarshalBatch(name, items...)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal items for table %s: %w", name, err)
	}

	results := make(Settlements, len(batches))
	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch *dynamodb.BatchWriteItemInput) {
			defer wg.Done()
			results[i] = tm.writeBatch(ctx, name, i, batch)
		}(i, batch)
	}
	wg.Wait()

	for _, failed := range results.Failed() {
		tm.logger.WithFields(logrus.Fields{
			"table": name,
			"batch": failed.Batch,
		}).WithError(failed.Err).Warn("failed to seed batch")
	}

	return results, nil
}

func (tm *TableManager) writeBatch(ctx context.Context, name string, index int, batch *dynamodb.BatchWriteItemInput) Settlement {
	st := Settlement{
		Table: name,
		Batch: index,
		Items: len(batch.RequestItems[name]),
	}

	out, err := tm.client.BatchWriteItem(ctx, batch)
	if err != nil {
		st.Err = fmt.Errorf("failed to write batch %d to table %s: %w", index, name, err)
		return st
	}

	if out != nil {
		st.Unprocessed = len(out.UnprocessedItems[name])
	}
	return st
}

// DeleteTable deletes the named table. The table is no longer tracked once the call
// succeeds or the table turns out not to exist; the error is returned either way.
func (tm *TableManager) DeleteTable(ctx context.Context, name string) error {
	tm.logger.WithField("table", name).Debug("deleting table")

	_, err := tm.client.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(name),
	})
	if err == nil || IsNotFound(err) {
		tm.untrack(name)
	}
	if err != nil {
		return fmt.Errorf("failed to delete table %s: %w", name, err)
	}
	return nil
}

// untrack removes exactly one entry matching name.
func (tm *TableManager) untrack(name string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for i, table := range tm.tables {
		if table == name {
			tm.tables = append(tm.tables[:i], tm.tables[i+1:]...)
			return
		}
	}
}

// DeleteAllTables concurrently deletes every table created by this manager. Individual
// failures do not stop the others; no tables are tracked afterwards regardless of outcome.
func (tm *TableManager) DeleteAllTables(ctx context.Context) Settlements {
	tm.mu.Lock()
	names := tm.tables
	tm.tables = make([]string, 0)
	tm.mu.Unlock()

	results := make(Settlements, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = Settlement{Table: name}
			if _, err := tm.client.DeleteTable(ctx, &dynamodb.DeleteTableInput{
				TableName: aws.String(name),
			}); err != nil {
				results[i].Err = fmt.Errorf("failed to delete table %s: %w", name, err)
			}
		}(i, name)
	}
	wg.Wait()

	for _, failed := range results.Failed() {
		tm.logger.WithField("table", failed.Table).WithError(failed.Err).Warn("failed to delete table")
	}

	return results
}

// ResetData deletes, recreates and seeds every entry of the table set, in order. The
// manager's init data is used when entries is nil, i.e. when called without entries;
// an empty non-nil slice, e.g. ResetData(ctx, []TableInit{}...), resets nothing.
// Tables that do not exist yet are simply created. Each table is recreated only once
// its deletion has completed and seeded once it is active. The first unexpected error
// aborts the reset, leaving the entries processed so far in their new state.
//
// Reset tables keep the name of their definition and are not tracked by the manager.
func (tm *TableManager) ResetData(ctx context.Context, entries ...TableInit) error {
	if entries == nil {
		entries = tm.initData
	}

	for _, entry := range entries {
		if err := tm.resetTable(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (tm *TableManager) resetTable(ctx context.Context, entry TableInit) error {
	if entry.Table == nil {
		return fmt.Errorf("table init entry has no table definition")
	}
	input, err := entry.Table.MarshalCreateTable()
	if err != nil {
		return fmt.Errorf("failed to marshal table: %w", err)
	}
	name := aws.ToString(input.TableName)
	if name == "" {
		return fmt.Errorf("table init entry has no table name")
	}
	withDefaultBilling(input)

	log := tm.logger.WithField("table", name)

	log.Debug("deleting table")
	_, err = tm.client.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(name),
	})
	switch {
	case err == nil:
		if err := WaitForTableDeleted(ctx, tm.client, name, tm.waitTimeout); err != nil {
			return err
		}
	case !IsNotFound(err):
		return fmt.Errorf("failed to delete table %s: %w", name, err)
	}

	log.Debug("creating table")
	if _, err := tm.client.CreateTable(ctx, input); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	if err := WaitForTableActive(ctx, tm.client, name, tm.waitTimeout); err != nil {
		return err
	}

	if len(entry.Items) > 0 {
		log.WithField("items", len(entry.Items)).Debug("seeding table")
		if _, err := tm.SeedTable(ctx, name, entry.Items...); err != nil {
			return err
		}
	}
	return nil
}

// withDefaultBilling bills the table per request unless the request configures billing.
func withDefaultBilling(input *dynamodb.CreateTableInput) {
	if input.BillingMode == "" && input.ProvisionedThroughput == nil {
		input.BillingMode = types.BillingModePayPerRequest
	}
}

// IsNotFound reports whether err is a DynamoDB ResourceNotFoundException.
func IsNotFound(err error) bool {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException"
}
