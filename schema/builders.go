package schema

// TableOption is a functional option for configuring a ToolboxTable during building.
type TableOption func(*ToolboxTable)

// NewTable creates a new ToolboxTable with the given options applied.
//
// Example usage:
//
//	table := schema.NewTable(
//		schema.WithName("orders"),
//		schema.WithPartitionKey("pk", schema.KeyTypeString),
//		schema.WithSortKey("sk", schema.KeyTypeString),
//		schema.WithIndex("gsi1", schema.StringKey("email"), nil),
//	)
func NewTable(opts ...TableOption) *ToolboxTable {
	table := &ToolboxTable{}
	for _, opt := range opts {
		opt(table)
	}
	return table
}

// StringKey returns a string key descriptor.
func StringKey(name string) *Key { return &Key{Name: name, Type: KeyTypeString} }

// NumberKey returns a number key descriptor.
func NumberKey(name string) *Key { return &Key{Name: name, Type: KeyTypeNumber} }

// BinaryKey returns a binary key descriptor.
func BinaryKey(name string) *Key { return &Key{Name: name, Type: KeyTypeBinary} }

// Functional Options

// WithName sets a literal table name.
func WithName(name string) TableOption {
	return func(t *ToolboxTable) {
		t.Name = name
	}
}

// WithNameFunc sets a function producing the table name.
func WithNameFunc(fn func() string) TableOption {
	return func(t *ToolboxTable) {
		t.NameFunc = fn
	}
}

// WithPartitionKey sets the partition key.
func WithPartitionKey(name string, kt KeyType) TableOption {
	return func(t *ToolboxTable) {
		t.PartitionKey = &Key{Name: name, Type: kt}
	}
}

// WithSortKey sets the sort key.
func WithSortKey(name string, kt KeyType) TableOption {
	return func(t *ToolboxTable) {
		t.SortKey = &Key{Name: name, Type: kt}
	}
}

// WithIndex appends a global secondary index. sortKey may be nil.
func WithIndex(name string, partitionKey, sortKey *Key) TableOption {
	return func(t *ToolboxTable) {
		t.Indexes = append(t.Indexes, Index{
			Name:         name,
			PartitionKey: partitionKey,
			SortKey:      sortKey,
		})
	}
}

// Ensure the table descriptions implement CreateTableMarshaler
var _ CreateTableMarshaler = (*ToolboxTable)(nil)
var _ CreateTableMarshaler = (*Input)(nil)
var _ CreateTableMarshaler = Template{}
