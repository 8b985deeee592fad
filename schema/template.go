package schema

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// cloudFormation is the subset of a CloudFormation document needed to locate a table resource.
type cloudFormation struct {
	Resources map[string]struct {
		Type       string         `yaml:"Type"`
		Properties map[string]any `yaml:"Properties"`
	} `yaml:"Resources"`
}

// Template is a CreateTableMarshaler for a table resource declared in a
// CloudFormation template. Both YAML and JSON templates are supported.
type Template struct {
	Path     string // Path to the template file
	Resource string // Logical name of the table resource
}

// MarshalCreateTable implements CreateTableMarshaler.
func (t Template) MarshalCreateTable() (*dynamodb.CreateTableInput, error) {
	return CreateTableInputFromTemplate(t.Path, t.Resource)
}

// CreateTableInputFromTemplate loads the template at path and returns the properties of the
// named resource as a create table request. The properties are expected to use the native
// dynamodb request shape; properties unknown to the request are ignored and quoted
// numbers or booleans are converted.
func CreateTableInputFromTemplate(path, resource string) (*dynamodb.CreateTableInput, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	return ParseTemplate(payload, resource)
}

// ParseTemplate is like CreateTableInputFromTemplate but reads the template from memory.
func ParseTemplate(payload []byte, resource string) (*dynamodb.CreateTableInput, error) {
	var doc cloudFormation
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}

	if doc.Resources == nil {
		return nil, fmt.Errorf("%w: missing Resources", ErrInvalidTemplate)
	}
	res, ok := doc.Resources[resource]
	if !ok {
		return nil, fmt.Errorf("%w: resource %q not found", ErrInvalidTemplate, resource)
	}
	if res.Properties == nil {
		return nil, fmt.Errorf("%w: resource %q has no Properties", ErrInvalidTemplate, resource)
	}

	// CloudFormation declares the resource policy as a document while the request
	// carries it as a string.
	delete(res.Properties, "ResourcePolicy")

	// Property names match the request fields. Weak typing accepts the quoted
	// scalars CloudFormation allows, e.g. ReadCapacityUnits: "5".
	var input dynamodb.CreateTableInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &input,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	if err := decoder.Decode(res.Properties); err != nil {
		return nil, fmt.Errorf("%w: resource %q: %w", ErrInvalidTemplate, resource, err)
	}
	return &input, nil
}
