package tcdynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/docker/go-connections/nat"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultImage is the DynamoDB Local image started by the container.
	DefaultImage = "amazon/dynamodb-local"
	// DefaultPort is the port DynamoDB Local listens on inside the container.
	DefaultPort = 8000
	// DefaultStartupTimeout bounds the wait for the container to accept connections.
	DefaultStartupTimeout = 60 * time.Second
	// DefaultReuseName is the container name used when reuse is enabled.
	DefaultReuseName = "testcontainers-dynamodb-local"
)

// Option is a functional option for configuring a Container.
type Option func(*Container)

// Container describes a DynamoDB Local container that has not been started yet.
type Container struct {
	initData       []TableInit
	image          string
	reuse          bool
	reuseName      string
	reset          bool
	startupTimeout time.Duration
	logger         logrus.FieldLogger

	// starts the container; replaced in tests
	start func(ctx context.Context, req testcontainers.GenericContainerRequest) (testcontainers.Container, error)
}

// New creates a DynamoDB Local container description. The init data is the table set
// created on start and recreated by ResetData. By default, a fresh container is started
// and its data is reset on start.
//
// Example usage:
//
//	container, err := tcdynamodb.New(initData).Start(ctx)
//	if err != nil {
//		t.Fatal(err)
//	}
//	defer container.Stop(ctx)
func New(initData []TableInit, opts ...Option) *Container {
	c := &Container{
		initData:       initData,
		image:          DefaultImage,
		reuseName:      DefaultReuseName,
		reset:          true,
		startupTimeout: DefaultStartupTimeout,
		logger:         logrus.StandardLogger(),
		start:          testcontainers.GenericContainer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a container description from cfg. Options are applied after
// the configuration.
func NewFromConfig(cfg *Config, initData []TableInit, opts ...Option) *Container {
	base := []Option{
		WithImage(cfg.Image),
		WithStartupTimeout(cfg.StartupTimeout),
		WithLogger(cfg.Logger()),
	}
	if cfg.Reuse {
		base = append(base, WithReuse(cfg.ReuseName))
	}
	if !cfg.Reset {
		base = append(base, WithoutReset())
	}
	return New(initData, append(base, opts...)...)
}

// WithImage sets the container image.
func WithImage(image string) Option {
	return func(c *Container) {
		if image != "" {
			c.image = image
		}
	}
}

// WithReuse reuses a running container with the given name instead of starting a new one.
// An empty name selects DefaultReuseName.
func WithReuse(name string) Option {
	return func(c *Container) {
		c.reuse = true
		if name != "" {
			c.reuseName = name
		}
	}
}

// WithoutReset skips resetting the init data on start.
func WithoutReset() Option {
	return func(c *Container) {
		c.reset = false
	}
}

// WithStartupTimeout sets how long to wait for the container to accept connections.
func WithStartupTimeout(timeout time.Duration) Option {
	return func(c *Container) {
		if timeout > 0 {
			c.startupTimeout = timeout
		}
	}
}

// WithLogger sets the logger used by the container and its table manager.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

func (c *Container) request() testcontainers.GenericContainerRequest {
	port := nat.Port(fmt.Sprintf("%d/tcp", DefaultPort))
	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        c.image,
			ExposedPorts: []string{string(port)},
			WaitingFor:   wait.ForListeningPort(port).WithStartupTimeout(c.startupTimeout),
		},
		Started: true,
	}
	if c.reuse {
		req.Name = c.reuseName
		req.Reuse = true
	}
	return req
}

// Start starts the container and, unless disabled, resets its data. When the reset
// fails, the started container is returned along with the error so it can be stopped.
func (c *Container) Start(ctx context.Context) (*StartedContainer, error) {
	log := c.logger.WithField("image", c.image)
	log.Debug("starting container")

	ctr, err := c.start(ctx, c.request())
	if err != nil {
		return nil, fmt.Errorf("failed to start dynamodb container: %w", err)
	}

	started, err := newStartedContainer(ctx, ctr, c.initData, c.logger)
	if err != nil {
		if !c.reuse {
			_ = ctr.Terminate(context.WithoutCancel(ctx))
		}
		return nil, err
	}
	log.WithField("endpoint", started.Endpoint()).Debug("container started")

	if c.reset {
		if err := started.ResetData(ctx); err != nil {
			return started, fmt.Errorf("failed to reset data: %w", err)
		}
	}

	return started, nil
}

// StartedContainer is a running DynamoDB Local container. It embeds the underlying
// testcontainers.Container for low-level access and a TableManager bound to the
// container's endpoint.
type StartedContainer struct {
	testcontainers.Container
	*TableManager

	endpoint string
	client   *dynamodb.Client
}

func newStartedContainer(ctx context.Context, ctr testcontainers.Container, initData []TableInit, logger logrus.FieldLogger) (*StartedContainer, error) {
	endpoint, err := Endpoint(ctx, ctr)
	if err != nil {
		return nil, err
	}

	client := NewClient(endpoint)
	return &StartedContainer{
		Container:    ctr,
		TableManager: NewTableManager(client, initData, WithManagerLogger(logger)),
		endpoint:     endpoint,
		client:       client,
	}, nil
}

// Sandbox is the subset of a running container needed to reach DynamoDB Local.
type Sandbox interface {
	Host(ctx context.Context) (string, error)
	MappedPort(ctx context.Context, port nat.Port) (nat.Port, error)
}

// Endpoint returns the http endpoint of DynamoDB Local running in sandbox.
func Endpoint(ctx context.Context, sandbox Sandbox) (string, error) {
	host, err := sandbox.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := sandbox.MappedPort(ctx, nat.Port(fmt.Sprintf("%d/tcp", DefaultPort)))
	if err != nil {
		return "", fmt.Errorf("failed to get mapped port: %w", err)
	}

	return fmt.Sprintf("http://%s:%s", host, port.Port()), nil
}

// Endpoint returns the http endpoint of DynamoDB Local.
func (c *StartedContainer) Endpoint() string {
	return c.endpoint
}

// Client returns a DynamoDB client connected to the container.
func (c *StartedContainer) Client() *dynamodb.Client {
	return c.client
}

// Stop terminates the container.
func (c *StartedContainer) Stop(ctx context.Context) error {
	if err := c.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("failed to stop dynamodb container: %w", err)
	}
	return nil
}
