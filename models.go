package models

import (
	"context"
	"errors"
)

// Manager provides programmatic access to model fetching.
// All methods are safe for concurrent use.
// For CLI integration, use NewCommand instead.
type Manager interface {
	// Fetch downloads a catalog model into the assets directory with a
	// single blocking HTTP GET, overwriting any existing file at the
	// destination. Returns ErrUnknownModel if the name is not in the
	// catalog. On failure a partial file may remain at the destination.
	Fetch(ctx context.Context, name string, opts ...FetchOption) (InstalledModel, error)

	// Catalog returns the models this manager knows about.
	Catalog() []Model

	// Resolve returns the catalog entry and intended destination path for
	// name, whether or not the file has been fetched.
	// Returns ErrUnknownModel if the name is not in the catalog.
	Resolve(name string) (Model, string, error)

	// ListInstalled returns catalog models whose files are present locally.
	ListInstalled(ctx context.Context) ([]InstalledModel, error)

	// GetInstalled returns info about a specific fetched model.
	// Returns ErrNotFetched if the model file is absent.
	GetInstalled(ctx context.Context, name string) (InstalledModel, error)

	// Path returns the absolute path to a fetched model file.
	// Returns ErrNotFetched if the model file is absent.
	Path(ctx context.Context, name string) (string, error)

	// Remove deletes a fetched model file.
	// Returns ErrNotFetched if the model file is absent.
	Remove(ctx context.Context, name string) error
}

// Ensure manager implements Manager interface.
var _ Manager = (*manager)(nil)

// NewManager creates a new Manager with the given configuration.
// Returns an error if the configuration is invalid (empty AppName).
func NewManager(cfg Config, opts ...ManagerOption) (Manager, error) {
	if cfg.AppName == "" {
		return nil, errors.New("models: AppName is required")
	}

	mcfg := newManagerConfig()
	for _, opt := range opts {
		opt(mcfg)
	}

	storage, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	return &manager{
		cfg:        cfg,
		httpClient: mcfg.httpClient,
		logger:     mcfg.logger,
		storage:    storage,
		client:     newFetchClient(mcfg.httpClient, mcfg.logger),
		catalog:    Catalog(),
	}, nil
}
