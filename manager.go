package models

import (
	"context"
	"errors"
	"sync"
)

// manager is the concrete implementation of the Manager interface.
type manager struct {
	// cfg holds the module configuration.
	cfg Config

	// httpClient is used for all HTTP requests.
	httpClient HTTPClient

	// logger receives diagnostic messages. May be nil.
	logger Logger

	// storage handles local filesystem operations.
	storage storageInterface

	// client performs artifact transfers.
	client *fetchClient

	// catalog is the set of models this manager knows about.
	catalog []Model

	// fetchMu serializes in-process fetch operations.
	fetchMu sync.Mutex
}

// lookup returns the manager's catalog entry with the given name.
func (m *manager) lookup(name string) (Model, error) {
	for _, entry := range m.catalog {
		if entry.Name == name {
			return entry, nil
		}
	}
	return Model{}, ErrUnknownModel
}

// Catalog returns the models this manager knows about.
func (m *manager) Catalog() []Model {
	out := make([]Model, len(m.catalog))
	copy(out, m.catalog)
	return out
}

// Resolve returns the catalog entry and intended destination path for name.
func (m *manager) Resolve(name string) (Model, string, error) {
	entry, err := m.lookup(name)
	if err != nil {
		return Model{}, "", err
	}
	return entry, m.storage.modelPath(entry), nil
}

// Fetch downloads a catalog model into the assets directory.
func (m *manager) Fetch(ctx context.Context, name string, opts ...FetchOption) (InstalledModel, error) {
	entry, err := m.lookup(name)
	if err != nil {
		return InstalledModel{}, err
	}

	cfg := &fetchConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	m.fetchMu.Lock()
	defer m.fetchMu.Unlock()

	f := newFetcher(m.client, m.storage, m.logger)
	return f.fetch(ctx, entry, cfg.progressFn)
}

// ListInstalled returns catalog models whose files are present locally.
func (m *manager) ListInstalled(ctx context.Context) ([]InstalledModel, error) {
	var installed []InstalledModel
	for _, entry := range m.catalog {
		info, err := m.storage.statModel(entry)
		if errors.Is(err, ErrNotFetched) {
			continue
		}
		if err != nil {
			return nil, err
		}
		installed = append(installed, InstalledModel{
			Model:   entry,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Path:    m.storage.modelPath(entry),
		})
	}
	return installed, nil
}

// GetInstalled returns info about a specific fetched model.
func (m *manager) GetInstalled(ctx context.Context, name string) (InstalledModel, error) {
	entry, err := m.lookup(name)
	if err != nil {
		return InstalledModel{}, err
	}

	info, err := m.storage.statModel(entry)
	if err != nil {
		return InstalledModel{}, err
	}

	return InstalledModel{
		Model:   entry,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Path:    m.storage.modelPath(entry),
	}, nil
}

// Path returns the absolute path to a fetched model file.
func (m *manager) Path(ctx context.Context, name string) (string, error) {
	installed, err := m.GetInstalled(ctx, name)
	if err != nil {
		return "", err
	}
	return installed.Path, nil
}

// Remove deletes a fetched model file.
func (m *manager) Remove(ctx context.Context, name string) error {
	entry, err := m.lookup(name)
	if err != nil {
		return err
	}
	return m.storage.removeModel(entry)
}
