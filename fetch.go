package models

import (
	"context"
	"fmt"
)

// fetcher performs a single model download end to end: lock, open, stream,
// final stat. One fetcher per fetch operation.
type fetcher struct {
	// client performs the HTTP transfer.
	client *fetchClient

	// storage provides destination paths and file operations.
	storage storageInterface

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// newFetcher creates a fetcher over the given client and storage.
func newFetcher(client *fetchClient, storage storageInterface, logger Logger) *fetcher {
	return &fetcher{
		client:  client,
		storage: storage,
		logger:  logger,
	}
}

// fetch downloads m into the assets directory, overwriting any existing file
// at the destination. Progress is reported through progressFn when non-nil.
//
// On failure a partially written file may remain at the destination; it is
// deliberately not cleaned up so an operator can inspect or replace it by
// hand. On success the resulting file is stat'ed and its size reported back.
func (f *fetcher) fetch(ctx context.Context, m Model, progressFn func(FetchProgress)) (InstalledModel, error) {
	if err := f.storage.ensureDir(f.storage.dir()); err != nil {
		return InstalledModel{}, err
	}

	// Acquire cross-process lock for this specific model. This prevents
	// concurrent fetches of the same model from different processes from
	// interleaving writes into one destination file.
	fetchLock, err := newFileLock(f.storage.lockPath(m), DefaultLockTimeout)
	if err != nil {
		return InstalledModel{}, fmt.Errorf("%w: failed to create fetch lock: %v", ErrStorageError, err)
	}
	if err := fetchLock.Lock(); err != nil {
		return InstalledModel{}, fmt.Errorf("%w: another process is fetching this model: %v", ErrStorageError, err)
	}
	defer fetchLock.Unlock()

	out, err := f.storage.createDest(m)
	if err != nil {
		return InstalledModel{}, err
	}

	var onProgress func(completed, total int64)
	if progressFn != nil {
		onProgress = func(completed, total int64) {
			progressFn(FetchProgress{BytesCompleted: completed, BytesTotal: total})
		}
	}

	if f.logger != nil {
		f.logger.Info("fetching model", "model", m.Name, "url", m.URL, "dest", f.storage.modelPath(m))
	}

	_, fetchErr := f.client.fetchTo(ctx, m.URL, out, onProgress)
	closeErr := out.Close()
	if fetchErr != nil {
		return InstalledModel{}, fetchErr
	}
	if closeErr != nil {
		return InstalledModel{}, fmt.Errorf("%w: closing destination file: %v", ErrStorageError, closeErr)
	}

	// Read the size back from the filesystem rather than trusting the
	// transfer byte count.
	info, err := f.storage.statModel(m)
	if err != nil {
		return InstalledModel{}, err
	}

	if f.logger != nil {
		f.logger.Info("model fetched", "model", m.Name, "bytes", info.Size())
	}

	return InstalledModel{
		Model:   m,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Path:    f.storage.modelPath(m),
	}, nil
}
