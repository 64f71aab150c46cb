package jsdom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grafana/sobek"

	"github.com/bnema/folio/internal/domain/repository"
	"github.com/bnema/folio/internal/logging"
)

const (
	storageDirPerm  = 0o755
	storageFilePerm = 0o644
)

// LocalStorage is a repository.PreferenceStore over the runtime's window.localStorage.
// Values go through the same string coercion and quota checks a browser applies.
type LocalStorage struct {
	rt *Runtime
}

var _ repository.PreferenceStore = (*LocalStorage)(nil)

// LocalStorage returns the store backed by this runtime.
func (r *Runtime) LocalStorage() *LocalStorage {
	return &LocalStorage{rt: r}
}

func (s *LocalStorage) call(method string, args ...any) (sobek.Value, error) {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	var v sobek.Value
	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = panicError(p)
			}
		}()
		v, err = callMethod(s.rt.vm, s.rt.vm.Get("localStorage").ToObject(s.rt.vm), method, args...)
		return err
	}()
	return v, err
}

// Get implements repository.PreferenceStore.
func (s *LocalStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.call("getItem", key)
	if err != nil {
		return "", false, fmt.Errorf("localStorage.getItem(%q): %w", key, err)
	}
	if v == nil || sobek.IsNull(v) || sobek.IsUndefined(v) {
		return "", false, nil
	}
	return v.String(), true, nil
}

// Set implements repository.PreferenceStore.
func (s *LocalStorage) Set(ctx context.Context, key, value string) error {
	if _, err := s.call("setItem", key, value); err != nil {
		return fmt.Errorf("localStorage.setItem(%q): %w", key, err)
	}
	logging.FromContext(ctx).Trace().Str("key", key).Msg("localStorage item set")
	return nil
}

// Delete implements repository.PreferenceStore.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.call("removeItem", key); err != nil {
		return fmt.Errorf("localStorage.removeItem(%q): %w", key, err)
	}
	return nil
}

// Snapshot returns every stored item.
func (s *LocalStorage) Snapshot() (map[string]string, error) {
	s.rt.mu.Lock()
	v, err := s.rt.callAPI("dumpStorage")
	s.rt.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to dump localStorage: %w", err)
	}

	items := make(map[string]string)
	if err := json.Unmarshal([]byte(v.String()), &items); err != nil {
		return nil, fmt.Errorf("failed to decode localStorage dump: %w", err)
	}
	return items, nil
}

// LoadStorageFile reads a localStorage snapshot written by SaveStorageFile.
// A missing file is an empty storage.
func LoadStorageFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read localStorage file: %w", err)
	}

	items := make(map[string]string)
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse localStorage file %s: %w", path, err)
	}
	return items, nil
}

// SaveStorageFile writes the current localStorage items to path atomically.
func (s *LocalStorage) SaveStorageFile(ctx context.Context, path string) error {
	items, err := s.Snapshot()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode localStorage: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), storageDirPerm); err != nil {
		return fmt.Errorf("failed to create localStorage directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, storageFilePerm); err != nil {
		return fmt.Errorf("failed to write localStorage file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace localStorage file: %w", err)
	}

	logging.FromContext(ctx).Debug().Str("path", path).Int("items", len(items)).Msg("localStorage saved")
	return nil
}
