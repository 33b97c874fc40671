// Package storage хранит идентичность пользователя в локальном JSON-файле.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type identityRecord struct {
	Email string `json:"email"`
}

// FileStore хранилище email в файле. Запись атомарная: временный файл и rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore создаёт хранилище; каталог создаётся при первой записи.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadEmail возвращает сохранённый email или пустую строку, если файла нет.
func (s *FileStore) LoadEmail(_ context.Context) (string, error) {
	const op = "storage.LoadEmail"
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var rec identityRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return rec.Email, nil
}

// SaveEmail перезаписывает сохранённый email.
func (s *FileStore) SaveEmail(_ context.Context, email string) error {
	const op = "storage.SaveEmail"
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(identityRecord{Email: email})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tmp, err := os.CreateTemp(dir, ".identity-*")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
