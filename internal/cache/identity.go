package cache

import (
	"context"
	"fmt"
)

// IdentityStore хранит email пользователя под одним ключом redis.
type IdentityStore struct {
	cache *Cache
	key   string
}

// NewIdentityStore создаёт хранилище email поверх кеша.
func NewIdentityStore(c *Cache, key string) *IdentityStore {
	return &IdentityStore{cache: c, key: key}
}

// LoadEmail возвращает сохранённый email или пустую строку.
func (s *IdentityStore) LoadEmail(ctx context.Context) (string, error) {
	const op = "cache.LoadEmail"
	var email string
	if _, err := s.cache.Get(ctx, s.key, &email); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return email, nil
}

// SaveEmail сохраняет email без срока жизни.
func (s *IdentityStore) SaveEmail(ctx context.Context, email string) error {
	const op = "cache.SaveEmail"
	if err := s.cache.Set(ctx, s.key, email, 0); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
