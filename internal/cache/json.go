package cache

import (
	"context"
	"encoding/json"
)

// GetJSON decodes a cached value into out. Decode failures count as a miss.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	b, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}

	if err := json.Unmarshal(b, out); err != nil {
		_ = s.Delete(ctx, key)
		return false, nil
	}

	return true, nil
}

func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, b)
}
