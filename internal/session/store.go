package session

import "context"

// Store persists the single current session in one named slot.
// Save overwrites any prior value. Load returns (nil, nil) when the
// slot is empty or its contents fail to deserialize; a corrupt record
// must read exactly like an absent one. Clear is a no-op when empty.
type Store interface {
	Save(ctx context.Context, s Session) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}
