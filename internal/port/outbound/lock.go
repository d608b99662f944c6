package outbound

import "context"

// KeyLockerPort serializes work on a key across concurrent requests.
type KeyLockerPort interface {
	// Lock blocks until the key is held or ctx is done.
	// The returned function releases the key and is safe to call once.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
