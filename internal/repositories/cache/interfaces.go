package cacherepo

import "context"

type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) CacheResponse[int64]
}

type CacheResponse[T any] interface {
	Err() error
	Result() (T, error)
}
