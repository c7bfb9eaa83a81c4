package busrepo

import (
	"context"
	cacherepo "docproxy/internal/repositories/cache"
	"encoding/json"
	"fmt"
)

const pkg = "busRepo/"

type repository struct {
	publisher     cacherepo.Publisher
	channelPrefix string
}

func New(publisher cacherepo.Publisher, channelPrefix string) *repository {
	return &repository{
		publisher:     publisher,
		channelPrefix: channelPrefix,
	}
}

func (r *repository) Publish(ctx context.Context, event string, payload any) error {
	op := pkg + "Publish"

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	channel := r.channelPrefix + event

	if err := r.publisher.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
