package operator

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/application/pubsub"
	log "github.com/sirupsen/logrus"
)

func (s *service) AddWebhook(
	ctx context.Context, topic, endpoint, secret string,
) (string, error) {
	id, err := s.pubsub.AddWebhook(ctx, topic, endpoint, secret)
	if err != nil {
		return "", err
	}
	log.Debugf("webhook %s: registered for topic %s", id, topic)
	return id, nil
}

func (s *service) RemoveWebhook(ctx context.Context, id string) error {
	if err := s.pubsub.RemoveWebhook(ctx, id); err != nil {
		return err
	}
	log.Debugf("webhook %s: removed", id)
	return nil
}

func (s *service) ListWebhooks(
	ctx context.Context, topic string,
) ([]pubsub.Webhook, error) {
	return s.pubsub.ListWebhooks(ctx, topic)
}
