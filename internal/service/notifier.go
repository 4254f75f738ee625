package service

import (
	"go.uber.org/zap"

	"github.com/mintly/mintly-api/internal/domain"
)

type MessagePublisher interface {
	Publish(routingKey string, payload any) error
}

type FeedBroadcaster interface {
	Broadcast(ev domain.LedgerEvent)
}

// Notifier fans committed ledger events out to the message broker and the
// live feed. Either sink may be nil.
type Notifier struct {
	publisher MessagePublisher
	feed      FeedBroadcaster
}

func NewNotifier(publisher MessagePublisher, feed FeedBroadcaster) *Notifier {
	return &Notifier{
		publisher: publisher,
		feed:      feed,
	}
}

func (n *Notifier) Notify(ev domain.LedgerEvent) {
	if n == nil {
		return
	}

	if n.feed != nil {
		n.feed.Broadcast(ev)
	}

	if n.publisher != nil {
		if err := n.publisher.Publish(ev.Kind, ev); err != nil {
			zap.L().Warn("failed to publish ledger event",
				zap.String("kind", ev.Kind),
				zap.Stringer("event_id", ev.EventID),
				zap.Error(err),
			)
		}
	}
}
