package interfaces

import (
	"context"

	"directChat/internal/models"
)

// MessageNotifier fans a confirmed insert out to whatever realtime transport
// is wired in. Both the REST and the socket send path go through it, so the
// receiver side has a single delivery stream to reconcile.
type MessageNotifier interface {
	NotifyMessageCreated(ctx context.Context, message *models.Message) error
}
