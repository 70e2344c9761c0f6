// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/storeledger/backend/internal/domain/entity"
)

// AlertNotifier delivers a digest of triggered alerts to an external channel
// (e-mail today). Delivery is best effort: the alerts are already part of the
// API response, the digest is a convenience.
type AlertNotifier interface {
	// SendDigest sends the alerts for the named period to the configured
	// recipient.
	SendDigest(ctx context.Context, periodLabel string, alerts []entity.Alert) error
}
