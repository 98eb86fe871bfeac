// Package mail declares the outbound email capability the token managers call.
// Delivery itself is an external concern; the default implementation only logs.
package mail

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Dispatcher sends a single message to one recipient.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogDispatcher is a stand-in dispatcher that records messages through the
// structured logger. Swapped for a real SMTP client in deployments.
type LogDispatcher struct {
	logger *zap.Logger
	from   string
}

// NewLogDispatcher builds the logging dispatcher.
func NewLogDispatcher(logger *zap.Logger, from string) *LogDispatcher {
	return &LogDispatcher{logger: logger, from: from}
}

// Send logs the outbound message. Bodies carry token links, so only a preview
// is logged above debug level.
func (d *LogDispatcher) Send(_ context.Context, to, subject, body string) error {
	preview := body
	if idx := strings.IndexByte(preview, '\n'); idx >= 0 {
		preview = preview[:idx]
	}
	d.logger.Info("mail dispatched",
		zap.String("from", d.from),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("preview", preview))
	d.logger.Debug("mail body", zap.String("body", body))
	return nil
}
