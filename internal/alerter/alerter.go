// Package alerter fans detection findings out to the configured notifiers.
package alerter

import (
	"log"
	"strings"
	"sync"

	"FlowScope/internal/config"
	"FlowScope/internal/model"
	"FlowScope/internal/notification"
)

// Alerter forwards detection findings to every configured notifier. Delivery
// failures are logged, never surfaced to the triggering operation.
type Alerter struct {
	notifiers []model.Notifier
}

// New builds an Alerter from the alerting configuration. It returns nil when
// alerting is disabled or no notifier is configured; a nil Alerter is safe
// to use and dispatches nothing.
func New(cfg config.AlertsConfig) (*Alerter, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var notifiers []model.Notifier
	if cfg.SMTP.Host != "" {
		notifiers = append(notifiers, notification.NewEmailNotifier(cfg.SMTP))
	}
	if cfg.NATS.URL != "" {
		n, err := notification.NewNATSNotifier(cfg.NATS)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}
	if len(notifiers) == 0 {
		log.Println("Alerting is enabled in config, but no notifiers are configured.")
		return nil, nil
	}
	return &Alerter{notifiers: notifiers}, nil
}

// Dispatch sends the finding lines to all notifiers concurrently and waits
// for delivery to finish.
func (a *Alerter) Dispatch(subject string, lines []string) {
	if a == nil || len(lines) == 0 {
		return
	}
	body := strings.Join(lines, "\n")

	var wg sync.WaitGroup
	for _, n := range a.notifiers {
		wg.Add(1)
		go func(n model.Notifier) {
			defer wg.Done()
			if err := n.Send(subject, body); err != nil {
				log.Printf("failed to deliver alert %q: %v", subject, err)
			}
		}(n)
	}
	wg.Wait()
}
