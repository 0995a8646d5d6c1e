package notify

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"go_mes/internal/config"
)

// Message is one outbound email.
type Message struct {
	To       []string
	Subject  string
	HTMLBody string
}

// Enqueuer accepts messages for eventual delivery. Handlers and workers
// depend on this interface so tests can capture enqueued mail.
type Enqueuer interface {
	Enqueue(msg Message)
}

// Mailer delivers messages over unauthenticated internal SMTP relays.
// Dispatch is fire-and-forget: enqueue never blocks the caller, failures
// are logged and never retried (at-most-once delivery).
type Mailer struct {
	relays []string
	port   int
	from   string
	queue  chan Message
	done   chan struct{}
	logger *logrus.Entry

	// send is swapped out in tests
	send func(relay string, msg Message) error
}

// NewMailer creates a mailer from config
func NewMailer(cfg config.MailConfig, logger *logrus.Entry) *Mailer {
	m := &Mailer{
		relays: cfg.Relays,
		port:   cfg.Port,
		from:   cfg.From,
		queue:  make(chan Message, cfg.QueueSize),
		done:   make(chan struct{}),
		logger: logger.WithField("component", "mailer"),
	}
	m.send = m.sendSMTP
	return m
}

// Start launches the dispatch goroutine
func (m *Mailer) Start() {
	go func() {
		defer close(m.done)
		for msg := range m.queue {
			m.deliver(msg)
		}
	}()
	m.logger.Infof("Mailer started with %d relay(s)", len(m.relays))
}

// Stop drains the queue and waits for in-flight delivery
func (m *Mailer) Stop() {
	close(m.queue)
	<-m.done
}

// Enqueue queues a message without blocking. A full queue drops the
// message with a log line; mail latency or failure must never affect
// the request that triggered it.
func (m *Mailer) Enqueue(msg Message) {
	select {
	case m.queue <- msg:
	default:
		m.logger.Warnf("Mail queue full, dropping message %q to %v", msg.Subject, msg.To)
	}
}

// deliver tries each relay in order until one accepts the message.
func (m *Mailer) deliver(msg Message) {
	if len(msg.To) == 0 {
		return
	}
	if len(m.relays) == 0 {
		m.logger.Warnf("No mail relays configured, dropping message %q", msg.Subject)
		return
	}
	for _, relay := range m.relays {
		if err := m.send(relay, msg); err != nil {
			m.logger.Warnf("Relay %s rejected message %q: %v", relay, msg.Subject, err)
			continue
		}
		return
	}
	m.logger.Errorf("All relays failed for message %q to %v", msg.Subject, msg.To)
}

func (m *Mailer) sendSMTP(relay string, msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTMLBody)

	d := gomail.Dialer{Host: relay, Port: m.port}
	if err := d.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
