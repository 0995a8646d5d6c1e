package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"go_mes/internal/config"
)

func testMailer(queueSize int) *Mailer {
	logger := logrus.NewEntry(logrus.New())
	return NewMailer(config.MailConfig{
		Relays:    []string{"relay1.factory.local", "relay2.factory.local"},
		Port:      25,
		From:      "mes-portal@factory.local",
		QueueSize: queueSize,
	}, logger)
}

func TestMailer_FailoverToSecondRelay(t *testing.T) {
	m := testMailer(4)

	var mu sync.Mutex
	var attempts []string
	m.send = func(relay string, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		attempts = append(attempts, relay)
		if relay == "relay1.factory.local" {
			return errors.New("connection refused")
		}
		return nil
	}

	m.Start()
	m.Enqueue(Message{To: []string{"qa@factory.local"}, Subject: "test"})
	m.Stop()

	if len(attempts) != 2 {
		t.Fatalf("Expected 2 attempts, got %d", len(attempts))
	}
	if attempts[1] != "relay2.factory.local" {
		t.Errorf("Expected failover to second relay, got %v", attempts)
	}
}

func TestMailer_AllRelaysFailIsSwallowed(t *testing.T) {
	m := testMailer(4)
	m.send = func(relay string, msg Message) error {
		return errors.New("connection refused")
	}

	m.Start()
	m.Enqueue(Message{To: []string{"qa@factory.local"}, Subject: "test"})
	m.Stop() // must not panic or hang
}

func TestMailer_FullQueueDropsWithoutBlocking(t *testing.T) {
	m := testMailer(1)
	// Worker not started: the queue can hold one message, the second
	// must be dropped rather than block the caller.
	m.Enqueue(Message{Subject: "first"})
	m.Enqueue(Message{Subject: "second"}) // returns immediately, dropped

	if len(m.queue) != 1 {
		t.Errorf("Expected queue to hold 1 message, got %d", len(m.queue))
	}
}

func TestMailer_EmptyRecipientsSkipped(t *testing.T) {
	m := testMailer(4)

	called := false
	m.send = func(relay string, msg Message) error {
		called = true
		return nil
	}

	m.Start()
	m.Enqueue(Message{Subject: "no recipients"})
	m.Stop()

	if called {
		t.Error("Message with no recipients must not be sent")
	}
}
