package events

import (
	"context"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func newPair(t *testing.T) (*NATSPublisher, *NATSSubscriber) {
	t.Helper()
	addr := startTestNATS(t)
	pub, err := NewNATSPublisher(addr)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	t.Cleanup(func() { _ = pub.Close() })
	sub, err := NewNATSSubscriber(addr)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	t.Cleanup(func() { _ = sub.Close() })
	return pub, sub
}

func TestNATSSubscriber_ReceivesMessages(t *testing.T) {
	pub, sub := newPair(t)

	ch, cancel, err := sub.Subscribe(AllSubjects)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	if err := pub.Publish(context.Background(), TopicJobCreated, map[string]int{"id": 1}); err != nil {
		t.Fatalf("publishing: %v", err)
	}

	select {
	case msg := <-ch:
		if msg.Subject != TopicJobCreated {
			t.Errorf("subject = %q", msg.Subject)
		}
		if string(msg.Data) != `{"id":1}` {
			t.Errorf("data = %q", msg.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestNATSSubscriber_WildcardTopicMatching(t *testing.T) {
	pub, sub := newPair(t)

	ch, cancel, err := sub.Subscribe(AllSubjects)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	topics := []string{TopicAgentCreated, TopicScriptCreated, TopicJobCreated}
	for _, topic := range topics {
		if err := pub.Publish(context.Background(), topic, struct{}{}); err != nil {
			t.Fatalf("publishing to %s: %v", topic, err)
		}
	}
	// Publishing outside the prefix must not be delivered.
	_ = pub.conn.Publish("other.agents.created", []byte(`{}`))
	_ = pub.conn.Flush()

	got := map[string]bool{}
	for i := range len(topics) {
		select {
		case msg := <-ch:
			got[msg.Subject] = true
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
	for _, topic := range topics {
		if !got[topic] {
			t.Errorf("missing %s", topic)
		}
	}
	select {
	case msg := <-ch:
		t.Errorf("unexpected message on %s", msg.Subject)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNATSSubscriber_Cancel(t *testing.T) {
	_, sub := newPair(t)

	ch, cancel, err := sub.Subscribe(AllSubjects)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}
}

func TestNATSSubscriber_CancelDuringMessages(t *testing.T) {
	pub, sub := newPair(t)

	ch, cancel, err := sub.Subscribe(AllSubjects)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = pub.conn.Publish(TopicJobCreated, []byte(`{}`))
		}
		_ = pub.conn.Flush()
	}()

	cancel()
	<-done

	for range ch {
	}
}

func TestNATSSubscriber_ReconnectHandlerOption(t *testing.T) {
	addr := startTestNATS(t)

	sub, err := NewNATSSubscriber(addr, nats.ReconnectHandler(func(*nats.Conn) {}))
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	if !sub.conn.IsConnected() {
		t.Fatal("expected subscriber to be connected")
	}
}

func TestNewNATSPublisher_BadURL(t *testing.T) {
	if _, err := NewNATSPublisher("nats://127.0.0.1:1", nats.MaxReconnects(0), nats.Timeout(100*time.Millisecond)); err == nil {
		t.Fatal("expected connection error")
	}
}
