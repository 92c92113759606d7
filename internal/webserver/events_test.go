package webserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/talkincode/zcast/internal/domain"
)

func TestEventHubFanOut(t *testing.T) {
	hub := NewEventHub()

	ch1, cancel1 := hub.subscribe()
	ch2, cancel2 := hub.subscribe()
	defer cancel1()
	defer cancel2()

	hub.Publish(domain.StatusEvent{Status: domain.StatusSuccess, Redirect: "/chats"})

	for _, ch := range []chan domain.StatusEvent{ch1, ch2} {
		select {
		case evt := <-ch:
			assert.Equal(t, domain.StatusSuccess, evt.Status)
			assert.Equal(t, "/chats", evt.Redirect)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestEventHubCancelRemovesSubscriber(t *testing.T) {
	hub := NewEventHub()

	ch, cancel := hub.subscribe()
	cancel()

	hub.Publish(domain.StatusEvent{Status: domain.StatusWaiting})
	select {
	case <-ch:
		t.Fatal("cancelled subscriber still receives events")
	default:
	}
}

func TestEventHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewEventHub()

	_, cancel := hub.subscribe()
	defer cancel()

	// overrun the buffer; Publish must stay non-blocking
	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			hub.Publish(domain.StatusEvent{Status: domain.StatusWaiting})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on slow subscriber")
	}
}
