package gochannel

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub, sub, err := CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)
	assert.Same(t, pub, sub)

	defer pub.Close()

	messages, err := sub.Subscribe(ctx, "topic")
	require.NoError(t, err)

	require.NoError(t, pub.Publish("topic", message.NewMessage("1", []byte("payload"))))

	select {
	case msg := <-messages:
		assert.Equal(t, "payload", string(msg.Payload))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}
