package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-inspire-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_DeliverWithoutWaiter(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.Deliver(42, "+15551234567"))
}

func TestCollector_DeliversExactlyOneReply(t *testing.T) {
	c := NewCollector()
	replies, cancel := c.Expect(42)
	defer cancel()

	require.True(t, c.Deliver(42, "first"))
	assert.False(t, c.Deliver(42, "second"), "waiter must be consumed by the first reply")
	assert.Equal(t, "first", <-replies)
}

func TestCollector_CancelReleasesWaiter(t *testing.T) {
	c := NewCollector()
	_, cancel := c.Expect(42)
	cancel()
	assert.False(t, c.Deliver(42, "late"))
}

func TestCollector_ExpectReplacesPreviousWaiter(t *testing.T) {
	c := NewCollector()
	_, cancelOld := c.Expect(42)
	replies, cancelNew := c.Expect(42)
	defer cancelNew()

	// cancelling the replaced waiter must not release the new one
	cancelOld()
	require.True(t, c.Deliver(42, "reply"))
	assert.Equal(t, "reply", <-replies)
}

func TestAwaitSingleReply_ReturnsDeliveredText(t *testing.T) {
	collector := NewCollector()
	g := NewGateway(nil, collector)

	done := make(chan struct{})
	var got string
	var err error
	go func() {
		got, err = g.AwaitSingleReply(context.Background(), "42", "42", time.Second)
		close(done)
	}()

	// wait for the waiter to register
	require.Eventually(t, func() bool {
		return collector.Deliver(42, "+15551234567")
	}, time.Second, 5*time.Millisecond)

	<-done
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", got)
}

func TestAwaitSingleReply_Timeout(t *testing.T) {
	g := NewGateway(nil, NewCollector())

	_, err := g.AwaitSingleReply(context.Background(), "42", "42", 10*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTimeout))
}

func TestAwaitSingleReply_ContextCancelled(t *testing.T) {
	g := NewGateway(nil, NewCollector())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.AwaitSingleReply(ctx, "42", "42", time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
