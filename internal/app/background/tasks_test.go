package background

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	msgs  chan domain.Message
	topic string
	group string
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, topic, groupID string) (<-chan domain.Message, error) {
	f.topic, f.group = topic, groupID
	return f.msgs, nil
}

func TestConsumeStakeEvents(t *testing.T) {
	store := memory.NewStore()
	stakes := memory.NewStakeRegistry(store, 100)
	sub := &fakeSubscriber{msgs: make(chan domain.Message, 4)}
	bt := NewBackgroundTasks(nil, nil, nil, sub, stakes, "escrow-stakes", Intervals{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	sub.msgs <- domain.Message{Key: []byte("alice"), Value: []byte(`{"account":"alice","amount":450}`)}
	sub.msgs <- domain.Message{Key: []byte("broken"), Value: []byte(`{not json`)}
	sub.msgs <- domain.Message{Key: []byte("bob"), Value: []byte(`{"account":"bob","amount":50}`)}
	close(sub.msgs)

	require.NoError(t, bt.consumeStakeEvents(context.Background()))
	assert.Equal(t, "stake-events", sub.topic)
	assert.Equal(t, "escrow-stakes", sub.group)

	weight, err := stakes.VoteWeight(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), weight)

	weight, err = stakes.VoteWeight(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), weight, "weight never drops below one")
}
