package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuizEvent(t *testing.T) {
	event := NewQuizEvent(EventQuizCompleted, QuizCompletedEvent{
		UserID:    "user-1",
		QuizSetID: "mcpa-level-1",
		Score:     80,
	})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventQuizCompleted, event.Type)
	assert.Equal(t, "quiz-service", event.Source)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Minute)
}

func TestChannelPublisher_PublishSubscribe(t *testing.T) {
	publisher := NewChannelPublisher("quiz.events", slog.Default())
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := publisher.Subscribe(ctx)
	require.NoError(t, err)

	event := NewQuizEvent(EventProgressSaved, ProgressSavedEvent{
		UserID:    "user-1",
		QuizSetID: "mcpa-level-1",
		Cursor:    2,
	})
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case msg := <-messages:
		var received QuizEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &received))
		assert.Equal(t, event.ID, received.ID)
		assert.Equal(t, EventProgressSaved, received.Type)
		assert.Equal(t, string(EventProgressSaved), msg.Metadata.Get("event_type"))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for published event")
	}
}

func TestMockPublisher_RecordsEvents(t *testing.T) {
	publisher := NewMockPublisher()
	defer publisher.Close()

	ctx := context.Background()
	require.NoError(t, publisher.Publish(ctx, NewQuizEvent(EventQuestionUpserted, QuestionUpsertedEvent{QuizSetID: "s", QuestionID: "q", Created: true})))
	require.NoError(t, publisher.Publish(ctx, NewQuizEvent(EventQuestionDeleted, QuestionDeletedEvent{QuizSetID: "s", QuestionID: "q"})))

	published := publisher.PublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, EventQuestionUpserted, published[0].Type)
	assert.Equal(t, EventQuestionDeleted, published[1].Type)
}
