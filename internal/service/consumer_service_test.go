package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"ai-photostudio-be/internal/dto"
	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/repository/specification"
	"ai-photostudio-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) Download(_ context.Context, _ string) ([]byte, error) {
	return f.data, f.err
}

type fakeStore struct {
	puts int
}

func (f *fakeStore) Put(_ context.Context, name string, _ []byte) (string, error) {
	f.puts++
	return "http://localhost:8080/uploads/" + name, nil
}

func seedGeneratedImage(t *testing.T, factory unitofwork.RepositoryFactory, userId uuid.UUID) *entity.GeneratedImage {
	t.Helper()

	image := &entity.GeneratedImage{
		Id:             uuid.New(),
		UserId:         userId,
		Prompt:         "ceramic mug on oak table",
		ImageURL:       "https://cdn.example.com/tmp.png",
		Resolution:     "1024x1024",
		GenerationType: "product_photo",
		CreditsUsed:    1,
		CreatedAt:      time.Now(),
	}

	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.GeneratedImageRepository().Create(context.Background(), image))
	return image
}

func publishPersist(t *testing.T, pubSub *gochannel.GoChannel, topic string, payload dto.PersistImageMessage) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), body)))
}

func TestConsumerPersistsImage(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.Zero)
	image := seedGeneratedImage(t, factory, user.Id)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	topic := "PERSIST_GENERATED_IMAGE"
	store := &fakeStore{}
	svc := NewConsumerService(pubSub, topic, factory, &fakeFetcher{data: []byte("png-bytes")}, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Consume(ctx))

	publishPersist(t, pubSub, topic, dto.PersistImageMessage{
		GenerationId: image.Id,
		SourceURL:    "https://cdn.example.com/tmp.png",
	})

	wantURL := fmt.Sprintf("http://localhost:8080/uploads/%s.png", image.Id)
	assert.Eventually(t, func() bool {
		uow := factory.NewUnitOfWork(context.Background())
		updated, err := uow.GeneratedImageRepository().FindOne(context.Background(), specification.ByID{ID: image.Id})
		if err != nil || updated == nil {
			return false
		}
		return updated.ImageURL == wantURL
	}, 3*time.Second, 20*time.Millisecond)

	uow := factory.NewUnitOfWork(context.Background())
	updated, err := uow.GeneratedImageRepository().FindOne(context.Background(), specification.ByID{ID: image.Id})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "https://cdn.example.com/tmp.png", updated.SourceURL)
	assert.Equal(t, "ceramic mug on oak table", updated.Prompt)
	assert.Equal(t, 1, updated.CreditsUsed)
	assert.Equal(t, 1, store.puts)
}

func TestConsumerSkipsUnknownGeneration(t *testing.T) {
	factory, _ := newTestFactory(t)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	topic := "PERSIST_GENERATED_IMAGE"
	store := &fakeStore{}
	svc := NewConsumerService(pubSub, topic, factory, &fakeFetcher{data: []byte("png-bytes")}, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Consume(ctx))

	publishPersist(t, pubSub, topic, dto.PersistImageMessage{
		GenerationId: uuid.New(),
		SourceURL:    "https://cdn.example.com/ghost.png",
	})

	// The message is acked without ever touching storage.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, store.puts)
}
