package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ai-photostudio-be/internal/dto"
	"ai-photostudio-be/internal/repository/specification"
	"ai-photostudio-be/internal/repository/unitofwork"
	"ai-photostudio-be/pkg/blobstore"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ImageFetcher downloads image bytes from the provider CDN.
type ImageFetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the persist-image pipeline: provider URLs expire, so
// each generated image is copied onto our own storage shortly after creation.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	fetcher    ImageFetcher
	store      blobstore.Store
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	fetcher ImageFetcher,
	store blobstore.Store,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		fetcher:    fetcher,
		store:      store,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PersistImageMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal persist message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	image, err := uow.GeneratedImageRepository().FindOne(ctx, specification.ByID{ID: payload.GenerationId})
	if err != nil {
		log.Printf("[ERROR] Failed to load generated image %s: %v", payload.GenerationId, err)
		msg.Nack()
		return
	}
	if image == nil {
		log.Printf("[WARN] Generated image not found, skipping: %s", payload.GenerationId)
		msg.Ack()
		return
	}

	data, err := cs.fetcher.Download(ctx, payload.SourceURL)
	if err != nil {
		log.Printf("[ERROR] Failed to download image %s: %v", payload.GenerationId, err)
		msg.Nack() // Retriable, the provider URL may still be warming up
		return
	}

	name := fmt.Sprintf("%s.png", payload.GenerationId)
	hostedURL, err := cs.store.Put(ctx, name, data)
	if err != nil {
		log.Printf("[ERROR] Failed to store image %s: %v", payload.GenerationId, err)
		msg.Nack()
		return
	}

	// Only the asset reference moves; SourceURL keeps the provider original
	// and the accounting fields stay as written at generation time.
	image.ImageURL = hostedURL
	image.SourceURL = payload.SourceURL

	if err := uow.GeneratedImageRepository().Update(ctx, image); err != nil {
		log.Printf("[ERROR] Failed to update image URL %s: %v", payload.GenerationId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Image persisted: %s -> %s", payload.GenerationId, hostedURL)
	msg.Ack()
}
