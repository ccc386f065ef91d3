package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-photostudio-be/internal/dto"
	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/pkg/apperr"
	"ai-photostudio-be/internal/pkg/logger"
	"ai-photostudio-be/internal/pkg/mailer"
	"ai-photostudio-be/internal/repository/specification"
	"ai-photostudio-be/internal/repository/unitofwork"
	"ai-photostudio-be/pkg/events"
	"ai-photostudio-be/pkg/imagegen"
	pktNats "ai-photostudio-be/pkg/nats"
	"ai-photostudio-be/pkg/pricing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const providerTimeout = 120 * time.Second

type IGenerationService interface {
	EstimateCost(ctx context.Context, resolution string) (*dto.CostEstimateResponse, error)
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error)
	ListImages(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.GeneratedImageListResponse, error)
}

type generationService struct {
	uowFactory     unitofwork.RepositoryFactory
	genClient      imagegen.IClient
	pubSub         *gochannel.GoChannel
	persistTopic   string
	eventPublisher *pktNats.Publisher
	emailService   mailer.IEmailService
	logger         logger.ILogger
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	genClient imagegen.IClient,
	pubSub *gochannel.GoChannel,
	persistTopic string,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IGenerationService {
	return &generationService{
		uowFactory:     uowFactory,
		genClient:      genClient,
		pubSub:         pubSub,
		persistTopic:   persistTopic,
		eventPublisher: eventPublisher,
		emailService:   emailService,
		logger:         log,
	}
}

func (s *generationService) EstimateCost(_ context.Context, resolution string) (*dto.CostEstimateResponse, error) {
	credits, err := pricing.CreditsForResolution(resolution)
	if err != nil {
		return nil, err
	}
	return &dto.CostEstimateResponse{
		Resolution: resolution,
		Credits:    credits,
		Rupees:     pricing.RupeesForCredits(credits),
	}, nil
}

func (s *generationService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	credits, err := pricing.CreditsForResolution(req.Resolution)
	if err != nil {
		return nil, err
	}
	cost := pricing.RupeesForCredits(credits)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := findUserOrFail(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	// Fast-path rejection before the expensive provider call. The debit
	// below re-checks atomically, so this is advisory only.
	if user.WalletBalance.LessThan(cost) {
		return nil, &apperr.InsufficientBalanceError{Required: cost, Current: user.WalletBalance}
	}

	genCtx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	result, err := s.genClient.Generate(genCtx, imagegen.GenerateRequest{
		Prompt:    req.Prompt,
		ImageSize: req.Resolution,
		NumImages: req.NumImages,
	})
	if err != nil {
		s.logger.Error("GenerationService", "Provider call failed, no credits consumed", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", apperr.ErrGenerationFailed, err)
	}

	imageURLs := make([]string, 0, len(result.Images))
	for _, img := range result.Images {
		imageURLs = append(imageURLs, img.URL)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// Charge only after the provider succeeded. If the balance dropped
	// meanwhile, the debit fails and the result is not granted.
	newBalance, err := applyDebit(ctx, uow, userId, cost,
		fmt.Sprintf("Image generation %s (%d credits)", req.Resolution, credits))
	if err != nil {
		return nil, err
	}

	image := &entity.GeneratedImage{
		Id:             uuid.New(),
		UserId:         userId,
		Prompt:         req.Prompt,
		EnhancedPrompt: result.Prompt,
		ImageURL:       imageURLs[0],
		SourceURL:      imageURLs[0],
		Resolution:     req.Resolution,
		GenerationType: "product_photo",
		CreditsUsed:    credits,
		ProviderMeta: map[string]interface{}{
			"seed":       result.Seed,
			"image_urls": imageURLs,
			"num_images": req.NumImages,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.GeneratedImageRepository().Create(ctx, image); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("GenerationService", "Image generated and charged", map[string]interface{}{
		"user_id":       userId,
		"generation_id": image.Id,
		"resolution":    req.Resolution,
		"credits_used":  credits,
		"new_balance":   newBalance,
	})

	s.publishPersistJob(image.Id, imageURLs[0])
	s.publishEvents(ctx, user, image, newBalance)

	return &dto.GenerateImageResponse{
		GenerationId: image.Id,
		ImageURL:     image.ImageURL,
		CreditsUsed:  credits,
		NewBalance:   newBalance,
	}, nil
}

func (s *generationService) publishPersistJob(generationId uuid.UUID, sourceURL string) {
	if s.pubSub == nil {
		return
	}
	payload, err := json.Marshal(dto.PersistImageMessage{
		GenerationId: generationId,
		SourceURL:    sourceURL,
	})
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.persistTopic, msg); err != nil {
		s.logger.Warn("GenerationService", "Failed to enqueue persist job", map[string]interface{}{
			"generation_id": generationId,
			"error":         err.Error(),
		})
	}
}

func (s *generationService) publishEvents(ctx context.Context, user *entity.User, image *entity.GeneratedImage, newBalance decimal.Decimal) {
	if s.eventPublisher != nil {
		evt := events.New(events.TypeGenerationCompleted, map[string]interface{}{
			"user_id":       user.Id.String(),
			"generation_id": image.Id.String(),
			"resolution":    image.Resolution,
			"credits_used":  image.CreditsUsed,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("GenerationService", "Failed to publish generation event", map[string]interface{}{
				"generation_id": image.Id,
				"error":         err.Error(),
			})
		}
	}

	if !user.AutoRechargeEnabled || !newBalance.LessThan(user.AutoRechargeThreshold) {
		return
	}

	if s.emailService != nil {
		if err := s.emailService.SendLowBalanceAlert(user.Email, newBalance); err != nil {
			s.logger.Warn("GenerationService", "Failed to send low balance alert", map[string]interface{}{
				"user_id": user.Id,
				"error":   err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		lowEvt := events.New(events.TypeLowBalance, map[string]interface{}{
			"user_id":          user.Id.String(),
			"balance":          newBalance.StringFixed(2),
			"threshold":        user.AutoRechargeThreshold.StringFixed(2),
			"suggested_amount": user.AutoRechargeAmount.StringFixed(2),
		})
		if err := s.eventPublisher.Publish(ctx, lowEvt); err != nil {
			s.logger.Warn("GenerationService", "Failed to publish low balance event", map[string]interface{}{
				"user_id": user.Id,
				"error":   err.Error(),
			})
		}
	}
}

func (s *generationService) ListImages(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.GeneratedImageListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.GeneratedImageRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	images, err := uow.GeneratedImageRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.GeneratedImageResponse, 0, len(images))
	for _, img := range images {
		items = append(items, &dto.GeneratedImageResponse{
			Id:             img.Id,
			Prompt:         img.Prompt,
			EnhancedPrompt: img.EnhancedPrompt,
			ImageURL:       img.ImageURL,
			Resolution:     img.Resolution,
			GenerationType: img.GenerationType,
			CreditsUsed:    img.CreditsUsed,
			CreatedAt:      img.CreatedAt,
		})
	}

	return &dto.GeneratedImageListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}
