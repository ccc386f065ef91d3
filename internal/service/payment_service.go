package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"time"

	"ai-photostudio-be/internal/dto"
	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/pkg/apperr"
	"ai-photostudio-be/internal/pkg/logger"
	"ai-photostudio-be/internal/pkg/mailer"
	"ai-photostudio-be/internal/repository/specification"
	"ai-photostudio-be/internal/repository/unitofwork"
	"ai-photostudio-be/pkg/events"
	pktNats "ai-photostudio-be/pkg/nats"
	"ai-photostudio-be/pkg/pricing"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// topupPresets are the amounts surfaced to the frontend. Custom amounts are
// still accepted by CreateTopup.
var topupPresets = []int64{500, 1000, 2500, 5000}

type IPaymentService interface {
	GetTopupOptions(ctx context.Context) []*dto.TopupOptionResponse
	CreateTopup(ctx context.Context, userId uuid.UUID, req *dto.TopupRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	emailService   mailer.IEmailService
	logger         logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		emailService:   emailService,
		logger:         log,
	}
}

func (s *paymentService) GetTopupOptions(_ context.Context) []*dto.TopupOptionResponse {
	options := make([]*dto.TopupOptionResponse, 0, len(topupPresets))
	for _, amount := range topupPresets {
		amt := decimal.NewFromInt(amount)
		options = append(options, &dto.TopupOptionResponse{
			Amount:       amt,
			BaseCredits:  pricing.CreditsForRupees(amt),
			BonusCredits: pricing.BonusCreditsForTopup(amt),
		})
	}
	return options
}

func (s *paymentService) CreateTopup(ctx context.Context, userId uuid.UUID, req *dto.TopupRequest) (*dto.CheckoutResponse, error) {
	minAmount := decimal.NewFromInt(pricing.CreditPriceRupees)
	if req.Amount.LessThan(minAmount) {
		return nil, fmt.Errorf("topup amount must be at least Rs %s", minAmount.StringFixed(0))
	}
	if !req.Amount.Equal(req.Amount.Truncate(0)) {
		return nil, errors.New("topup amount must be a whole rupee value")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := findUserOrFail(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	orderId := uuid.New()
	order := &entity.TopupOrder{
		Id:           orderId,
		UserId:       userId,
		Amount:       req.Amount,
		BaseCredits:  pricing.CreditsForRupees(req.Amount),
		BonusCredits: pricing.BonusCreditsForTopup(req.Amount),
		Status:       entity.TopupOrderStatusPending,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.TopupOrderRepository().Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create topup order: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// External call stays outside the DB transaction.
	var sClient snap.Client
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	sClient.New(serverKey, env)

	frontendURL := os.Getenv("FRONTEND_URL")
	finishRedirectURL := fmt.Sprintf("%s/app/wallet?payment=success", frontendURL)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId.String(),
			GrossAmt: req.Amount.IntPart(),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishRedirectURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.FullName,
			Email: user.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "wallet-topup",
				Price: req.Amount.IntPart(),
				Qty:   1,
				Name:  fmt.Sprintf("Wallet Topup (%d credits)", order.BaseCredits),
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	s.logger.Info("PaymentService", "Topup checkout created", map[string]interface{}{
		"order_id": orderId,
		"user_id":  userId,
		"amount":   req.Amount,
	})

	return &dto.CheckoutResponse{
		OrderId:         orderId,
		SnapRedirectUrl: snapResp.RedirectURL,
		SnapToken:       snapResp.Token,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return errors.New("server configuration error")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(req.SignatureKey)) != 1 {
		s.logger.Warn("PaymentService", "Webhook signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return apperr.ErrInvalidSignature
	}

	orderId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return fmt.Errorf("invalid order id format: %s", req.OrderId)
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		err := s.settleOrder(ctx, orderId)
		if errors.Is(err, apperr.ErrDuplicateEvent) {
			// Gateways redeliver; an already-applied event is acked as success.
			s.logger.Info("PaymentService", "Duplicate payment event, ledger untouched", map[string]interface{}{
				"order_id": req.OrderId,
			})
			return nil
		}
		return err
	case "deny", "cancel", "expire":
		return s.failOrder(ctx, orderId)
	case "pending":
		return nil
	default:
		s.logger.Info("PaymentService", "Ignoring webhook status", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return nil
	}
}

func (s *paymentService) settleOrder(ctx context.Context, orderId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	order, err := uow.TopupOrderRepository().FindOne(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("topup order not found: %s", orderId)
	}
	if order.Status == entity.TopupOrderStatusSettled {
		return apperr.ErrDuplicateEvent
	}

	// Idempotency guard: a prior delivery may have written the ledger rows
	// even if the order status update raced. The gateway_ref unique index
	// is the authority; this lookup just avoids a doomed insert.
	gatewayRef := orderId.String()
	existing, err := uow.WalletTransactionRepository().FindOne(ctx, specification.ByGatewayRef{Ref: gatewayRef})
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.ErrDuplicateEvent
	}

	user, err := findUserOrFail(ctx, uow, order.UserId)
	if err != nil {
		return err
	}

	newBalance, err := applyCredit(ctx, uow, order.UserId, order.Amount,
		entity.TransactionTypeTopup, &gatewayRef,
		fmt.Sprintf("Wallet topup (%d credits)", order.BaseCredits))
	if err != nil {
		// The unique index on gateway_ref is the authority for races the
		// lookup above cannot see.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrDuplicateEvent
		}
		return err
	}

	if order.BonusCredits > 0 {
		bonusRef := gatewayRef + ":bonus"
		bonusAmount := pricing.RupeesForCredits(order.BonusCredits)
		newBalance, err = applyCredit(ctx, uow, order.UserId, bonusAmount,
			entity.TransactionTypeBonus, &bonusRef,
			fmt.Sprintf("Topup bonus (%d credits)", order.BonusCredits))
		if err != nil {
			return err
		}
	}

	order.Status = entity.TopupOrderStatusSettled
	order.UpdatedAt = time.Now()
	if err := uow.TopupOrderRepository().Update(ctx, order); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("PaymentService", "Topup settled", map[string]interface{}{
		"order_id":      orderId,
		"user_id":       order.UserId,
		"amount":        order.Amount,
		"base_credits":  order.BaseCredits,
		"bonus_credits": order.BonusCredits,
		"new_balance":   newBalance,
	})

	if s.emailService != nil {
		if err := s.emailService.SendTopupReceipt(user.Email, order.Amount, order.BaseCredits, order.BonusCredits, newBalance); err != nil {
			s.logger.Warn("PaymentService", "Failed to send topup receipt", map[string]interface{}{
				"order_id": orderId,
				"error":    err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		evt := events.New(events.TypeTopupSettled, map[string]interface{}{
			"user_id":       order.UserId.String(),
			"order_id":      orderId.String(),
			"amount":        order.Amount.StringFixed(2),
			"base_credits":  order.BaseCredits,
			"bonus_credits": order.BonusCredits,
			"new_balance":   newBalance.StringFixed(2),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("PaymentService", "Failed to publish topup event", map[string]interface{}{
				"order_id": orderId,
				"error":    err.Error(),
			})
		}
	}

	return nil
}

func (s *paymentService) failOrder(ctx context.Context, orderId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.TopupOrderRepository().FindOne(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("topup order not found: %s", orderId)
	}
	if order.Status != entity.TopupOrderStatusPending {
		return nil
	}

	order.Status = entity.TopupOrderStatusFailed
	order.UpdatedAt = time.Now()
	if err := uow.TopupOrderRepository().Update(ctx, order); err != nil {
		return err
	}

	s.logger.Info("PaymentService", "Topup marked failed", map[string]interface{}{
		"order_id": orderId,
	})
	return nil
}
