package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ai-photostudio-be/internal/dto"
	"ai-photostudio-be/internal/entity"
	"ai-photostudio-be/internal/pkg/apperr"
	"ai-photostudio-be/internal/pkg/logger"
	"ai-photostudio-be/internal/repository/specification"
	"ai-photostudio-be/internal/repository/unitofwork"
	"ai-photostudio-be/pkg/imagegen"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenClient struct {
	calls      int
	generateFn func(ctx context.Context, req imagegen.GenerateRequest) (*imagegen.GenerateResponse, error)
}

func (f *fakeGenClient) Generate(ctx context.Context, req imagegen.GenerateRequest) (*imagegen.GenerateResponse, error) {
	f.calls++
	return f.generateFn(ctx, req)
}

func okGenClient() *fakeGenClient {
	return &fakeGenClient{
		generateFn: func(_ context.Context, req imagegen.GenerateRequest) (*imagegen.GenerateResponse, error) {
			return &imagegen.GenerateResponse{
				Images: []imagegen.Image{
					{URL: "https://cdn.example.com/out.png", Width: 1024, Height: 1024, ContentType: "image/png"},
				},
				Seed:   42,
				Prompt: "professional studio photograph, softbox lighting, " + req.Prompt,
			}, nil
		},
	}
}

type fakeMailer struct {
	lowBalanceAlerts []string
}

func (f *fakeMailer) SendTopupReceipt(string, decimal.Decimal, int, int, decimal.Decimal) error {
	return nil
}

func (f *fakeMailer) SendLowBalanceAlert(toEmail string, _ decimal.Decimal) error {
	f.lowBalanceAlerts = append(f.lowBalanceAlerts, toEmail)
	return nil
}

func newGenerationService(t *testing.T, factory unitofwork.RepositoryFactory, client imagegen.IClient) IGenerationService {
	t.Helper()
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "generation_test.log"))
	return NewGenerationService(factory, client, nil, "PERSIST_GENERATED_IMAGE", nil, nil, log)
}

func TestGenerateChargesAfterProviderSuccess(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(100))
	client := okGenClient()
	svc := newGenerationService(t, factory, client)

	res, err := svc.Generate(context.Background(), user.Id, &dto.GenerateImageRequest{
		Prompt:     "studio shot of a leather handbag",
		Resolution: "2560x1440",
		NumImages:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 3, res.CreditsUsed)
	assert.Equal(t, "https://cdn.example.com/out.png", res.ImageURL)
	assert.True(t, decimal.NewFromInt(25).Equal(res.NewBalance))

	assert.True(t, decimal.NewFromInt(25).Equal(currentBalance(t, factory, user.Id)))

	rows := ledgerRows(t, factory, user.Id)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionTypeDeduct, rows[0].TransactionType)
	assert.True(t, decimal.NewFromInt(75).Equal(rows[0].Amount))

	uow := factory.NewUnitOfWork(context.Background())
	image, err := uow.GeneratedImageRepository().FindOne(context.Background(), specification.ByID{ID: res.GenerationId})
	require.NoError(t, err)
	require.NotNil(t, image)
	assert.Equal(t, user.Id, image.UserId)
	assert.Equal(t, 3, image.CreditsUsed)
	assert.Equal(t, "2560x1440", image.Resolution)
	assert.Equal(t, "professional studio photograph, softbox lighting, studio shot of a leather handbag", image.EnhancedPrompt)
	assert.Equal(t, "https://cdn.example.com/out.png", image.SourceURL)
}

func TestGenerateBelowThresholdSendsLowBalanceAlert(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(50))
	user.AutoRechargeEnabled = true
	user.AutoRechargeThreshold = decimal.NewFromInt(100)
	user.AutoRechargeAmount = decimal.NewFromInt(500)
	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.UserRepository().Update(context.Background(), user))

	mail := &fakeMailer{}
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "generation_test.log"))
	svc := NewGenerationService(factory, okGenClient(), nil, "PERSIST_GENERATED_IMAGE", nil, mail, log)

	_, err := svc.Generate(context.Background(), user.Id, &dto.GenerateImageRequest{
		Prompt:     "espresso cup on walnut",
		Resolution: "1024x1024",
		NumImages:  1,
	})
	require.NoError(t, err)

	require.Len(t, mail.lowBalanceAlerts, 1)
	assert.Equal(t, user.Email, mail.lowBalanceAlerts[0])
}

func TestGenerateFullHDFromHundred(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(100))
	svc := newGenerationService(t, factory, okGenClient())

	res, err := svc.Generate(context.Background(), user.Id, &dto.GenerateImageRequest{
		Prompt:     "sunglasses on white acrylic",
		Resolution: "1920x1080",
		NumImages:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.CreditsUsed)
	assert.True(t, decimal.NewFromInt(50).Equal(res.NewBalance))

	rows := ledgerRows(t, factory, user.Id)
	require.Len(t, rows, 1)
	assert.Equal(t, entity.TransactionTypeDeduct, rows[0].TransactionType)
	assert.True(t, decimal.NewFromInt(50).Equal(rows[0].Amount))
	assert.True(t, decimal.NewFromInt(50).Equal(rows[0].BalanceAfter))
}

func TestGenerateInsufficientBalanceSkipsProvider(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(20))
	client := okGenClient()
	svc := newGenerationService(t, factory, client)

	_, err := svc.Generate(context.Background(), user.Id, &dto.GenerateImageRequest{
		Prompt:     "white sneaker on marble",
		Resolution: "1024x1024",
		NumImages:  1,
	})
	require.Error(t, err)

	ib, ok := apperr.IsInsufficientBalance(err)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(25).Equal(ib.Required))
	assert.True(t, decimal.NewFromInt(20).Equal(ib.Current))

	assert.Equal(t, 0, client.calls, "provider must not be called when balance cannot cover the cost")
	assert.True(t, decimal.NewFromInt(20).Equal(currentBalance(t, factory, user.Id)))
	assert.Empty(t, ledgerRows(t, factory, user.Id))
}

func TestGenerateProviderFailureConsumesNothing(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(100))
	client := &fakeGenClient{
		generateFn: func(_ context.Context, _ imagegen.GenerateRequest) (*imagegen.GenerateResponse, error) {
			return nil, errors.New("upstream timeout")
		},
	}
	svc := newGenerationService(t, factory, client)

	_, err := svc.Generate(context.Background(), user.Id, &dto.GenerateImageRequest{
		Prompt:     "perfume bottle on silk",
		Resolution: "1920x1080",
		NumImages:  1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrGenerationFailed)

	assert.True(t, decimal.NewFromInt(100).Equal(currentBalance(t, factory, user.Id)))
	assert.Empty(t, ledgerRows(t, factory, user.Id))

	uow := factory.NewUnitOfWork(context.Background())
	count, countErr := uow.GeneratedImageRepository().Count(context.Background(), specification.UserOwnedBy{UserID: user.Id})
	require.NoError(t, countErr)
	assert.Equal(t, int64(0), count)
}

func TestGenerateRechecksBalanceAfterProviderCall(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(30))

	// Drain the wallet while the provider call is in flight. The fast-path
	// check passed with Rs 30, but the authoritative debit must still fail.
	client := &fakeGenClient{}
	client.generateFn = func(_ context.Context, req imagegen.GenerateRequest) (*imagegen.GenerateResponse, error) {
		uow := factory.NewUnitOfWork(context.Background())
		require.NoError(t, uow.Begin(context.Background()))
		_, err := applyDebit(context.Background(), uow, user.Id, decimal.NewFromInt(25), "concurrent generation")
		require.NoError(t, err)
		require.NoError(t, uow.Commit())
		return &imagegen.GenerateResponse{
			Images: []imagegen.Image{{URL: "https://cdn.example.com/race.png"}},
			Seed:   7,
			Prompt: req.Prompt,
		}, nil
	}

	genSvc := newGenerationService(t, factory, client)
	_, err := genSvc.Generate(context.Background(), user.Id, &dto.GenerateImageRequest{
		Prompt:     "watch on slate",
		Resolution: "1024x1024",
		NumImages:  1,
	})
	require.Error(t, err)
	_, ok := apperr.IsInsufficientBalance(err)
	assert.True(t, ok)

	// Only the concurrent debit landed.
	assert.True(t, decimal.NewFromInt(5).Equal(currentBalance(t, factory, user.Id)))
	assert.Len(t, ledgerRows(t, factory, user.Id), 1)
}

func TestGenerateRejectsUnsupportedResolution(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(100))
	client := okGenClient()
	svc := newGenerationService(t, factory, client)

	_, err := svc.Generate(context.Background(), user.Id, &dto.GenerateImageRequest{
		Prompt:     "anything",
		Resolution: "640x480",
		NumImages:  1,
	})
	assert.Error(t, err)
	assert.Equal(t, 0, client.calls)
}

func TestEstimateCost(t *testing.T) {
	factory, _ := newTestFactory(t)
	svc := newGenerationService(t, factory, okGenClient())

	res, err := svc.EstimateCost(context.Background(), "3840x2160")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Credits)
	assert.True(t, decimal.NewFromInt(125).Equal(res.Rupees))

	_, err = svc.EstimateCost(context.Background(), "100x100")
	assert.Error(t, err)
}

func TestListImagesPagination(t *testing.T) {
	factory, _ := newTestFactory(t)
	user := seedUser(t, factory, decimal.NewFromInt(500))
	svc := newGenerationService(t, factory, okGenClient())

	for i := 0; i < 3; i++ {
		_, err := svc.Generate(context.Background(), user.Id, &dto.GenerateImageRequest{
			Prompt:     "repeatable product shot",
			Resolution: "1024x1024",
			NumImages:  1,
		})
		require.NoError(t, err)
	}

	res, err := svc.ListImages(context.Background(), user.Id, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
	assert.Len(t, res.Items, 2)

	res, err = svc.ListImages(context.Background(), user.Id, 2, 2)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	other := seedUser(t, factory, decimal.Zero)
	res, err = svc.ListImages(context.Background(), other.Id, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)
	assert.Empty(t, res.Items)
}
