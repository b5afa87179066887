package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/internal/infrastructure/database/dbtest"
	"github.com/sangkips/sparta-gym-api/internal/infrastructure/repository"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/email"
	"github.com/sangkips/sparta-gym-api/pkg/printer"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Tuesday 2026-03-10 15:00 UTC
var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

type fakePrinter struct {
	fail    error
	printed [][]byte
}

func (p *fakePrinter) Print(_ context.Context, data []byte) error {
	if p.fail != nil {
		return p.fail
	}
	p.printed = append(p.printed, data)
	return nil
}

func (p *fakePrinter) Kind() string                     { return "network" }
func (p *fakePrinter) IsConnected(context.Context) bool { return p.fail == nil }

var _ printer.Printer = (*fakePrinter)(nil)

type fakeMailer struct {
	enabled   bool
	fail      map[string]bool
	reminders []email.ReminderData
	resets    map[string]string
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) SendMembershipReminder(_ context.Context, data email.ReminderData) error {
	if m.fail[data.Email] {
		return errors.New("smtp: mailbox unavailable")
	}
	m.reminders = append(m.reminders, data)
	return nil
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, token string) error {
	if m.resets == nil {
		m.resets = make(map[string]string)
	}
	m.resets[to] = token
	return nil
}

// fixture wires every service on a private in-memory database
type fixture struct {
	db    *gorm.DB
	now   time.Time
	clock Clock

	settings   *SettingsService
	auth       *AuthService
	users      *UserService
	clients    *ClientService
	payments   *PaymentService
	reminders  *ReminderService
	products   *ProductService
	categories *CategoryService
	sales      *SaleService
	debts      *DebtService
	reports    *ReportService
	dashboard  *DashboardService
	printing   *PrinterService
	cleanup    *CleanupService

	printer *fakePrinter
	mailer  *fakeMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		db:      dbtest.NewDB(t),
		now:     fixedNow,
		printer: &fakePrinter{},
		mailer:  &fakeMailer{enabled: true},
	}
	f.clock = Clock{NowFunc: func() time.Time { return f.now }, Loc: time.UTC}

	userRepo := repository.NewUserRepository(f.db)
	roleRepo := repository.NewRoleRepository(f.db)
	permissionRepo := repository.NewPermissionRepository(f.db)
	clientRepo := repository.NewClientRepository(f.db)
	paymentRepo := repository.NewPaymentRepository(f.db)
	productRepo := repository.NewProductRepository(f.db)
	categoryRepo := repository.NewCategoryRepository(f.db)
	saleRepo := repository.NewSaleRepository(f.db)
	settingsRepo := repository.NewSettingsRepository(f.db)
	analyticsRepo := repository.NewAnalyticsRepository(f.db)
	idempotencyRepo := repository.NewIdempotencyRepository(f.db)
	resetRepo := repository.NewPasswordResetTokenRepository(f.db)

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	f.settings = NewSettingsService(settingsRepo)
	f.auth = NewAuthService(userRepo, resetRepo, jwtManager, f.mailer, f.clock)
	f.users = NewUserService(userRepo, roleRepo, permissionRepo)
	f.clients = NewClientService(clientRepo, paymentRepo, saleRepo, f.clock)
	f.payments = NewPaymentService(paymentRepo, clientRepo, f.settings, f.clock)
	f.reminders = NewReminderService(f.payments, f.settings, f.mailer, f.clock)
	f.products = NewProductService(productRepo, categoryRepo, f.settings)
	f.categories = NewCategoryService(categoryRepo, productRepo)
	f.sales = NewSaleService(saleRepo, productRepo, clientRepo, f.clock)
	f.debts = NewDebtService(saleRepo, f.clock)
	f.reports = NewReportService(paymentRepo, saleRepo, analyticsRepo, f.settings, f.clock)
	f.dashboard = NewDashboardService(clientRepo, paymentRepo, saleRepo, f.products, f.payments, f.clock)
	f.printing = NewPrinterService(f.printer, saleRepo, paymentRepo, userRepo, f.settings, f.clock, 32)
	f.cleanup = NewCleanupService(idempotencyRepo, resetRepo)

	return f
}

func (f *fixture) client(t *testing.T, name string) *entity.Client {
	t.Helper()
	c, err := f.clients.CreateClient(context.Background(), &ClientInput{Name: &name})
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, name string, price float64, stock int) *entity.Product {
	t.Helper()
	p, err := f.products.CreateProduct(context.Background(), &CreateProductInput{Name: name, Price: decimal.NewFromFloat(price), Stock: stock})
	require.NoError(t, err)
	return p
}

func (f *fixture) creditSale(t *testing.T, p *entity.Product, c *entity.Client, qty int, paid float64) *entity.Sale {
	t.Helper()
	sale, err := f.sales.CreateSale(context.Background(), &CreateSaleInput{
		ProductID:  p.ID,
		ClientID:   &c.ID,
		Quantity:   qty,
		Method:     enum.PaymentMethodCredit,
		AmountPaid: ptr(decimal.NewFromFloat(paid)),
	})
	require.NoError(t, err)
	return sale
}

func (f *fixture) membership(t *testing.T, c *entity.Client, typ enum.PaymentType, paidAt time.Time) *entity.Payment {
	t.Helper()
	p, err := f.payments.CreatePayment(context.Background(), &CreatePaymentInput{
		ClientID: c.ID,
		Type:     typ,
		PaidAt:   &paidAt,
	})
	require.NoError(t, err)
	return p
}

// assertAppError checks the HTTP status carried by err
func assertAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	appErr := assertAppError(t, err, http.StatusUnprocessableEntity)
	fields := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, field)
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestClockNowIsUTC(t *testing.T) {
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	c := Clock{NowFunc: func() time.Time { return fixedNow.In(lima) }, Loc: lima}
	assert.Equal(t, time.UTC, c.Now().Location())
	assert.True(t, c.Now().Equal(fixedNow))
	assert.Equal(t, lima, c.location())

	assert.Equal(t, time.UTC, Clock{}.location())
}

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(250), toCents(dec("2.5")))
	assert.Equal(t, int64(201), toCents(dec("2.005")))
	assert.Equal(t, int64(-13), toCents(dec("-0.125")))
	assert.Equal(t, int64(1_000_000_000), toCents(maxAmount))
	assert.False(t, amountTooLarge(maxAmount))
	assert.True(t, amountTooLarge(dec("1e300")))
}

func TestMoneyInputsAreBounded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	huge := dec("1e300")

	_, err := f.products.CreateProduct(ctx, &CreateProductInput{Name: "Oro", Price: huge})
	assertFieldError(t, err, "price")

	ana := f.client(t, "Ana Torres")
	_, err = f.payments.CreatePayment(ctx, &CreatePaymentInput{ClientID: ana.ID, Type: enum.PaymentTypeDaily, Amount: &huge})
	assertFieldError(t, err, "amount")

	_, err = f.settings.UpdateSettings(ctx, &UpdateSettingsInput{MonthlyPrice: &huge})
	assertFieldError(t, err, "monthly_price")

	whey := f.product(t, "Whey 2lb", 120, 4)
	sale := f.creditSale(t, whey, ana, 1, 0)
	_, err = f.debts.PayDebt(ctx, &PayDebtInput{SaleID: sale.ID, Amount: huge, Method: enum.PaymentMethodCash})
	assertFieldError(t, err, "amount")

	_, err = f.sales.CreateSale(ctx, &CreateSaleInput{
		ProductID: whey.ID, ClientID: &ana.ID, Quantity: 1, Method: enum.PaymentMethodCredit, AmountPaid: &huge,
	})
	assertFieldError(t, err, "amount_paid")
}
