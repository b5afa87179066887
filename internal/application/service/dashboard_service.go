package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
)

const (
	dashboardRecent = 5
	dashboardDays   = 7
)

// DashboardService provides the home screen figures
type DashboardService struct {
	clientRepo  repository.ClientRepository
	paymentRepo repository.PaymentRepository
	saleRepo    repository.SaleRepository
	products    *ProductService
	payments    *PaymentService
	clock       Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
	saleRepo repository.SaleRepository,
	products *ProductService,
	payments *PaymentService,
	clock Clock,
) *DashboardService {
	return &DashboardService{
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		saleRepo:    saleRepo,
		products:    products,
		payments:    payments,
		clock:       clock,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	IncomeToday     int64            `json:"-"`
	IncomeMonth     int64            `json:"-"`
	ActiveClients   int64            `json:"active_clients"`
	TotalClients    int64            `json:"total_clients"`
	ProductCount    int64            `json:"product_count"`
	StockUnits      int64            `json:"stock_units"`
	LowStockCount   int64            `json:"low_stock_count"`
	ExpiringSoon    int              `json:"expiring_soon"`
	OutstandingDebt int64            `json:"-"`
	RecentPayments  []entity.Payment `json:"recent_payments"`
	RecentSales     []entity.Sale    `json:"recent_sales"`
	LastDays        []DailyPoint     `json:"last_days"`
}

func (d DashboardStats) MarshalJSON() ([]byte, error) {
	type Alias DashboardStats
	return json.Marshal(&struct {
		Alias
		IncomeToday     float64 `json:"income_today"`
		IncomeMonth     float64 `json:"income_month"`
		OutstandingDebt float64 `json:"outstanding_debt"`
	}{
		Alias:           Alias(d),
		IncomeToday:     fromCents(d.IncomeToday),
		IncomeMonth:     fromCents(d.IncomeMonth),
		OutstandingDebt: fromCents(d.OutstandingDebt),
	})
}

// GetDashboardStats returns dashboard statistics computed in the gym timezone
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := s.clock.Now()
	loc := s.clock.location()
	today := utils.StartOfDay(now, loc)
	tomorrow := today.AddDate(0, 0, 1)
	month := utils.StartOfMonth(now, loc)

	stats := &DashboardStats{}

	var err error
	if stats.IncomeToday, err = s.income(ctx, today, tomorrow); err != nil {
		return nil, err
	}
	if stats.IncomeMonth, err = s.income(ctx, month, month.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}

	clients, err := s.clientRepo.Stats(ctx, month.UTC())
	if err != nil {
		return nil, err
	}
	stats.ActiveClients = clients.Active
	stats.TotalClients = clients.Total

	products, err := s.products.Stats(ctx)
	if err != nil {
		return nil, err
	}
	stats.ProductCount = products.ActiveCount
	stats.StockUnits = products.TotalUnits
	stats.LowStockCount = products.LowStockCount

	expiring, err := s.payments.ListExpiring(ctx)
	if err != nil {
		return nil, err
	}
	stats.ExpiringSoon = len(expiring)

	if stats.OutstandingDebt, err = s.saleRepo.OutstandingSince(ctx, nil); err != nil {
		return nil, err
	}

	if stats.RecentPayments, err = s.paymentRepo.Recent(ctx, dashboardRecent); err != nil {
		return nil, err
	}
	if stats.RecentPayments == nil {
		stats.RecentPayments = []entity.Payment{}
	}
	if stats.RecentSales, err = s.saleRepo.Recent(ctx, dashboardRecent); err != nil {
		return nil, err
	}
	if stats.RecentSales == nil {
		stats.RecentSales = []entity.Sale{}
	}

	if stats.LastDays, err = s.lastDays(ctx, today); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *DashboardService) income(ctx context.Context, from, to time.Time) (int64, error) {
	payments, err := s.paymentRepo.SumInRange(ctx, from.UTC(), to.UTC())
	if err != nil {
		return 0, err
	}
	sales, err := s.saleRepo.SumInRange(ctx, from.UTC(), to.UTC())
	if err != nil {
		return 0, err
	}
	return payments + sales, nil
}

// lastDays is the income series for the week ending today
func (s *DashboardService) lastDays(ctx context.Context, today time.Time) ([]DailyPoint, error) {
	loc := s.clock.location()
	r := utils.DateRange{From: today.AddDate(0, 0, -(dashboardDays - 1)), To: today.AddDate(0, 0, 1)}

	payments, err := s.paymentRepo.ListInRange(ctx, r.From.UTC(), r.To.UTC())
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.ListInRange(ctx, r.From.UTC(), r.To.UTC())
	if err != nil {
		return nil, err
	}

	return dailySeries(r, payments, sales, loc), nil
}
