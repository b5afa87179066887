package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
)

const (
	reportTopProducts  = 5
	uncategorizedLabel = "Otros"
)

// ReportService builds income reports over a date range
type ReportService struct {
	paymentRepo   repository.PaymentRepository
	saleRepo      repository.SaleRepository
	analyticsRepo repository.AnalyticsRepository
	settings      *SettingsService
	clock         Clock
}

// NewReportService creates a new report service
func NewReportService(
	paymentRepo repository.PaymentRepository,
	saleRepo repository.SaleRepository,
	analyticsRepo repository.AnalyticsRepository,
	settings *SettingsService,
	clock Clock,
) *ReportService {
	return &ReportService{
		paymentRepo:   paymentRepo,
		saleRepo:      saleRepo,
		analyticsRepo: analyticsRepo,
		settings:      settings,
		clock:         clock,
	}
}

// ReportRange selects the report period. From and To are inclusive
// YYYY-MM-DD days; when both are empty Preset decides (default month).
type ReportRange struct {
	From   string
	To     string
	Preset string
}

// DailyPoint is one day of the income series
type DailyPoint struct {
	Date     string `json:"date"`
	Payments int64  `json:"-"`
	Sales    int64  `json:"-"`
}

func (d DailyPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Date     string  `json:"date"`
		Payments float64 `json:"payments"`
		Sales    float64 `json:"sales"`
		Total    float64 `json:"total"`
	}{d.Date, fromCents(d.Payments), fromCents(d.Sales), fromCents(d.Payments + d.Sales)})
}

// CategoryTotal is sales revenue for one product category
type CategoryTotal struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Name       string     `json:"name"`
	Quantity   int64      `json:"quantity"`
	Count      int64      `json:"count"`
	Total      int64      `json:"-"`
}

func (c CategoryTotal) MarshalJSON() ([]byte, error) {
	type Alias CategoryTotal
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
	}{Alias(c), fromCents(c.Total)})
}

// ProductTotal is sales revenue for one product
type ProductTotal struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Quantity  int64     `json:"quantity"`
	Revenue   int64     `json:"-"`
}

func (p ProductTotal) MarshalJSON() ([]byte, error) {
	type Alias ProductTotal
	return json.Marshal(&struct {
		Alias
		Revenue float64 `json:"revenue"`
	}{Alias(p), fromCents(p.Revenue)})
}

// Report is the income summary of a period
type Report struct {
	GymName       string           `json:"gym_name"`
	Currency      string           `json:"currency"`
	From          string           `json:"from"`
	To            string           `json:"to"`
	GeneratedAt   time.Time        `json:"generated_at"`
	Payments      []entity.Payment `json:"payments"`
	Sales         []entity.Sale    `json:"sales"`
	TotalPayments int64            `json:"-"`
	TotalSales    int64            `json:"-"`
	Daily         []DailyPoint     `json:"daily"`
	ByType        []TypeSummary    `json:"by_type"`
	ByCategory    []CategoryTotal  `json:"by_category"`
	TopProducts   []ProductTotal   `json:"top_products"`
}

// TotalGeneral is membership income plus sales
func (r *Report) TotalGeneral() int64 {
	return r.TotalPayments + r.TotalSales
}

func (r Report) MarshalJSON() ([]byte, error) {
	type Alias Report
	return json.Marshal(&struct {
		Alias
		TotalPayments float64 `json:"total_payments"`
		TotalSales    float64 `json:"total_sales"`
		TotalGeneral  float64 `json:"total_general"`
	}{
		Alias:         Alias(r),
		TotalPayments: fromCents(r.TotalPayments),
		TotalSales:    fromCents(r.TotalSales),
		TotalGeneral:  fromCents(r.TotalGeneral()),
	})
}

// Summary computes the report for a range. Cancelled sales are excluded and
// credit sales count with their full total.
func (s *ReportService) Summary(ctx context.Context, rng ReportRange) (*Report, error) {
	loc := s.clock.location()
	now := s.clock.Now()

	r, err := utils.ResolveRange(rng.From, rng.To, rng.Preset, now, loc)
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}
	from, to := r.From.UTC(), r.To.UTC()

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	categories, err := s.analyticsRepo.GetSalesByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}
	top, err := s.analyticsRepo.GetTopProducts(ctx, from, to, reportTopProducts)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GymName:     settings.GymName,
		Currency:    settings.Currency,
		From:        r.From.Format(utils.DateLayout),
		To:          r.LastDay().Format(utils.DateLayout),
		GeneratedAt: now,
		Payments:    payments,
		Sales:       sales,
		ByCategory:  make([]CategoryTotal, 0, len(categories)),
		TopProducts: make([]ProductTotal, 0, len(top)),
	}
	if report.Payments == nil {
		report.Payments = []entity.Payment{}
	}
	if report.Sales == nil {
		report.Sales = []entity.Sale{}
	}

	report.Daily = dailySeries(r, payments, sales, loc)

	var byType []repository.PaymentTypeTotal
	typeRow := make(map[enum.PaymentType]int)
	for _, p := range payments {
		report.TotalPayments += p.Amount
		j, ok := typeRow[p.Type]
		if !ok {
			j = len(byType)
			typeRow[p.Type] = j
			byType = append(byType, repository.PaymentTypeTotal{Type: p.Type})
		}
		byType[j].Total += p.Amount
		byType[j].Count++
	}
	report.ByType = summarizeTypes(byType).ByType

	for _, sale := range sales {
		report.TotalSales += sale.Total
	}

	for _, c := range categories {
		name := c.CategoryName
		if c.CategoryID == nil || name == "" {
			name = uncategorizedLabel
		}
		report.ByCategory = append(report.ByCategory, CategoryTotal{
			CategoryID: c.CategoryID,
			Name:       name,
			Quantity:   c.Quantity,
			Count:      c.SaleCount,
			Total:      c.Total,
		})
	}
	for _, p := range top {
		report.TopProducts = append(report.TopProducts, ProductTotal{
			ProductID: p.ProductID,
			Name:      p.ProductName,
			Code:      p.ProductCode,
			Quantity:  p.QuantitySold,
			Revenue:   p.Revenue,
		})
	}

	return report, nil
}

// dailySeries buckets income into one point per calendar day of r
func dailySeries(r utils.DateRange, payments []entity.Payment, sales []entity.Sale, loc *time.Location) []DailyPoint {
	days := r.Days()
	points := make([]DailyPoint, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		points[i].Date = d.Format(utils.DateLayout)
		index[points[i].Date] = i
	}
	for _, p := range payments {
		if i, ok := index[p.PaidAt.In(loc).Format(utils.DateLayout)]; ok {
			points[i].Payments += p.Amount
		}
	}
	for _, sale := range sales {
		if i, ok := index[sale.SoldAt.In(loc).Format(utils.DateLayout)]; ok {
			points[i].Sales += sale.Total
		}
	}
	return points
}
