package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/printer"
)

// Receipt sources
const (
	ReceiptSale    = "sale"
	ReceiptPayment = "payment"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	saleRepo    repository.SaleRepository
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	settings    *SettingsService
	clock       Clock
	charWidth   int
}

// NewPrinterService creates a new printer service. charWidth is the number
// of columns of the paper roll (32 for 58mm, 48 for 80mm).
func NewPrinterService(
	p printer.Printer,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	settings *SettingsService,
	clock Clock,
	charWidth int,
) *PrinterService {
	if charWidth <= 0 {
		charWidth = 32
	}
	return &PrinterService{
		printer:     p,
		saleRepo:    saleRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		settings:    settings,
		clock:       clock,
		charWidth:   charWidth,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	CharWidth  int    `json:"char_width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       kind,
		CharWidth:  s.charWidth,
	}
}

// PrintResult is a composed receipt and whether it reached the printer.
// Warning carries the print failure; the receipt is still usable on screen.
type PrintResult struct {
	Receipt *entity.Receipt `json:"receipt"`
	Printed bool            `json:"printed"`
	Warning string          `json:"warning,omitempty"`
}

// TestPrint sends a test page to the printer.
func (s *PrinterService) TestPrint(ctx context.Context) (*PrintResult, error) {
	header, currency, err := s.header(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header:   header,
		Number:   "PRUEBA-001",
		Date:     s.clock.Now().In(s.clock.location()).Format("02/01/2006 15:04"),
		Cashier:  "Sistema",
		Currency: currency,
		Items: []entity.ReceiptItem{
			{Name: "Agua mineral", Quantity: 2, UnitPrice: 2.50, Total: 5.00},
			{Name: "Mensualidad", Quantity: 1, UnitPrice: 30.00, Total: 30.00},
		},
		Total: 35.00,
		Paid:  35.00,
		Notes: "Impresión de prueba",
	}
	return s.print(ctx, receipt), nil
}

// PrintReceipt composes and prints the receipt of a sale or a payment
func (s *PrinterService) PrintReceipt(ctx context.Context, kind string, id uuid.UUID) (*PrintResult, error) {
	var receipt *entity.Receipt
	var err error

	switch kind {
	case ReceiptSale:
		receipt, err = s.saleReceipt(ctx, id)
	case ReceiptPayment:
		receipt, err = s.paymentReceipt(ctx, id)
	default:
		return nil, apperror.NewFieldError("type", "Type must be sale or payment")
	}
	if err != nil {
		return nil, err
	}
	return s.print(ctx, receipt), nil
}

func (s *PrinterService) print(ctx context.Context, receipt *entity.Receipt) *PrintResult {
	result := &PrintResult{Receipt: receipt}
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.charWidth)); err != nil {
		log.Printf("[printer] receipt %s not printed: %v", receipt.Number, err)
		result.Warning = err.Error()
		return result
	}
	result.Printed = true
	return result
}

func (s *PrinterService) header(ctx context.Context) (entity.ReceiptHeader, string, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return entity.ReceiptHeader{}, "", err
	}
	return entity.ReceiptHeader{
		GymName: settings.GymName,
		Address: settings.Address,
		Phone:   settings.Phone,
		TaxID:   settings.TaxID,
	}, settings.Currency, nil
}

func (s *PrinterService) cashier(ctx context.Context, userID *uuid.UUID) string {
	if userID == nil {
		return ""
	}
	user, err := s.userRepo.GetByID(ctx, *userID)
	if err != nil || user == nil {
		return ""
	}
	return user.Name
}

func (s *PrinterService) saleReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	header, currency, err := s.header(ctx)
	if err != nil {
		return nil, err
	}

	name := "Producto"
	if sale.Product != nil {
		name = sale.Product.Name
	}

	receipt := &entity.Receipt{
		Header:      header,
		Number:      sale.ReceiptNo,
		Date:        sale.SoldAt.In(s.clock.location()).Format("02/01/2006 15:04"),
		Cashier:     s.cashier(ctx, sale.UserID),
		Method:      sale.Method.Label(),
		Currency:    currency,
		Items:       []entity.ReceiptItem{{Name: name, Quantity: sale.Quantity, UnitPrice: fromCents(sale.UnitPrice), Total: fromCents(sale.Total)}},
		Total:       fromCents(sale.Total),
		Paid:        fromCents(sale.AmountPaid),
		Outstanding: fromCents(sale.Outstanding()),
	}
	if sale.Client != nil {
		receipt.Client = sale.Client.Name
	}
	if sale.Cancelled {
		receipt.Notes = "VENTA ANULADA"
	} else if sale.Notes != nil {
		receipt.Notes = *sale.Notes
	}
	return receipt, nil
}

func (s *PrinterService) paymentReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}

	header, currency, err := s.header(ctx)
	if err != nil {
		return nil, err
	}

	name := payment.Type.Label()
	if payment.Period != nil {
		name += " " + *payment.Period
	}
	amount := fromCents(payment.Amount)

	receipt := &entity.Receipt{
		Header:   header,
		Number:   "P-" + strings.ToUpper(payment.ID.String()[:8]),
		Date:     payment.PaidAt.In(s.clock.location()).Format("02/01/2006 15:04"),
		Cashier:  s.cashier(ctx, payment.UserID),
		Method:   payment.Method.Label(),
		Currency: currency,
		Items:    []entity.ReceiptItem{{Name: name, Quantity: 1, UnitPrice: amount, Total: amount}},
		Total:    amount,
		Paid:     amount,
	}
	if payment.Client != nil {
		receipt.Client = payment.Client.Name
	}
	if payment.Notes != nil {
		receipt.Notes = *payment.Notes
	}
	return receipt, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	money := func(v float64) string { return fmt.Sprintf("%s %.2f", r.Currency, v) }

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.GymName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Wrapped(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.TextF("Tel: %s", r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("RUC: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Recibo:", r.Number).
		KeyValue("Fecha:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Atendido por:", r.Cashier)
	}
	if r.Client != "" {
		doc.KeyValue("Cliente:", r.Client)
	}
	if r.Method != "" {
		doc.KeyValue("Pago:", r.Method)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s c/u", money(item.UnitPrice))
		}
	}

	doc.Separator('-').
		SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)

	if r.Paid != r.Total {
		doc.KeyValue("A cuenta:", money(r.Paid))
	}
	if r.Outstanding > 0 {
		doc.KeyValue("Saldo:", money(r.Outstanding))
	}
	if r.Notes != "" {
		doc.Separator('-').Wrapped(r.Notes)
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		LineFeed().
		Text("¡Gracias por su preferencia!").
		LineFeed().
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
