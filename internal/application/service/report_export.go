package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"strings"

	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ReportFile is a rendered report ready to download
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export renders the report of a range as CSV or XLSX
func (s *ReportService) Export(ctx context.Context, rng ReportRange, format string) (*ReportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return nil, apperror.NewFieldError("format", "Format must be csv or xlsx")
	}

	report, err := s.Summary(ctx, rng)
	if err != nil {
		return nil, err
	}

	file := &ReportFile{Filename: fmt.Sprintf("reporte_sparta_%s_%s.%s", report.From, report.To, format)}
	switch format {
	case FormatXLSX:
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		file.Data, err = s.renderXLSX(report)
	default:
		file.ContentType = "text/csv; charset=utf-8"
		file.Data, err = s.renderCSV(report)
	}
	if err != nil {
		return nil, apperror.Internal("render report", err)
	}
	return file, nil
}

func (s *ReportService) money(r *Report, cents int64) string {
	return fmt.Sprintf("%s %.2f", r.Currency, fromCents(cents))
}

func (s *ReportService) paymentRow(r *Report, p *entity.Payment) []string {
	name := ""
	if p.Client != nil {
		name = p.Client.Name
	}
	return []string{
		name,
		p.Type.Label(),
		p.PaidAt.In(s.clock.location()).Format("2006-01-02"),
		p.Method.Label(),
		fmt.Sprintf("%.2f", fromCents(p.Amount)),
	}
}

func (s *ReportService) saleRow(r *Report, sale *entity.Sale) []string {
	product, category := "", uncategorizedLabel
	if sale.Product != nil {
		product = sale.Product.Name
		if sale.Product.Category != nil {
			category = sale.Product.Category.Name
		}
	}
	return []string{
		product,
		category,
		fmt.Sprintf("%d", sale.Quantity),
		sale.SoldAt.In(s.clock.location()).Format("2006-01-02"),
		sale.Method.Label(),
		fmt.Sprintf("%.2f", fromCents(sale.Total)),
	}
}

var (
	paymentHeader = []string{"Cliente", "Tipo", "Fecha", "Método", "Monto"}
	saleHeader    = []string{"Producto", "Categoría", "Cantidad", "Fecha", "Método", "Total"}
)

func (s *ReportService) renderCSV(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	// BOM so spreadsheet apps detect UTF-8
	buf.WriteString("\xef\xbb\xbf")

	w := csv.NewWriter(&buf)
	rows := [][]string{
		{"REPORTE " + strings.ToUpper(r.GymName)},
		{"Período", r.From + " al " + r.To},
		{},
		{"RESUMEN"},
		{"Total Membresías", s.money(r, r.TotalPayments)},
		{"Total Ventas Productos", s.money(r, r.TotalSales)},
		{"TOTAL GENERAL", s.money(r, r.TotalGeneral())},
		{},
		{"DETALLE DE MEMBRESÍAS"},
		paymentHeader,
	}
	for i := range r.Payments {
		rows = append(rows, s.paymentRow(r, &r.Payments[i]))
	}
	rows = append(rows, []string{}, []string{"DETALLE DE VENTAS"}, saleHeader)
	for i := range r.Sales {
		rows = append(rows, s.saleRow(r, &r.Sales[i]))
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReportService) renderXLSX(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	const summary = "Resumen"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	summaryRows := [][]interface{}{
		{"REPORTE " + strings.ToUpper(r.GymName)},
		{"Período", r.From + " al " + r.To},
		{},
		{"Concepto", "Monto"},
		{"Total Membresías", fromCents(r.TotalPayments)},
		{"Total Ventas Productos", fromCents(r.TotalSales)},
		{"TOTAL GENERAL", fromCents(r.TotalGeneral())},
		{},
		{"Categoría", "Cantidad", "Ventas", "Total"},
	}
	for _, c := range r.ByCategory {
		summaryRows = append(summaryRows, []interface{}{c.Name, c.Quantity, c.Count, fromCents(c.Total)})
	}
	if err := writeSheet(f, summary, summaryRows); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(summary, "A1", "A1", bold)
	_ = f.SetCellStyle(summary, "A4", "B4", bold)
	_ = f.SetCellStyle(summary, "A9", "D9", bold)
	_ = f.SetColWidth(summary, "A", "A", 28)

	paymentRows := [][]interface{}{toCells(paymentHeader)}
	for i := range r.Payments {
		row := toCells(s.paymentRow(r, &r.Payments[i]))
		row[len(row)-1] = fromCents(r.Payments[i].Amount)
		paymentRows = append(paymentRows, row)
	}
	if err := addSheet(f, "Membresías", paymentRows, bold); err != nil {
		return nil, err
	}

	saleRows := [][]interface{}{toCells(saleHeader)}
	for i := range r.Sales {
		row := toCells(s.saleRow(r, &r.Sales[i]))
		row[2] = r.Sales[i].Quantity
		row[len(row)-1] = fromCents(r.Sales[i].Total)
		saleRows = append(saleRows, row)
	}
	if err := addSheet(f, "Ventas", saleRows, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func addSheet(f *excelize.File, name string, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := writeSheet(f, name, rows); err != nil {
		return err
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		_ = f.SetCellStyle(name, "A1", last, headerStyle)
	}
	return f.SetColWidth(name, "A", "B", 24)
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

var printTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": func(currency string, cents int64) string {
		return fmt.Sprintf("%s %.2f", currency, fromCents(cents))
	},
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Reporte {{.R.GymName}}</title>
<style>
body { font-family: Arial, sans-serif; padding: 20px; color: #333; }
h1 { color: #D4AF37; border-bottom: 2px solid #D4AF37; padding-bottom: 10px; }
h2 { color: #CD7F32; margin-top: 30px; }
.resumen { background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0; }
.total { font-size: 24px; font-weight: bold; color: #D4AF37; }
table { width: 100%; border-collapse: collapse; margin-top: 15px; }
th { background: #D4AF37; color: #000; padding: 10px; text-align: left; }
td { padding: 8px; border-bottom: 1px solid #ddd; }
.footer { margin-top: 40px; text-align: center; color: #888; font-size: 12px; }
@media print { body { print-color-adjust: exact; -webkit-print-color-adjust: exact; } }
</style>
</head>
<body>
<h1>{{.R.GymName}} - Reporte</h1>
<p><strong>Período:</strong> {{.R.From}} al {{.R.To}}</p>
<div class="resumen">
<h2>Resumen</h2>
<p>Ingresos por Membresías: <strong>{{money .R.Currency .R.TotalPayments}}</strong></p>
<p>Ingresos por Productos: <strong>{{money .R.Currency .R.TotalSales}}</strong></p>
<p class="total">TOTAL GENERAL: {{money .R.Currency .R.TotalGeneral}}</p>
</div>
<h2>Detalle de Membresías ({{len .Payments}})</h2>
<table>
<tr>{{range .PaymentHeader}}<th>{{.}}</th>{{end}}</tr>
{{range .Payments}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{else}}<tr><td colspan="5">Sin pagos en este período</td></tr>
{{end}}</table>
<h2>Detalle de Ventas ({{len .Sales}})</h2>
<table>
<tr>{{range .SaleHeader}}<th>{{.}}</th>{{end}}</tr>
{{range .Sales}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{else}}<tr><td colspan="6">Sin ventas en este período</td></tr>
{{end}}</table>
<div class="footer">Generado el {{.Generated}}</div>
</body>
</html>
`))

// PrintHTML renders the report as a printable HTML page
func (s *ReportService) PrintHTML(ctx context.Context, rng ReportRange) ([]byte, error) {
	report, err := s.Summary(ctx, rng)
	if err != nil {
		return nil, err
	}

	data := struct {
		R             *Report
		PaymentHeader []string
		SaleHeader    []string
		Payments      [][]string
		Sales         [][]string
		Generated     string
	}{
		R:             report,
		PaymentHeader: paymentHeader,
		SaleHeader:    saleHeader,
		Generated:     report.GeneratedAt.In(s.clock.location()).Format("02/01/2006 15:04"),
	}
	for i := range report.Payments {
		row := s.paymentRow(report, &report.Payments[i])
		row[len(row)-1] = s.money(report, report.Payments[i].Amount)
		data.Payments = append(data.Payments, row)
	}
	for i := range report.Sales {
		row := s.saleRow(report, &report.Sales[i])
		row[len(row)-1] = s.money(report, report.Sales[i].Total)
		data.Sales = append(data.Sales, row)
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, data); err != nil {
		return nil, apperror.Internal("render report", err)
	}
	return buf.Bytes(), nil
}
