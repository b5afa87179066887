package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// importColumns maps folded header names to row fields
var importColumns = map[string]string{
	"nombre":      "name",
	"name":        "name",
	"codigo":      "code",
	"code":        "code",
	"precio":      "price",
	"price":       "price",
	"stock":       "stock",
	"cantidad":    "stock",
	"categoria":   "category",
	"category":    "category",
	"descripcion": "description",
	"description": "description",
}

// ParseProductSheet reads an .xlsx or .csv import file. The first row is a
// header naming the columns in Spanish or English.
func ParseProductSheet(filename string, r io.Reader) ([]ImportProductRow, error) {
	var records [][]string
	var err error

	switch ext := strings.ToLower(filename[strings.LastIndex(filename, ".")+1:]); ext {
	case "xlsx":
		records, err = readXLSX(r)
	case "csv":
		records, err = readCSV(r)
	default:
		return nil, apperror.NewFieldError("file", "Unsupported file type, use .xlsx or .csv")
	}
	if err != nil {
		return nil, apperror.NewFieldError("file", err.Error())
	}
	if len(records) < 1 {
		return nil, apperror.NewFieldError("file", "The file is empty")
	}

	index := make(map[string]int)
	for i, h := range records[0] {
		key := strings.ReplaceAll(utils.FoldAccents(strings.ToLower(strings.TrimSpace(h))), " ", "")
		if field, ok := importColumns[key]; ok {
			index[field] = i
		}
	}
	if _, ok := index["name"]; !ok {
		return nil, apperror.NewFieldError("file", "Missing required column 'nombre'")
	}

	cell := func(rec []string, field string) string {
		i, ok := index[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	rows := make([]ImportProductRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if strings.TrimSpace(strings.Join(rec, "")) == "" {
			continue
		}
		row := ImportProductRow{
			Row:          i + 2,
			Name:         cell(rec, "name"),
			Code:         cell(rec, "code"),
			CategoryName: cell(rec, "category"),
			Description:  cell(rec, "description"),
		}
		if v := cell(rec, "price"); v != "" {
			price, err := parseAmount(v)
			if err != nil {
				row.PriceErr = fmt.Sprintf("Price '%s' is not a number", v)
			} else {
				row.Price = price
			}
		}
		if v := cell(rec, "stock"); v != "" {
			stock, err := strconv.Atoi(v)
			if err != nil {
				row.StockErr = fmt.Sprintf("Stock '%s' is not a whole number", v)
			} else {
				row.Stock = stock
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	if first, _, ok := bytes.Cut(data, []byte("\n")); ok || len(first) > 0 {
		if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
			reader.Comma = ';'
		}
	}
	return reader.ReadAll()
}
