package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"clinic-backend/internal/models"
	"clinic-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Expected sheet columns: Name | Category | Quantity | Unit Price | Expiry (YYYY-MM-DD) | Status
// A header row is detected and skipped when the first cell mentions "name" or "item".

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// POST /api/stock/import — bulk-load supplier stock lists from an .xlsx file.
func ImportStockHandler(repo repository.StockRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file upload failed: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "only .xlsx files are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not open file: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read Excel file: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "no sheets in Excel file")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read sheet: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file is empty")
		}

		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToLower(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "name") || strings.Contains(firstCell, "item") {
				startIndex = 1
			}
		}

		ctx := c.UserContext()
		result := ImportResult{}

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}

			item, err := parseStockRow(row)
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}

			if _, err := repo.Create(ctx, item); err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			result.Imported++
		}

		return c.JSON(result)
	}
}

func parseStockRow(row []string) (*models.Stock, error) {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	item := models.Stock{
		Name:     cell(0),
		Category: cell(1),
		Status:   cell(5),
	}

	if q := cell(2); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return nil, fmt.Errorf("quantity %q is not a whole number", q)
		}
		item.Quantity = n
	}

	if p := cell(3); p != "" {
		price, err := decimal.NewFromString(p)
		if err != nil {
			return nil, fmt.Errorf("unit price %q is not a decimal number", p)
		}
		item.UnitPrice = price
	}

	if e := cell(4); e != "" {
		d, err := time.Parse("2006-01-02", e)
		if err != nil {
			return nil, fmt.Errorf("expiry date %q is not 'YYYY-MM-DD'", e)
		}
		item.ExpiryDate = &d
	}

	return &item, nil
}
