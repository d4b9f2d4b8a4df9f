package billing

import (
	"fmt"

	"clinic-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/billing/export — all billing records as an .xlsx workbook, one row
// per record, with a trailing revenue/outstanding summary.
func ExportBillingHandler(repo repository.BillingRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		records, err := repo.GetAll(ctx)
		if err != nil {
			return mapError(err)
		}
		revenue, err := repo.TotalRevenue(ctx)
		if err != nil {
			return mapError(err)
		}
		outstanding, err := repo.TotalOutstanding(ctx)
		if err != nil {
			return mapError(err)
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		headers := []string{"ID", "Patient ID", "Patient", "Amount", "Payment Status", "Bill Date", "Due Date", "Description"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for i, b := range records {
			row := i + 2
			due := ""
			if b.DueDate != nil {
				due = b.DueDate.Format("2006-01-02")
			}
			values := []any{
				b.ID,
				b.PatientID,
				b.Patient.FirstName + " " + b.Patient.LastName,
				b.Amount.StringFixed(2),
				b.PaymentStatus,
				b.BillDate.Format("2006-01-02"),
				due,
				b.Description,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, v)
			}
		}

		summaryRow := len(records) + 3
		f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total revenue (paid)")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), revenue.StringFixed(2))
		f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+1), "Total outstanding")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+1), outstanding.StringFixed(2))

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build report")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="billing-report.xlsx"`)
		return c.Send(buf.Bytes())
	}
}
