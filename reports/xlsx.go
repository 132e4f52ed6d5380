package reports

import (
	"fmt"
	"io"

	"meal-service/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	ordersSheet  = "Orders"
)

// WriteOrderReportXLSX renders the report as a workbook with a summary sheet
// and one row per order.
func WriteOrderReportXLSX(w io.Writer, report *models.OrderReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(ordersSheet); err != nil {
		return err
	}

	summaryRows := [][]interface{}{
		{"Date from", report.DateFrom},
		{"Date to", report.DateTo},
		{"Total orders", report.TotalOrders},
		{"Total revenue", report.TotalRevenue.StringFixed(2)},
		{"Average order value", report.AverageOrderValue.StringFixed(2)},
		{},
		{"Restaurant", "Orders", "Revenue"},
	}
	names := make(map[uuid.UUID]string, len(report.ByRestaurant))
	for _, r := range report.ByRestaurant {
		names[r.RestaurantID] = r.RestaurantName
		summaryRows = append(summaryRows, []interface{}{r.RestaurantName, r.OrderCount, r.TotalAmount.StringFixed(2)})
	}
	if err := writeRows(f, summarySheet, summaryRows); err != nil {
		return err
	}

	orderRows := [][]interface{}{{"Date", "Order ID", "User ID", "Restaurant", "Status", "Items", "Order text", "Total"}}
	for _, o := range report.Orders {
		orderRows = append(orderRows, []interface{}{
			models.FormatDate(o.OrderDate),
			o.ID.String(),
			o.UserID.String(),
			names[o.RestaurantID],
			o.Status,
			len(o.Items),
			o.OrderText,
			o.TotalAmount.StringFixed(2),
		})
	}
	if err := writeRows(f, ordersSheet, orderRows); err != nil {
		return err
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 24)
	_ = f.SetColWidth(ordersSheet, "B", "C", 38)
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
