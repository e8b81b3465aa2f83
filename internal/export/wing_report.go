package export

import (
	"bytes"
	"fmt"
	"time"

	"society-console/internal/aggregator"

	"github.com/xuri/excelize/v2"
)

// WingReportSheet 工作表名
const WingReportSheet = "Wing Report"

// WingReportHeader 导出表头
var WingReportHeader = []string{
	"Wing ID",
	"Wing",
	"Owners",
	"Flats",
	"Rentals",
	"Meetings",
	"Maintenance Amount",
	"Maintenance Collected",
	"Maintenance Pending",
	"Collection Rate (%)",
	"Expenses",
	"Activity Payments",
	"Activity Expenses",
	"Net Balance",
}

var wingReportColumnWidths = []float64{10, 20, 10, 10, 10, 10, 20, 22, 20, 18, 14, 18, 18, 14}

// WingReportFilename 下载文件名，例如 wing-report-20261016.xlsx
func WingReportFilename(now time.Time) string {
	return fmt.Sprintf("wing-report-%s.xlsx", now.Format("20060102"))
}

// GenerateWingReport 生成楼栋报表 Excel：每个楼栋一行，其后是 Unassigned 行和合计行
func GenerateWingReport(report aggregator.WingReport) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(WingReportSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create total style: %w", err)
	}

	if err := f.SetSheetRow(WingReportSheet, "A1", &WingReportHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(WingReportHeader))
	if err := f.SetCellStyle(WingReportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	for i, width := range wingReportColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(WingReportSheet, col, col, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	row := 2
	write := func(summary aggregator.WingSummary) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := summaryRow(summary)
		if err := f.SetSheetRow(WingReportSheet, cell, &values); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		row++
		return nil
	}

	for _, summary := range report.Rows {
		if err := write(summary); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write wing row: %w", err)
		}
	}
	if report.Unassigned != nil {
		if err := write(*report.Unassigned); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write unassigned row: %w", err)
		}
	}
	if err := write(aggregator.WingSummary{WingName: "Total", Stats: report.Totals}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write total row: %w", err)
	}
	totalRow := row - 1
	if err := f.SetCellStyle(WingReportSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("%s%d", lastCol, totalRow), totalStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set total style: %w", err)
	}

	// 冻结表头
	if err := f.SetPanes(WingReportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	// WriteTo 期间文件必须保持打开
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryRow(s aggregator.WingSummary) []any {
	var wingID any
	if id, ok := s.WingID.Get(); ok {
		wingID = id
	}
	st := s.Stats
	return []any{
		wingID,
		s.WingName,
		st.TotalOwners,
		st.TotalFlats,
		st.TotalRentals,
		st.TotalMeetings,
		st.TotalMaintenanceAmount.Float64(),
		st.TotalMaintenanceCollected.Float64(),
		st.TotalMaintenancePending.Float64(),
		st.CollectionRatePercent,
		st.TotalExpenseAmount.Float64(),
		st.TotalActivityPaymentAmount.Float64(),
		st.TotalActivityExpenseAmount.Float64(),
		st.NetBalance.Float64(),
	}
}
