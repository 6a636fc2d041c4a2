package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// ListPayments lists payment transactions for admin review
// GET /admin/payments
func ListPayments(c *gin.Context) {
	utils.LogInfo("ListPayments called")

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.PaymentTransaction{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if reference := c.Query("reference"); reference != "" {
		query = query.Where("reference = ?", reference)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count payments: %v", err)
		utils.InternalServerError(c, "Failed to list payments", nil)
		return
	}
	pagination.SetTotal(total)

	var payments []models.PaymentTransaction
	if err := query.Preload("User").Preload("Items").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&payments).Error; err != nil {
		utils.LogError("Failed to fetch payments: %v", err)
		utils.InternalServerError(c, "Failed to list payments", nil)
		return
	}

	items := make([]gin.H, 0, len(payments))
	for _, payment := range payments {
		items = append(items, gin.H{
			"reference": payment.Reference,
			"user": gin.H{
				"id":    payment.UserID,
				"email": payment.User.Email,
			},
			"subtotal":   payment.Subtotal,
			"discount":   payment.Discount,
			"vat":        payment.VAT,
			"total":      payment.Total,
			"status":     payment.Status,
			"courses":    len(payment.Items),
			"created_at": payment.CreatedAt,
		})
	}

	utils.SendPaginatedResponse(c, items, pagination)
}

// reportWindow resolves a period query into a start/end pair
func reportWindow(period string) (time.Time, time.Time, bool) {
	now := time.Now()
	switch period {
	case "day":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start, start.Add(24 * time.Hour), true
	case "week":
		end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		start := end.AddDate(0, 0, -6)
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		return start, end, true
	case "month":
		return now.AddDate(0, 0, -30).Truncate(24 * time.Hour), now.Add(24 * time.Hour), true
	}
	return time.Time{}, time.Time{}, false
}

// DownloadSettlementReportExcel exports settled payments for a period as an
// Excel workbook
// GET /admin/reports/settlements
func DownloadSettlementReportExcel(c *gin.Context) {
	utils.LogInfo("DownloadSettlementReportExcel called")

	period := c.DefaultQuery("period", "day")
	startDate, endDate, ok := reportWindow(period)
	if !ok {
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var payments []models.PaymentTransaction
	if err := config.DB.Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Preload("User").Preload("Items").
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		utils.LogError("Failed to fetch payments: %v", err)
		utils.InternalServerError(c, "Failed to fetch payments", err.Error())
		return
	}

	var summary struct {
		TotalPayments  int
		TotalRevenue   float64
		TotalDiscounts float64
		TotalVAT       float64
		TotalTutorCut  float64
		TotalBuyers    int
	}
	tutorShare := config.TutorShare()
	buyerSet := make(map[uint]bool)
	for _, payment := range payments {
		if payment.Status != models.PaymentStatusSuccess {
			continue
		}
		summary.TotalPayments++
		summary.TotalRevenue += payment.Total
		summary.TotalDiscounts += payment.Discount
		summary.TotalVAT += payment.VAT
		buyerSet[payment.UserID] = true
		for _, item := range payment.Items {
			summary.TotalTutorCut += item.FinalPrice * tutorShare
		}
	}
	summary.TotalBuyers = len(buyerSet)
	summary.TotalRevenue = utils.RoundMoney(summary.TotalRevenue)
	summary.TotalDiscounts = utils.RoundMoney(summary.TotalDiscounts)
	summary.TotalVAT = utils.RoundMoney(summary.TotalVAT)
	summary.TotalTutorCut = utils.RoundMoney(summary.TotalTutorCut)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Settlement Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString(strings.ToUpper(utils.AppName) + " - Settlement Report")
	titleRow = sheet.AddRow()
	titleRow.AddCell().SetString("Period: " + strings.ToUpper(period) + " | " + startDate.Format("2006-01-02") + " to " + endDate.Format("2006-01-02"))
	sheet.AddRow()

	headers := []string{"Reference", "User ID", "Email", "Date", "Courses", "Subtotal", "Discount", "VAT", "Total", "Tutor Cut", "Status"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, payment := range payments {
		var tutorCut float64
		for _, item := range payment.Items {
			tutorCut += item.FinalPrice * tutorShare
		}
		row := sheet.AddRow()
		row.AddCell().SetString(payment.Reference)
		row.AddCell().SetInt(int(payment.UserID))
		row.AddCell().SetString(payment.User.Email)
		row.AddCell().SetString(payment.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetInt(len(payment.Items))
		row.AddCell().SetFloat(payment.Subtotal)
		row.AddCell().SetFloat(payment.Discount)
		row.AddCell().SetFloat(payment.VAT)
		row.AddCell().SetFloat(payment.Total)
		row.AddCell().SetFloat(utils.RoundMoney(tutorCut))
		row.AddCell().SetString(payment.Status)
	}

	sheet.AddRow()

	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Settled Payments", fmt.Sprintf("%d", summary.TotalPayments)},
		{"Gross Revenue", fmt.Sprintf("%.2f", summary.TotalRevenue)},
		{"Total Discounts", fmt.Sprintf("%.2f", summary.TotalDiscounts)},
		{"Total VAT", fmt.Sprintf("%.2f", summary.TotalVAT)},
		{"Tutor Payouts", fmt.Sprintf("%.2f", summary.TotalTutorCut)},
		{"Unique Buyers", fmt.Sprintf("%d", summary.TotalBuyers)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=settlement_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Generated settlement report for period %s", period)
}
