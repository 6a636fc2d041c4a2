package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
	"github.com/jung-kurt/gofpdf"
)

// DownloadReceipt generates a PDF receipt for a settled payment
// GET /user/payments/:reference/receipt
func DownloadReceipt(c *gin.Context) {
	utils.LogInfo("DownloadReceipt called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	reference := c.Param("reference")

	var txn models.PaymentTransaction
	if err := config.DB.Preload("Items").Preload("PromoCode").
		Where("reference = ? AND user_id = ?", reference, user.ID).
		First(&txn).Error; err != nil {
		utils.LogError("Payment not found for receipt - Reference: %s, User ID: %d", reference, user.ID)
		utils.NotFound(c, "Payment not found")
		return
	}
	if txn.Status != models.PaymentStatusSuccess {
		utils.BadRequest(c, "Receipts are only available for settled payments", nil)
		return
	}

	courseTitles := map[uint]string{}
	for _, item := range txn.Items {
		var course models.Course
		if err := config.DB.Select("id, title").First(&course, item.CourseID).Error; err == nil {
			courseTitles[item.CourseID] = course.Title
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, utils.AppName)
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "support@palmtechniq.com")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(90, 8, "Reference: "+txn.Reference)
	pdf.Cell(60, 8, "Date: "+txn.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, user.FirstName+" "+user.LastName)
	pdf.Ln(6)
	pdf.Cell(100, 8, user.Email)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(100, 8, "Course", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "List", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Paid", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	for _, item := range txn.Items {
		title := courseTitles[item.CourseID]
		if title == "" {
			title = fmt.Sprintf("Course #%d", item.CourseID)
		}
		pdf.CellFormat(100, 8, title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", item.BasePrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", item.FinalPrice), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(125, 8, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", txn.Subtotal), "", 1, "R", false, 0, "")
	if txn.Discount > 0 {
		pdf.SetFont("Arial", "B", 12)
		label := "Discount:"
		if txn.PromoCode != nil {
			label = "Discount (" + txn.PromoCode.Code + "):"
		}
		pdf.CellFormat(125, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(25, 8, fmt.Sprintf("-%.2f", txn.Discount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(125, 8, "VAT:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", txn.VAT), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(125, 10, "Total Paid:", "", 0, "L", false, 0, "")
	pdf.CellFormat(25, 10, fmt.Sprintf("%.2f", txn.Total), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Happy learning!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to render receipt PDF for %s: %v", reference, err)
		utils.InternalServerError(c, "Failed to generate receipt", nil)
		return
	}

	utils.LogInfo("Receipt generated for reference: %s", reference)
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=receipt-"+reference+".pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
