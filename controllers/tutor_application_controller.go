package controllers

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// TutorApplicationRequest represents a tutor application body
type TutorApplicationRequest struct {
	Expertise    string `json:"expertise" binding:"required"`
	Bio          string `json:"bio" binding:"required"`
	PortfolioURL string `json:"portfolio_url"`
}

// ApplyAsTutor submits a tutor application for the calling user
// POST /user/tutor-application
func ApplyAsTutor(c *gin.Context) {
	utils.LogInfo("ApplyAsTutor called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	if user.IsTutor {
		utils.Conflict(c, "You are already a tutor", nil)
		return
	}

	var req TutorApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid tutor application: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var existing models.TutorApplication
	if err := config.DB.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		if existing.Status == models.ApplicationStatusPending {
			utils.Conflict(c, "You already have a pending application", nil)
			return
		}
		if existing.Status == models.ApplicationStatusApproved {
			utils.Conflict(c, "Your application was already approved", nil)
			return
		}
		// Rejected applicants may reapply; the old row is refreshed.
		updates := map[string]interface{}{
			"expertise":     utils.SanitizeString(req.Expertise),
			"bio":           req.Bio,
			"portfolio_url": req.PortfolioURL,
			"status":        models.ApplicationStatusPending,
			"admin_note":    "",
			"reviewed_at":   nil,
		}
		if err := config.DB.Model(&existing).Updates(updates).Error; err != nil {
			utils.LogError("Failed to refresh application for user %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to submit application", nil)
			return
		}
		utils.LogInfo("User %d reapplied as tutor (application %d)", user.ID, existing.ID)
		utils.Success(c, "Application resubmitted", gin.H{"id": existing.ID, "status": models.ApplicationStatusPending})
		return
	}

	application := models.TutorApplication{
		UserID:       user.ID,
		Expertise:    utils.SanitizeString(req.Expertise),
		Bio:          req.Bio,
		PortfolioURL: req.PortfolioURL,
		Status:       models.ApplicationStatusPending,
	}
	if err := config.DB.Create(&application).Error; err != nil {
		utils.LogError("Failed to create tutor application for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to submit application", nil)
		return
	}

	utils.LogInfo("User %d applied as tutor (application %d)", user.ID, application.ID)
	utils.Created(c, "Application submitted", gin.H{"id": application.ID, "status": application.Status})
}

// GetMyTutorApplication returns the caller's application status
// GET /user/tutor-application
func GetMyTutorApplication(c *gin.Context) {
	utils.LogInfo("GetMyTutorApplication called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var application models.TutorApplication
	if err := config.DB.Where("user_id = ?", user.ID).First(&application).Error; err != nil {
		utils.NotFound(c, "No application found")
		return
	}

	utils.Success(c, "Application retrieved successfully", gin.H{
		"id":          application.ID,
		"expertise":   application.Expertise,
		"status":      application.Status,
		"admin_note":  application.AdminNote,
		"reviewed_at": application.ReviewedAt,
		"created_at":  application.CreatedAt,
	})
}

// ListTutorApplications lists applications for admin review
// GET /admin/tutor-applications
func ListTutorApplications(c *gin.Context) {
	utils.LogInfo("ListTutorApplications called")

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.TutorApplication{})
	status := c.DefaultQuery("status", models.ApplicationStatusPending)
	if status != "all" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count tutor applications: %v", err)
		utils.InternalServerError(c, "Failed to list applications", nil)
		return
	}
	pagination.SetTotal(total)

	var applications []models.TutorApplication
	if err := query.Preload("User").Order("created_at ASC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&applications).Error; err != nil {
		utils.LogError("Failed to fetch tutor applications: %v", err)
		utils.InternalServerError(c, "Failed to list applications", nil)
		return
	}

	items := make([]gin.H, 0, len(applications))
	for _, application := range applications {
		items = append(items, gin.H{
			"id":            application.ID,
			"expertise":     application.Expertise,
			"bio":           application.Bio,
			"portfolio_url": application.PortfolioURL,
			"status":        application.Status,
			"applicant": gin.H{
				"id":    application.UserID,
				"email": application.User.Email,
				"name":  application.User.FirstName + " " + application.User.LastName,
			},
			"created_at": application.CreatedAt,
		})
	}

	utils.SendPaginatedResponse(c, items, pagination)
}

// ReviewTutorApplication approves or rejects an application. Approval flips
// the user's tutor flag and provisions their wallet in the same transaction.
// POST /admin/tutor-applications/:id/approve
// POST /admin/tutor-applications/:id/reject
func ReviewTutorApplication(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("ReviewTutorApplication called (approve=%t)", approve)

		var req ReviewWithdrawalRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			utils.BadRequest(c, "Invalid request", err.Error())
			return
		}

		var application models.TutorApplication
		if err := config.DB.Preload("User").First(&application, c.Param("id")).Error; err != nil {
			utils.LogError("Tutor application not found: %s", c.Param("id"))
			utils.NotFound(c, "Application not found")
			return
		}

		newStatus := models.ApplicationStatusRejected
		if approve {
			newStatus = models.ApplicationStatusApproved
		}

		tx := config.DB.Begin()
		if tx.Error != nil {
			utils.LogError("Failed to start transaction: %v", tx.Error)
			utils.InternalServerError(c, "Failed to start transaction", nil)
			return
		}

		now := time.Now()
		result := tx.Model(&models.TutorApplication{}).
			Where("id = ? AND status = ?", application.ID, models.ApplicationStatusPending).
			Updates(map[string]interface{}{
				"status":      newStatus,
				"admin_note":  req.Note,
				"reviewed_at": now,
			})
		if result.Error != nil {
			tx.Rollback()
			utils.LogError("Failed to review application %d: %v", application.ID, result.Error)
			utils.InternalServerError(c, "Failed to review application", nil)
			return
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			utils.Conflict(c, "Application already reviewed", nil)
			return
		}

		if approve {
			if err := tx.Model(&models.User{}).Where("id = ?", application.UserID).
				Update("is_tutor", true).Error; err != nil {
				tx.Rollback()
				utils.LogError("Failed to flag user %d as tutor: %v", application.UserID, err)
				utils.InternalServerError(c, "Failed to approve application", nil)
				return
			}
			wallet := models.Wallet{UserID: application.UserID}
			if err := tx.Where(models.Wallet{UserID: application.UserID}).
				FirstOrCreate(&wallet).Error; err != nil {
				tx.Rollback()
				utils.LogError("Failed to provision wallet for user %d: %v", application.UserID, err)
				utils.InternalServerError(c, "Failed to provision wallet", nil)
				return
			}
		}

		if err := tx.Commit().Error; err != nil {
			utils.LogError("Failed to commit application review: %v", err)
			utils.InternalServerError(c, "Failed to commit transaction", nil)
			return
		}

		go func(email string, note string) {
			if err := utils.SendTutorApplicationDecision(email, approve, note); err != nil {
				utils.LogError("Failed to send application decision email: %v", err)
			}
		}(application.User.Email, req.Note)

		utils.LogInfo("Application %d reviewed: %s", application.ID, newStatus)
		utils.Success(c, "Application reviewed", gin.H{
			"id":     application.ID,
			"status": newStatus,
		})
	}
}
