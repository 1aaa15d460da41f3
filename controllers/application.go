package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"admission-portal-api/config"
	"admission-portal-api/models"
	"admission-portal-api/services"
)

// draftStore builds the production store; tests swap it for an in-memory one.
var draftStore = func() services.DraftStore {
	return services.NewGormDraftStore(config.DB)
}

// appNotifier delivers slips off the request path. Set from main.
var appNotifier *services.Notifier

// SetNotifier wires the background slip/email worker.
func SetNotifier(n *services.Notifier) {
	appNotifier = n
}

func notifyApplicant(app *models.Applicant) {
	if appNotifier != nil {
		appNotifier.Enqueue(app)
	}
}

func notifyApplicantByUser(userID int) {
	app, err := draftStore().FindByOwner(userID)
	if err != nil {
		log.Printf("notification skipped: draft reload failed for user %d: %v", userID, err)
		return
	}
	notifyApplicant(app)
}

type StepSaveRequest struct {
	Data json.RawMessage `json:"data" binding:"required"`
}

// SaveStep validates one wizard step and merges it onto the owner's draft.
// The section is replaced wholesale, so retrying a save is always safe.
func SaveStep(c *gin.Context) {
	userID, _ := c.Get("userID")

	step, err := strconv.Atoi(c.Param("step"))
	if err != nil || step < 1 || step > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step"})
		return
	}

	var req StepSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must contain a data object"})
		return
	}

	section, value, validationErrs := services.ValidateStep(step, req.Data)
	if validationErrs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Validation failed",
			"details": validationErrs,
		})
		return
	}

	if err := services.MergeSection(draftStore(), userID.(int), section, value); err != nil {
		log.Printf("step %d save failed for user %v: %v", step, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save progress, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Step " + strconv.Itoa(step) + " saved successfully",
		"section": section,
	})
}

// GetApplication returns the signed-in applicant's draft and workflow state.
func GetApplication(c *gin.Context) {
	userID, _ := c.Get("userID")

	app, err := draftStore().FindByOwner(userID.(int))
	if errors.Is(err, services.ErrDraftNotFound) {
		c.JSON(http.StatusOK, gin.H{
			"application": nil,
			"state":       models.StateDraft,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load application"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": app,
		"state":       app.WorkflowState(),
	})
}

// ListApplications returns submitted applications for the admissions office,
// newest first, optionally filtered by review status.
func ListApplications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := config.DB.Model(&models.Applicant{}).Where("submitted = ?", true)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load applications"})
		return
	}

	var apps []models.Applicant
	if err := query.Order("update_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

// FinalizeApplication runs the step-7 submission.
func FinalizeApplication(c *gin.Context) {
	userID, _ := c.Get("userID")

	finalizer := services.Finalizer{
		Store:  draftStore(),
		Notify: notifyApplicant,
	}

	applicationID, err := finalizer.Finalize(userID.(int))
	if err != nil {
		var fieldErrs services.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Validation failed",
				"details": fieldErrs,
			})
			return
		}
		log.Printf("finalize failed for user %v: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"application_id": applicationID,
	})
}
