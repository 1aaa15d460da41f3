package controllers

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admission-portal-api/config"
	"admission-portal-api/models"
	"admission-portal-api/services"
)

// defaultFeeKobo is the application fee in minor units (10,000 NGN).
const defaultFeeKobo = int64(1000000)

var newPaystackClient = func() *services.PaystackClient {
	return services.NewPaystackClient(os.Getenv("PAYSTACK_SECRET_KEY"))
}

func applicationFeeKobo() int64 {
	if v, err := strconv.ParseInt(os.Getenv("APPLICATION_FEE_KOBO"), 10, 64); err == nil && v > 0 {
		return v
	}
	return defaultFeeKobo
}

// InitiatePayment creates a pending Paystack charge for the application fee.
// The amount comes from server configuration; the client never supplies it.
func InitiatePayment(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	// Prefer the email on the application form, fall back to the account.
	email := user.Email
	if app, err := draftStore().FindByOwner(userID.(int)); err == nil {
		if formEmail := app.ContactEmail(); formEmail != "" {
			email = formEmail
		}
	}

	reference := "ADM-" + uuid.NewString()

	tx, err := newPaystackClient().InitializeTransaction(email, applicationFeeKobo(), reference, userID.(int))
	if err != nil {
		log.Printf("payment initiation failed for user %v: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to initiate payment, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorization_url": tx.AuthorizationURL,
		"access_code":       tx.AccessCode,
		"reference":         tx.Reference,
	})
}

// PaystackWebhook receives asynchronous payment notifications. The HMAC
// signature over the raw body is verified before anything else happens; a
// storage failure returns 5xx so the provider redelivers.
func PaystackWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable payload"})
		return
	}

	processor := services.PaymentProcessor{
		Store:  draftStore(),
		Secret: os.Getenv("PAYSTACK_SECRET_KEY"),
		Notify: notifyApplicantByUser,
	}

	outcome, err := processor.Confirm(c.GetHeader("X-Paystack-Signature"), body)
	switch {
	case outcome == services.PaymentRejected:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
	case err != nil:
		log.Printf("payment webhook storage failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
	case outcome == services.PaymentIgnored:
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Payment recorded"})
	}
}
