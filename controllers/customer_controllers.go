package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/zest-order/middlewares"
	"github.com/yeremiapane/zest-order/models"
	"github.com/yeremiapane/zest-order/utils"
)

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// GetProfile -> GET /profile, dibuat otomatis pada akses pertama
func (cc *CustomerController) GetProfile(c *gin.Context) {
	customer, err := cc.loadOrCreate(c)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("failed to load customer profile")
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to load profile"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer profile", customer)
}

type updateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateProfile -> PUT /profile, hanya field yang dikirim yang diubah
func (cc *CustomerController) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customer, err := cc.loadOrCreate(c)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("failed to load customer profile")
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to load profile"))
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			utils.RespondErrorData(c, http.StatusBadRequest, errors.New("name cannot be empty"), gin.H{"field": "name"})
			return
		}
		customer.Name = name
	}
	if req.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}

	if err := cc.DB.WithContext(c.Request.Context()).Save(customer).Error; err != nil {
		utils.ErrorLogger.WithError(err).Error("failed to update customer profile")
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to update profile"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated", customer)
}

func (cc *CustomerController) loadOrCreate(c *gin.Context) (*models.Customer, error) {
	customer := models.Customer{ID: middlewares.UserID(c)}
	if claims, ok := middlewares.Claims(c); ok {
		customer.Email = claims.Email
	}
	err := cc.DB.WithContext(c.Request.Context()).
		Where(models.Customer{ID: customer.ID}).
		Attrs(models.Customer{Email: customer.Email}).
		FirstOrCreate(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
