package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type priceTypePayload struct {
	PriceType string `json:"priceType" binding:"required,pricetype"`
}

type orderStatusPayload struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

type phonePayload struct {
	Phone string `json:"phone" binding:"required,phone10"`
}

func newValidationTestRouter[T any]() *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetupValidator()
	router := gin.New()
	router.POST("/bind", func(c *gin.Context) {
		var payload T
		if err := c.ShouldBindJSON(&payload); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/bind", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPriceTypeValidator(t *testing.T) {
	router := newValidationTestRouter[priceTypePayload]()

	for _, valid := range []string{"threeInOne", "tAndD", "custom"} {
		w := postJSON(router, `{"priceType":"`+valid+`"}`)
		assert.Equal(t, http.StatusOK, w.Code, "price type %q should bind", valid)
	}

	for _, invalid := range []string{"retail", "THREEINONE", ""} {
		w := postJSON(router, `{"priceType":"`+invalid+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, "price type %q should fail", invalid)
	}
}

func TestOrderStatusValidator(t *testing.T) {
	router := newValidationTestRouter[orderStatusPayload]()

	for _, valid := range []string{"processing", "shipped", "delivered", "cancelled"} {
		w := postJSON(router, `{"status":"`+valid+`"}`)
		assert.Equal(t, http.StatusOK, w.Code, "status %q should bind", valid)
	}

	w := postJSON(router, `{"status":"returned"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "processing, shipped, delivered, cancelled")
}

func TestPhone10Validator(t *testing.T) {
	router := newValidationTestRouter[phonePayload]()

	w := postJSON(router, `{"phone":"9876543210"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, invalid := range []string{"98765", "98765432101", "98765abcde", "+919876543"} {
		w := postJSON(router, `{"phone":"`+invalid+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, "phone %q should fail", invalid)
	}
}

func TestHandleValidationError_Details(t *testing.T) {
	router := newValidationTestRouter[phonePayload]()

	w := postJSON(router, `{"phone":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), `"field":"phone"`)
	assert.Contains(t, w.Body.String(), "10-digit")
}
