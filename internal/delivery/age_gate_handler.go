package delivery

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/usecase"
)

const birthDateLayout = "2006-01-02"

type AgeGateHandler struct {
	gate *usecase.AgeGate
	now  func() time.Time
	log  *logrus.Logger
}

func NewAgeGateHandler(gate *usecase.AgeGate, logger *logrus.Logger) *AgeGateHandler {
	return &AgeGateHandler{gate: gate, now: time.Now, log: logger}
}

func (h *AgeGateHandler) Status(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Age verification status", gin.H{
		"verified":   h.gate.Verified(),
		"minimumAge": usecase.MinimumAge,
	})
}

func (h *AgeGateHandler) Verify(c *gin.Context) {
	var req struct {
		BirthDate string `json:"birthDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	now := h.now()
	var birth time.Time
	if req.BirthDate != "" {
		parsed, err := time.ParseInLocation(birthDateLayout, req.BirthDate, now.Location())
		if err != nil {
			h.log.Warnf("Handler: Invalid birth date '%s': %v", req.BirthDate, err)
			ErrorResponse(c, http.StatusBadRequest, "Invalid date of birth, expected YYYY-MM-DD")
			return
		}
		birth = parsed
	}
	if err := h.gate.Verify(birth, now); err != nil {
		failWith(c, err, "Failed to verify age")
		return
	}
	SuccessResponse(c, http.StatusOK, "Age verified", gin.H{"redirectTo": usecase.PathHome})
}
