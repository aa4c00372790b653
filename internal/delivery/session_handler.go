package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/usecase"
)

type SessionHandler struct {
	auth *usecase.AuthState
	cart *usecase.CartState
	log  *logrus.Logger
}

func NewSessionHandler(auth *usecase.AuthState, cart *usecase.CartState, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{auth: auth, cart: cart, log: logger}
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Phone string `json:"phone"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// sessionView is the identity as exposed to the page, without the token.
type sessionView struct {
	ID    string      `json:"_id"`
	Name  string      `json:"name"`
	Phone string      `json:"phone"`
	Role  domain.Role `json:"role"`
}

func viewOf(identity *domain.Identity) *sessionView {
	if identity == nil {
		return nil
	}
	return &sessionView{ID: identity.ID, Name: identity.Name, Phone: identity.Phone, Role: identity.Role}
}

func landingFor(identity *domain.Identity) string {
	if identity.IsAdmin() {
		return usecase.PathAdmin
	}
	return usecase.PathShop
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind login request: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	identity, err := h.auth.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		failWith(c, err, "Unable to login. Please check your credentials.")
		return
	}
	SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"user":       viewOf(identity),
		"redirectTo": landingFor(identity),
	})
}

func (h *SessionHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind register request: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	identity, err := h.auth.Register(c.Request.Context(), req.Name, req.Phone, req.Password)
	if err != nil {
		failWith(c, err, "Registration failed. Please verify your details.")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Account created successfully", gin.H{
		"user":       viewOf(identity),
		"redirectTo": landingFor(identity),
	})
}

func (h *SessionHandler) Logout(c *gin.Context) {
	h.auth.Logout()
	SuccessResponse(c, http.StatusOK, "Logged out", gin.H{"redirectTo": usecase.PathLogin})
}

func (h *SessionHandler) Me(c *gin.Context) {
	identity, loading := h.auth.Snapshot()
	SuccessResponse(c, http.StatusOK, "Session retrieved", gin.H{
		"user":          viewOf(identity),
		"loading":       loading,
		"viewer":        usecase.Classify(identity, loading),
		"cartItemCount": h.cart.ItemCount(),
	})
}

func (h *SessionHandler) UpdateProfile(c *gin.Context) {
	var update domain.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.log.Warnf("Handler: Failed to bind profile update: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	identity, err := h.auth.UpdateProfile(c.Request.Context(), update)
	if err != nil {
		failWith(c, err, "Failed to update profile")
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile updated successfully", viewOf(identity))
}

func (h *SessionHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.auth.ForgotPassword(c.Request.Context(), req.Phone); err != nil {
		failWith(c, err, "Unable to send reset SMS. Please try again.")
		return
	}
	SuccessResponse(c, http.StatusOK, "Password reset instructions sent via SMS", nil)
}

func (h *SessionHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password, req.ConfirmPassword); err != nil {
		failWith(c, err, "Password reset failed. Please try again.")
		return
	}
	SuccessResponse(c, http.StatusOK, "Password reset successful", gin.H{"redirectTo": usecase.PathLogin})
}

func (h *SessionHandler) DeleteAccount(c *gin.Context) {
	if err := h.auth.DeleteAccount(c.Request.Context()); err != nil {
		failWith(c, err, "Failed to delete account")
		return
	}
	SuccessResponse(c, http.StatusOK, "Account deleted", gin.H{"redirectTo": usecase.PathHome})
}
