package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iscedcs/palmtechniq/config"
	"github.com/iscedcs/palmtechniq/models"
	"github.com/iscedcs/palmtechniq/utils"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
}

// RegisterUser handles user registration
// POST /user/register
func RegisterUser(c *gin.Context) {
	utils.LogInfo("RegisterUser called")

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "Please check your input data and ensure all required fields are provided correctly.")
		return
	}

	req.Username = utils.SanitizeString(req.Username)
	req.Email = strings.ToLower(utils.SanitizeString(req.Email))

	if err := utils.ValidateUsername(req.Username); err != nil {
		utils.BadRequest(c, "Invalid username", err.Error())
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		utils.BadRequest(c, "Invalid email", err.Error())
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		utils.BadRequest(c, "Invalid password", err.Error())
		return
	}
	if req.Password != req.ConfirmPassword {
		utils.BadRequest(c, "Passwords do not match", "Password and confirm password must be the same.")
		return
	}

	var existing models.User
	if err := config.DB.Where("LOWER(email) = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		utils.LogError("Registration for taken email or username: %s", req.Email)
		utils.Conflict(c, "Email or username already registered", nil)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Failed to process registration", nil)
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		FirstName: utils.SanitizeString(req.FirstName),
		LastName:  utils.SanitizeString(req.LastName),
		Phone:     utils.SanitizeString(req.Phone),
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	utils.LogInfo("Registered user %s with ID: %d", user.Email, user.ID)
	utils.Created(c, "Registration successful", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginUser handles user login and issues a JWT
// POST /user/login
func LoginUser(c *gin.Context) {
	utils.LogInfo("LoginUser called")

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("LOWER(email) = LOWER(?)", req.Email).First(&user).Error; err != nil {
		utils.LogError("Login for unknown email: %s", req.Email)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Wrong password for user ID: %d", user.ID)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if user.IsBlocked {
		utils.LogError("Blocked user attempted login: %d", user.ID)
		utils.Forbidden(c, "Account is blocked")
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	config.DB.Model(&user).Update("last_login_at", time.Now())

	utils.LogInfo("User logged in: %d", user.ID)
	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"is_tutor":   user.IsTutor,
		},
	})
}

// LogoutUser blacklists the presented token until its natural expiry
// POST /user/logout
func LogoutUser(c *gin.Context) {
	utils.LogInfo("LogoutUser called")

	authHeader := c.GetHeader("Authorization")
	tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
	if tokenString == "" {
		utils.BadRequest(c, "No token provided", nil)
		return
	}

	blacklisted := models.BlacklistedToken{
		Token:     tokenString,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := config.DB.Create(&blacklisted).Error; err != nil {
		utils.LogError("Failed to blacklist token: %v", err)
		utils.InternalServerError(c, "Failed to logout", nil)
		return
	}

	utils.LogInfo("Token blacklisted on logout")
	utils.Success(c, "Logged out successfully", nil)
}

// GoogleUserInfo is the profile payload returned by Google's userinfo endpoint
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleLogin redirects the browser into the Google consent flow
// GET /user/auth/google
func GoogleLogin(c *gin.Context) {
	url := config.GoogleOAuthConfig.AuthCodeURL("state")
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback completes the Google sign-in, provisioning an account on
// first login
// GET /user/auth/google/callback
func GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		utils.BadRequest(c, "No code provided", nil)
		return
	}

	token, err := config.GoogleOAuthConfig.Exchange(c, code)
	if err != nil {
		utils.InternalServerError(c, "Failed to exchange token", err.Error())
		return
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		utils.InternalServerError(c, "Failed to get user info", err.Error())
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.InternalServerError(c, "Failed to read response", err.Error())
		return
	}

	var googleUser GoogleUserInfo
	if err := json.Unmarshal(data, &googleUser); err != nil {
		utils.InternalServerError(c, "Failed to parse user info", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", googleUser.Email).First(&user).Error; err != nil {
		user = models.User{
			Email:      googleUser.Email,
			FirstName:  googleUser.GivenName,
			LastName:   googleUser.FamilyName,
			IsVerified: true,
			GoogleID:   googleUser.ID,
			// Email doubles as username for Google-provisioned accounts
			Username: googleUser.Email,
		}

		password := googleUser.ID[:8] + fmt.Sprintf("%d", time.Now().Unix())
		hashed, err := utils.HashPassword(password)
		if err != nil {
			utils.InternalServerError(c, "Failed to hash password", err.Error())
			return
		}
		user.Password = hashed

		if err := config.DB.Create(&user).Error; err != nil {
			utils.InternalServerError(c, "Failed to create user", err.Error())
			return
		}
		utils.LogInfo("Provisioned Google user %s with ID: %d", user.Email, user.ID)
	}

	if user.IsBlocked {
		utils.Forbidden(c, "Account is blocked")
		return
	}

	jwtToken, err := utils.GenerateToken(&user)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	config.DB.Model(&user).Update("last_login_at", time.Now())

	redirectURL := fmt.Sprintf("%s?token=%s&user=%s",
		os.Getenv("FRONTEND_URL"),
		url.QueryEscape(jwtToken),
		url.QueryEscape(fmt.Sprintf(`{"id":%d,"email":"%s","firstName":"%s","lastName":"%s"}`,
			user.ID, user.Email, user.FirstName, user.LastName)))

	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
