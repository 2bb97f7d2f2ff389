package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwadjoe/campuslinkbackend/dto"
	"github.com/kwadjoe/campuslinkbackend/models"
	"github.com/kwadjoe/campuslinkbackend/repository"
	"github.com/kwadjoe/campuslinkbackend/services"
	"github.com/kwadjoe/campuslinkbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// AuthController bundles the auth flows' dependencies: the credential
// store, the revocation blacklist and the OTP manager.
type AuthController struct {
	Users     repository.UserStore
	Blacklist *services.TokenBlacklist
	OTPs      *services.OTPManager
}

func NewAuthController(users repository.UserStore, blacklist *services.TokenBlacklist, otps *services.OTPManager) *AuthController {
	return &AuthController{Users: users, Blacklist: blacklist, OTPs: otps}
}

const storeTimeout = 5 * time.Second

func publicUser(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     user.Email,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	}
}

// POST /auth/register
func (a *AuthController) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		firstName := strings.TrimSpace(body.FirstName)
		lastName := strings.TrimSpace(body.LastName)
		if firstName == "" || lastName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "first and last name are required"})
			return
		}
		if err := utils.ValidatePassword(body.Password); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		if _, err := a.Users.FindByEmail(ctx, email); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		} else if !errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		now := time.Now().UTC()
		user := models.User{
			ID:           bson.NewObjectID(),
			FirstName:    firstName,
			LastName:     lastName,
			Email:        email,
			PasswordHash: hash,
			Role:         utils.DeriveRole(email),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), utils.AccessTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex(), utils.RefreshTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate refresh token"})
			return
		}
		user.RefreshToken = refreshToken

		if err := a.Users.Insert(ctx, &user); err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			log.Println("insert user:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"user":         publicUser(&user),
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		})
	}
}

// POST /auth/login
func (a *AuthController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		user, err := a.Users.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// never reveal whether the email exists
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}
		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), utils.AccessTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex(), utils.RefreshTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate refresh token"})
			return
		}

		if err := a.Users.UpdateByID(ctx, user.ID.Hex(), bson.M{"refreshToken": refreshToken}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user":         publicUser(user),
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		})
	}
}

// POST /auth/logout
//
// Best effort: the presented access token is blacklisted unconditionally,
// and the stored refresh token is cleared only when the token still parses.
// Logout succeeds even with an already-invalid token.
func (a *AuthController) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetHeader("Authorization")
		a.Blacklist.Revoke(tokenStr)

		if tokenStr != "" {
			if claims, err := utils.ValidateToken(tokenStr, os.Getenv("JWT_SECRET")); err == nil {
				ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
				defer cancel()
				_ = a.Users.UpdateByID(ctx, claims.Subject, bson.M{"refreshToken": ""})
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// POST /auth/refresh
//
// The stored refresh token is the source of truth: a presented token that
// does not match it exactly (e.g. superseded by a later login) is rejected.
// The refresh token itself is not rotated here.
func (a *AuthController) Refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RefreshDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		claims, err := utils.ValidateToken(body.RefreshToken, os.Getenv("JWT_REFRESH_SECRET"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()
		user, err := a.Users.FindByID(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}
		if user.RefreshToken == "" || user.RefreshToken != body.RefreshToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), utils.AccessTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
			return
		}

		// retire the old access token if one was presented
		if old := c.GetHeader("Authorization"); old != "" {
			a.Blacklist.Revoke(old)
		}

		c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
	}
}

// POST /auth/forgot-password
func (a *AuthController) ForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ForgotPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()
		if _, err := a.Users.FindByEmail(ctx, email); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no account with this email"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}

		if _, err := a.OTPs.Issue(email); err != nil {
			log.Println("issue otp:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send otp"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "otp sent"})
	}
}

// POST /auth/verify-otp
//
// OTP failure reasons are distinguished to the caller; this flow is not a
// credential-probing surface the way login is.
func (a *AuthController) VerifyOtp() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.VerifyOtpDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		switch a.OTPs.Verify(email, body.Otp) {
		case services.VerifyOk:
			c.JSON(http.StatusOK, gin.H{"message": "otp verified"})
		case services.VerifyNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "no otp requested for this email"})
		case services.VerifyExpired:
			c.JSON(http.StatusGone, gin.H{"error": "otp expired"})
		case services.VerifyMismatch:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect otp"})
		}
	}
}

// POST /auth/resend-otp
func (a *AuthController) ResendOtp() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ResendOtpDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		if _, err := a.OTPs.Resend(email); err != nil {
			if errors.Is(err, services.ErrNoOTP) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no otp requested for this email"})
				return
			}
			log.Println("resend otp:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send otp"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "otp sent"})
	}
}

// POST /auth/reset-password
//
// Reachable without a preceding verify-otp for the same email; the flows
// are not bound together. Covered explicitly by a test.
func (a *AuthController) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ResetPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := utils.ValidatePassword(body.NewPassword); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		user, err := a.Users.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no account with this email"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}

		hash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		if err := a.Users.UpdateByID(ctx, user.ID.Hex(), bson.M{"passwordHash": hash}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}
