package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kwadjoe/campuslinkbackend/repository"
)

type UsersController struct {
	Users repository.UserStore
}

func NewUsersController(users repository.UserStore) *UsersController {
	return &UsersController{Users: users}
}

// GET /users/me
func (u *UsersController) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get("userID")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		user, err := u.Users.FindByID(c.Request.Context(), userID.(string))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": publicUser(user)})
	}
}
