package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gostorefront/storefront/internal/httpx"
	"github.com/gostorefront/storefront/internal/session"
	"github.com/gostorefront/storefront/internal/user"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func registerHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and a password of at least 6 characters are required"})
			return
		}
		u, err := svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrDuplicateEmail) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email, "name": u.Name})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

func loginHandler(codec *session.Codec, svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		u, err := svc.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log in"})
			return
		}

		// the anonymous cart carries over into the authenticated session
		s := httpx.CurrentSession(c)
		s.UserID = u.ID
		s.Admin = u.Admin
		s.Remember = req.Remember
		if err := httpx.SaveSession(c, codec, s); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "name": u.Name, "admin": u.Admin})
	}
}

func logoutHandler(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := httpx.CurrentSession(c)
		s.UserID = ""
		s.Admin = false
		s.Remember = false
		if err := httpx.SaveSession(c, codec, s); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}
