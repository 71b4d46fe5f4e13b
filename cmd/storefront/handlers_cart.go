package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gostorefront/storefront/internal/cart"
	"github.com/gostorefront/storefront/internal/httpx"
	"github.com/gostorefront/storefront/internal/product"
	"github.com/gostorefront/storefront/internal/session"
)

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func addToCartHandler(codec *session.Codec, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
			return
		}
		if req.Quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		if _, err := products.GetByID(c.Request.Context(), req.ProductID); err != nil {
			if errors.Is(err, product.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load product"})
			return
		}

		s := httpx.CurrentSession(c)
		s.Cart = cart.Add(s.Cart, req.ProductID, req.Quantity)
		if err := httpx.SaveSession(c, codec, s); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": s.Cart})
	}
}

func getCartHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := httpx.CurrentSession(c)
		lines, total, err := cart.Price(c.Request.Context(), products, s.Cart)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not price cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": lines, "total": total})
	}
}

// updateCartHandler replaces the whole cart from form fields named
// qty_<productID>. Anything that does not parse as a positive integer
// drops the entry.
func updateCartHandler(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
			return
		}
		raw := map[string]string{}
		for key, vals := range c.Request.PostForm {
			if strings.HasPrefix(key, "qty_") && len(vals) > 0 {
				raw[strings.TrimPrefix(key, "qty_")] = vals[0]
			}
		}

		s := httpx.CurrentSession(c)
		s.Cart = cart.Replace(raw)
		if err := httpx.SaveSession(c, codec, s); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": s.Cart})
	}
}

func clearCartHandler(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := httpx.CurrentSession(c)
		s.Cart = map[string]int{}
		if err := httpx.SaveSession(c, codec, s); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": s.Cart})
	}
}
