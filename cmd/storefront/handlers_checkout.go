package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gostorefront/storefront/internal/httpx"
	"github.com/gostorefront/storefront/internal/order"
	"github.com/gostorefront/storefront/internal/session"
)

func checkoutHandler(codec *session.Codec, svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := httpx.CurrentSession(c)
		o, err := svc.Place(c.Request.Context(), s.UserID, s.Cart)
		if err != nil {
			if errors.Is(err, order.ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not place order"})
			return
		}

		// cart survives any failure above; it only empties on success
		s.Cart = map[string]int{}
		if err := httpx.SaveSession(c, codec, s); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save session"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order_id": o.ID, "total": o.Total})
	}
}

func listOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := httpx.CurrentSession(c)
		orders, err := repo.ListByUser(c.Request.Context(), s.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
			return
		}
		if orders == nil {
			orders = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"items": orders})
	}
}

func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := httpx.CurrentSession(c)
		o, items, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load order"})
			return
		}
		// a foreign order is indistinguishable from a missing one
		if o.UserID != s.UserID {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if items == nil {
			items = []order.Item{}
		}
		c.JSON(http.StatusOK, gin.H{"order": o, "items": items})
	}
}
