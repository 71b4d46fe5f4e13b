package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gostorefront/storefront/internal/config"
	"github.com/gostorefront/storefront/internal/httpx"
	"github.com/gostorefront/storefront/internal/order"
	"github.com/gostorefront/storefront/internal/product"
	"github.com/gostorefront/storefront/internal/session"
	"github.com/gostorefront/storefront/internal/user"
)

func main() {
	initDB := flag.Bool("init-db", false, "create tables, seed an admin account and sample products, then exit")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[db] connect: %v", err)
	}
	defer pool.Close()

	if *initDB {
		if err := initSchema(ctx, pool); err != nil {
			log.Fatalf("[db] init: %v", err)
		}
		log.Printf("[db] schema created and seeded")
		return
	}

	var products product.Repository = product.NewPGRepo(pool)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		products = product.NewCache(products, rdb, 5*time.Minute)
	}
	orders := order.NewPGRepo(pool)

	codec := session.NewCodec(cfg.SessionSecret, cfg.SessionTTL, cfg.SessionRememberTTL)
	userSvc := user.NewService(user.NewPGRepo(pool))
	orderSvc := order.NewService(orders, products)

	r := newRouter(codec, products, orders, orderSvc, userSvc)
	log.Printf("storefront listening on %s", cfg.Addr)
	log.Fatal(r.Run(cfg.Addr))
}

func newRouter(
	codec *session.Codec,
	products product.Repository,
	orders order.Repository,
	orderSvc *order.Service,
	userSvc *user.Service,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Sessions(codec))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/products", listProductsHandler(products))
	r.GET("/products/:id", getProductHandler(products))

	r.GET("/cart", getCartHandler(products))
	r.POST("/cart/items", addToCartHandler(codec, products))
	r.POST("/cart", updateCartHandler(codec))
	r.DELETE("/cart", clearCartHandler(codec))

	r.POST("/register", registerHandler(userSvc))
	r.POST("/login", loginHandler(codec, userSvc))

	auth := r.Group("", httpx.RequireUser())
	auth.POST("/logout", logoutHandler(codec))
	auth.POST("/checkout", checkoutHandler(codec, orderSvc))
	auth.GET("/orders", listOrdersHandler(orders))
	auth.GET("/orders/:id", getOrderHandler(orders))

	admin := r.Group("/admin", httpx.RequireAdmin())
	admin.GET("/products", adminListProductsHandler(products))
	admin.POST("/products", createProductHandler(products))
	admin.PUT("/products/:id", updateProductHandler(products))
	admin.DELETE("/products/:id", deleteProductHandler(products))

	return r
}
