package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marketbay/shop-backend/internal/address"
	"github.com/marketbay/shop-backend/internal/auth"
	"github.com/marketbay/shop-backend/internal/cart"
	"github.com/marketbay/shop-backend/internal/handler"
	"github.com/marketbay/shop-backend/internal/order"
	"github.com/marketbay/shop-backend/internal/product"
	"github.com/marketbay/shop-backend/internal/user"
)

// NewRouter wires repositories, services and handlers onto a chi router.
func NewRouter(pool *pgxpool.Pool, tokens *auth.TokenManager) *chi.Mux {
	userSvc := user.NewService(user.NewRepository(pool))
	productRepo := product.NewRepository(pool)
	productSvc := product.NewService(productRepo)
	addressSvc := address.NewService(address.NewRepository(pool))
	cartSvc := cart.NewService(cart.NewRepository(pool), productRepo)
	orderSvc := order.NewService(order.NewStore(pool))

	authHandler := handler.NewAuthHandler(userSvc, tokens)
	productHandler := handler.NewProductHandler(productSvc)
	addressHandler := handler.NewAddressHandler(addressSvc)
	cartHandler := handler.NewCartHandler(cartSvc)
	orderHandler := handler.NewOrderHandler(orderSvc, addressSvc)

	authMiddleware := auth.NewMiddleware(tokens)

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.GetByID)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate, auth.RequireAdmin)
				r.Post("/", productHandler.Create)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", addressHandler.List)
			r.Post("/", addressHandler.Create)
			r.Put("/{id}", addressHandler.Update)
			r.Delete("/{id}", addressHandler.Delete)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", cartHandler.Get)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{itemID}", cartHandler.UpdateItem)
			r.Delete("/items/{itemID}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.Clear)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/", orderHandler.Create)
			r.Get("/{id}", orderHandler.GetByID)
			r.Get("/user/{id}", orderHandler.ListByUser)
			r.Post("/{id}/cancel", orderHandler.Cancel)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Get("/", orderHandler.List)
				r.Patch("/{id}/status", orderHandler.UpdateStatus)
				r.Delete("/{id}", orderHandler.Delete)
			})
		})
	})

	return r
}
