package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"spicymarket/auth"
	"spicymarket/cart"
	"spicymarket/checkout"
	"spicymarket/i18n"
	"spicymarket/storage"
)

type Deps struct {
	Store        *storage.Store
	Catalog      *i18n.Catalog
	Identity     auth.IdentityProvider
	Sessions     *auth.Sessions
	Carts        *cart.Registry
	Checkout     *checkout.Service
	LoginLimiter *RateLimiter
	Logger       *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	ah := &AuthHandler{Store: d.Store, Identity: d.Identity, Sessions: d.Sessions, Catalog: d.Catalog, Logger: d.Logger}
	uh := &UserHandler{Store: d.Store, Catalog: d.Catalog, Logger: d.Logger}
	ph := &ProductHandler{Store: d.Store, Logger: d.Logger}
	ch := &CartHandler{Store: d.Store, Carts: d.Carts, Logger: d.Logger}
	oh := &OrderHandler{Store: d.Store, Carts: d.Carts, Checkout: d.Checkout, Logger: d.Logger}
	pmh := &PaymentMethodHandler{Store: d.Store, Logger: d.Logger}
	dh := &DashboardHandler{Store: d.Store, Logger: d.Logger}
	ih := &I18nHandler{Catalog: d.Catalog}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(AccessLog(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(Localize(d.Catalog))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "errors.notFound")
	})

	r.Get("/", Index)
	r.Get("/health", Health)
	r.Get("/i18n", ih.Languages)
	r.Get("/i18n/{lang}", ih.Bundle)

	r.Post("/auth/signup", ah.Signup)
	if d.LoginLimiter != nil {
		r.With(d.LoginLimiter.Middleware).Post("/auth/login", ah.Login)
	} else {
		r.Post("/auth/login", ah.Login)
	}

	r.Get("/products", ph.List)
	r.Get("/products/{id}", ph.Get)
	r.Get("/payment-methods", pmh.List)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(d.Sessions, d.Logger))

		r.Post("/auth/logout", ah.Logout)

		r.Get("/me", uh.Me)
		r.Put("/me/profile", uh.UpdateProfile)
		r.Put("/me/password", uh.ChangePassword)
		r.Put("/me/language", uh.SetLanguage)

		r.Get("/cart", ch.Get)
		r.Delete("/cart", ch.Clear)
		r.Post("/cart/items", ch.AddItem)
		r.Put("/cart/items/{productID}", ch.SetItem)
		r.Delete("/cart/items/{productID}", ch.RemoveItem)

		r.Post("/orders", oh.Place)
		r.Get("/orders", oh.Mine)
		r.Post("/orders/{id}/payment", oh.Pay)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Get("/dashboard", dh.Stats)

			r.Post("/products", ph.Create)
			r.Put("/products/{id}", ph.Update)
			r.Delete("/products/{id}", ph.Delete)

			r.Get("/users", uh.Users)
			r.Post("/users", uh.CreateAdmin)

			r.Get("/orders", oh.All)

			r.Get("/payment-methods", pmh.List)
			r.Post("/payment-methods", pmh.Create)
			r.Put("/payment-methods/{id}", pmh.Update)
			r.Delete("/payment-methods/{id}", pmh.Delete)
		})
	})

	return r
}
