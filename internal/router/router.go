package router

import (
	"net/http"

	"github.com/beerlog/backend/internal/auth"
	"github.com/beerlog/backend/internal/handlers"
	"github.com/beerlog/backend/internal/middleware"
)

// New returns an http.Handler serving the API under /api/v1. Everything
// except login and the health probe sits behind bearer-token auth.
func New(authHandler *auth.Handler, authSvc auth.Service, payments *handlers.PaymentHandler, logs *handlers.LogHandler, rankings *handlers.RankingHandler, users *handlers.UserHandler, settings *handlers.SettingHandler) http.Handler {
	mux := http.NewServeMux()
	base := "/api/v1"

	mux.HandleFunc(base+"/auth/login", methodPOST(authHandler.Login))
	mux.HandleFunc("/health", methodGET(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))

	authed := http.NewServeMux()
	authed.HandleFunc(base+"/payments", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			payments.RecordPayment(w, r)
		case http.MethodGet:
			payments.ListPayments(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	authed.HandleFunc(base+"/payments/allocate", methodPOST(payments.Allocate))
	authed.HandleFunc(base+"/balance", methodGET(payments.GetBalance))

	authed.HandleFunc(base+"/logs", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			logs.SaveLog(w, r)
		case http.MethodGet:
			logs.ListLogs(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	authed.HandleFunc("PUT "+base+"/logs/{id}", logs.SaveLog)

	authed.HandleFunc(base+"/rankings", methodGET(rankings.List))
	authed.HandleFunc(base+"/rankings/me", methodGET(rankings.Me))
	authed.HandleFunc(base+"/users", methodGET(users.List))

	authed.HandleFunc(base+"/settings/beer-price", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			settings.GetBeerPrice(w, r)
		case http.MethodPut:
			settings.SetBeerPrice(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	requireAuth := middleware.RequireAuth(authSvc)
	mux.Handle(base+"/", requireAuth(authed))

	return middleware.RequestID(mux)
}

func methodGET(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func methodPOST(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}
