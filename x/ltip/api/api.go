package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"cosmossdk.io/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/keeper"
	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

// ViewsAPI serves the read-only views spec.md §6 exposes externally
// (get_account, get_spare_balance, get_config, members) plus the
// paginated account listing SPEC_FULL.md adds. Every handler reads
// through the keeper directly; there is no separate cache layer.
//
// queryCtx is the store-bound context every handler reads through. It is
// not derived from the incoming *http.Request: the keeper's collections
// need an sdk.Context (or one carrying sdk.SdkContextKey), which an HTTP
// client can never supply, so the caller wires one store context at
// construction time and every request reads through it directly.
type ViewsAPI struct {
	logger   log.Logger
	keeper   keeper.Keeper
	queryCtx context.Context
	router   *chi.Mux
}

// NewViewsAPI constructs the router and wires every route eagerly, the
// way the teacher's DemoAPI registers routes inside its constructor.
func NewViewsAPI(logger log.Logger, k keeper.Keeper, queryCtx context.Context) *ViewsAPI {
	api := &ViewsAPI{logger: logger, keeper: k, queryCtx: queryCtx, router: chi.NewRouter()}

	api.router.Use(middleware.Logger)
	api.router.Use(middleware.Recoverer)
	api.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	api.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", api.handleGetConfig)
		r.Get("/spare-balance", api.handleGetSpareBalance)
		r.Get("/accounts", api.handleListAccounts)
		r.Get("/accounts/{accountID}", api.handleGetAccount)
		r.Get("/roles/{role}/members", api.handleGetMembers)
		r.Get("/health", api.handleHealth)
	})

	return api
}

// Handler returns the underlying http.Handler for StartServer/httptest use.
func (api *ViewsAPI) Handler() http.Handler { return api.router }

func jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}

func (api *ViewsAPI) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := api.keeper.GetConfig(api.queryCtx)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusNotFound)
		return
	}
	jsonResponse(w, cfg, http.StatusOK)
}

func (api *ViewsAPI) handleGetSpareBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := api.keeper.GetSpareBalance(api.queryCtx)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"spare_balance": balance.String()}, http.StatusOK)
}

func (api *ViewsAPI) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	fromIndex, limit := 0, 0
	if raw := r.URL.Query().Get("from"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			fromIndex = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	accounts, err := api.keeper.ListAccountsPage(api.queryCtx, fromIndex, limit)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]any{
		"accounts": accounts,
		"count":    len(accounts),
	}, http.StatusOK)
}

func (api *ViewsAPI) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	acc, err := api.keeper.GetAccount(api.queryCtx, accountID)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if acc == nil {
		errorResponse(w, "account not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, acc, http.StatusOK)
}

func (api *ViewsAPI) handleGetMembers(w http.ResponseWriter, r *http.Request) {
	role := types.Role(chi.URLParam(r, "role"))
	members, err := api.keeper.Members(api.queryCtx, role)
	if err != nil {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	jsonResponse(w, map[string]any{"role": role, "members": members}, http.StatusOK)
}

func (api *ViewsAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}, http.StatusOK)
}

// StartServer runs the views gateway until ctx is cancelled, mirroring the
// teacher's StartServer but with a graceful shutdown tied to ctx instead of
// blocking forever on ListenAndServe.
func (api *ViewsAPI) StartServer(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      api.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		api.logger.Info("ltip views API listening", "address", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
