package routes

import (
	"net/http"

	"github.com/Rakhulsr/afronectar/app/handlers"
	"github.com/Rakhulsr/afronectar/app/middlewares"
	"github.com/Rakhulsr/afronectar/app/services"
	"github.com/Rakhulsr/afronectar/app/utils/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Catalog  *services.Catalog
	Render   *render.Render
	Log      *zap.Logger
	Metrics  *metrics.Recorder
	Gatherer prometheus.Gatherer
	Currency string
}

func NewRouter(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger(deps.Log), middlewares.Metrics(deps.Metrics))

	homeHandler := handlers.NewHomeHandler(deps.Render)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, deps.Render, deps.Log, deps.Currency)

	router.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/categories", catalogHandler.CreateCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", catalogHandler.GetCategory).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}/parent", catalogHandler.MoveCategory).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", catalogHandler.DeleteCategory).Methods(http.MethodDelete)

	api.HandleFunc("/products", catalogHandler.CreateProduct).Methods(http.MethodPost)
	api.HandleFunc("/products", catalogHandler.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", catalogHandler.DeleteProduct).Methods(http.MethodDelete)

	api.HandleFunc("/items", catalogHandler.CreateItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}/stock", catalogHandler.ItemStock).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", catalogHandler.DeleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/items/{id}/properties", catalogHandler.AttachProperty).Methods(http.MethodPost)

	api.HandleFunc("/batches", catalogHandler.CreateBatch).Methods(http.MethodPost)
	api.HandleFunc("/sales", catalogHandler.RecordSale).Methods(http.MethodPost)

	return router
}
