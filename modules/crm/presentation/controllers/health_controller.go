package controllers

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coldreach/cedb/pkg/application"
	"github.com/coldreach/cedb/pkg/httpapi"
)

// requiredEnv is what the service cannot run without; /health reports each
// one's presence so a misdeployed instance is diagnosable from the outside.
var requiredEnv = []string{
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
	"DB_USER",
	"DB_PASSWORD",
}

type HealthController struct {
	pool     *pgxpool.Pool
	basePath string
}

func NewHealthController(app application.Application) application.Controller {
	return &HealthController{
		pool:     app.DB(),
		basePath: "/health",
	}
}

func (c *HealthController) Key() string {
	return c.basePath
}

func (c *HealthController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath, c.Get).Methods(http.MethodGet)
}

type healthResponse struct {
	Status   string          `json:"status"`
	Database string          `json:"database"`
	Env      map[string]bool `json:"env"`
}

func (c *HealthController) Get(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Database: "ok",
		Env:      make(map[string]bool, len(requiredEnv)),
	}
	for _, name := range requiredEnv {
		present := os.Getenv(name) != ""
		resp.Env[name] = present
		if !present {
			resp.Status = "degraded"
		}
	}

	if err := c.pool.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	_ = httpapi.WriteJSON(w, status, &resp)
}
