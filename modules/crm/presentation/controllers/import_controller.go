package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/coldreach/cedb/modules/crm/presentation/mappers"
	"github.com/coldreach/cedb/modules/crm/services"
	"github.com/coldreach/cedb/pkg/application"
	"github.com/coldreach/cedb/pkg/configuration"
	"github.com/coldreach/cedb/pkg/httpapi"
)

type ImportController struct {
	importService *services.ImportService
	basePath      string
}

func NewImportController(app application.Application) application.Controller {
	return &ImportController{
		importService: app.Service(services.ImportService{}).(*services.ImportService),
		basePath:      "/crm/api/imports",
	}
}

func (c *ImportController) Key() string {
	return c.basePath
}

func (c *ImportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/staged", c.Stage).Methods(http.MethodPost)
	router.HandleFunc("/staged", c.Staged).Methods(http.MethodGet)
	router.HandleFunc("/staged", c.Cancel).Methods(http.MethodDelete)
	router.HandleFunc("", c.Execute).Methods(http.MethodPost)
}

// Stage accepts a multipart upload under the "file" field, checks the
// extension and size, and parks it in the staging slot.
func (c *ImportController) Stage(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	if err := r.ParseMultipartForm(conf.MaxUploadMemory); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_MULTIPART", "request is not valid multipart form data", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "MISSING_FILE", "multipart field \"file\" is required", nil)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_NOT_CSV", "only .csv files can be imported", nil)
		return
	}
	if limit := conf.Staging.MaxFileSize; limit > 0 && header.Size > limit {
		_ = httpapi.WriteError(w, http.StatusRequestEntityTooLarge, "IMPORT_FILE_TOO_LARGE", "file exceeds the staging size limit", nil)
		return
	}

	blob, err := io.ReadAll(file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := c.importService.Stage(r.Context(), header.Filename, blob); err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]string{"file_name": header.Filename})
}

func (c *ImportController) Staged(w http.ResponseWriter, r *http.Request) {
	overview, err := c.importService.Staged(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.StagedUploadToViewModel(overview))
}

func (c *ImportController) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := c.importService.Cancel(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type executeRequest struct {
	Mapping map[string]string `json:"mapping"`
}

func (c *ImportController) Execute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_JSON", "request body is not valid JSON", nil)
		return
	}

	mapping, ok := mappers.MappingFromViewModel(req.Mapping)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_MAPPING", "mapping contains an unknown target field", nil)
		return
	}

	result, err := c.importService.Execute(r.Context(), mapping)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if result.Failed == nil {
		result.Failed = []services.RowError{}
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, result)
}
