package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
	"github.com/coldreach/cedb/modules/crm/handlers"
	"github.com/coldreach/cedb/modules/crm/presentation/mappers"
	"github.com/coldreach/cedb/modules/crm/presentation/viewmodels"
	"github.com/coldreach/cedb/modules/crm/services"
	"github.com/coldreach/cedb/pkg/application"
	"github.com/coldreach/cedb/pkg/httpapi"
)

type ContactController struct {
	contactService *services.ContactService
	exportService  *services.ExportService
	refreshTracker *handlers.RefreshTracker
	basePath       string
}

func NewContactController(app application.Application, tracker *handlers.RefreshTracker) application.Controller {
	return &ContactController{
		contactService: app.Service(services.ContactService{}).(*services.ContactService),
		exportService:  app.Service(services.ExportService{}).(*services.ExportService),
		refreshTracker: tracker,
		basePath:       "/crm/api/contacts",
	}
}

func (c *ContactController) Key() string {
	return c.basePath
}

func (c *ContactController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/options", c.Options).Methods(http.MethodGet)
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

// filterFromQuery builds the in-memory filter from the list query params.
// Multi-select params repeat: ?industry=University&industry=School+District.
func filterFromQuery(r *http.Request) contact.FilterState {
	q := r.URL.Query()
	return contact.FilterState{
		Query:      q.Get("q"),
		Industries: q["industry"],
		States:     q["state"],
		Statuses:   q["status"],
		DateRange:  contact.DateRange(q.Get("date_range")),
	}
}

func (c *ContactController) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := c.contactService.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	filtered := filterFromQuery(r).Apply(contacts, time.Now())
	_ = httpapi.WriteJSON(w, http.StatusOK, &viewmodels.ContactList{
		Items:   mappers.ContactsToViewModels(filtered),
		Stats:   contact.ComputeStats(filtered),
		Refresh: c.refreshTracker.Version(),
	})
}

func (c *ContactController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entity, err := c.contactService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.ContactToViewModel(entity))
}

func (c *ContactController) Create(w http.ResponseWriter, r *http.Request) {
	var dto contact.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_JSON", "request body is not valid JSON", nil)
		return
	}
	if fields, ok := dto.Ok(); !ok {
		writeValidationError(w, fields)
		return
	}

	created, err := c.contactService.Create(r.Context(), &dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.ContactToViewModel(created))
}

func (c *ContactController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var dto contact.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_JSON", "request body is not valid JSON", nil)
		return
	}
	if fields, ok := dto.Ok(); !ok {
		writeValidationError(w, fields)
		return
	}

	updated, err := c.contactService.Update(r.Context(), id, &dto)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.ContactToViewModel(updated))
}

func (c *ContactController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := c.contactService.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.ContactToViewModel(deleted))
}

func (c *ContactController) Options(w http.ResponseWriter, _ *http.Request) {
	statuses := make([]string, 0, len(contact.Statuses))
	for _, s := range contact.Statuses {
		statuses = append(statuses, string(s))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &viewmodels.Options{
		Industries: contact.Industries,
		States:     contact.USStates,
		Statuses:   statuses,
	})
}

func (c *ContactController) Export(w http.ResponseWriter, r *http.Request) {
	data, err := c.exportService.ExportFiltered(r.Context(), filterFromQuery(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	fileName := fmt.Sprintf("contacts-%s.xlsx", time.Now().Format(time.DateOnly))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	_, _ = w.Write(data)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_ID", "id is not a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}
