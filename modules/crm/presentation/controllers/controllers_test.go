package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
	"github.com/coldreach/cedb/modules/crm/handlers"
	"github.com/coldreach/cedb/modules/crm/infrastructure/persistence"
	"github.com/coldreach/cedb/modules/crm/presentation/controllers"
	"github.com/coldreach/cedb/modules/crm/presentation/viewmodels"
	"github.com/coldreach/cedb/modules/crm/services"
	"github.com/coldreach/cedb/pkg/application"
	"github.com/coldreach/cedb/pkg/eventbus"
	"github.com/coldreach/cedb/pkg/httpapi"
)

// memContactRepository is the minimal in-memory repository the API tests
// need: uniqueness on email, soft-delete visibility, newest first.
type memContactRepository struct {
	mu       sync.Mutex
	contacts []contact.Contact
	deleted  map[uuid.UUID]bool
}

func newMemContactRepository() *memContactRepository {
	return &memContactRepository{deleted: map[uuid.UUID]bool{}}
}

func (r *memContactRepository) GetAll(_ context.Context) ([]contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]contact.Contact, 0, len(r.contacts))
	for i := len(r.contacts) - 1; i >= 0; i-- {
		if !r.deleted[r.contacts[i].ID()] {
			out = append(out, r.contacts[i])
		}
	}
	return out, nil
}

func (r *memContactRepository) GetByID(_ context.Context, id uuid.UUID) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.ID() == id && !r.deleted[id] {
			return c, nil
		}
	}
	return contact.Contact{}, contact.ErrNotFound
}

func (r *memContactRepository) Count(_ context.Context) (int64, error) {
	all, _ := r.GetAll(context.Background())
	return int64(len(all)), nil
}

func (r *memContactRepository) Create(_ context.Context, c contact.Contact) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.contacts {
		if !r.deleted[existing.ID()] && strings.EqualFold(existing.Email(), c.Email()) {
			return contact.Contact{}, contact.ErrEmailTaken
		}
	}
	now := time.Now()
	stored := contact.Hydrate(
		uuid.New(), c.Email(), c.CompanyName(), c.Industry(), c.State(), c.Status(),
		c.FirstName(), c.LastName(), c.JobTitle(), c.Phone(), c.Website(), c.Notes(),
		now, now,
	)
	r.contacts = append(r.contacts, stored)
	return stored, nil
}

func (r *memContactRepository) Update(_ context.Context, c contact.Contact) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.contacts {
		if existing.ID() == c.ID() && !r.deleted[c.ID()] {
			stored := contact.Hydrate(
				c.ID(), c.Email(), c.CompanyName(), c.Industry(), c.State(), c.Status(),
				c.FirstName(), c.LastName(), c.JobTitle(), c.Phone(), c.Website(), c.Notes(),
				existing.CreatedAt(), time.Now(),
			)
			r.contacts[i] = stored
			return stored, nil
		}
	}
	return contact.Contact{}, contact.ErrNotFound
}

func (r *memContactRepository) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.ID() == id && !r.deleted[id] {
			r.deleted[id] = true
			return nil
		}
	}
	return contact.ErrNotFound
}

func TestMain(m *testing.M) {
	// The fallback request logger opens the configured log file; keep it out
	// of the package directory.
	dir, err := os.MkdirTemp("", "crm-controllers-test")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("LOG_PATH", filepath.Join(dir, "app.log"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testEnv struct {
	router *mux.Router
	repo   *memContactRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newMemContactRepository()
	publisher := eventbus.NewEventPublisher(logrus.New())
	app := application.New(&application.ApplicationOptions{
		EventBus: publisher,
		Logger:   logrus.New(),
	})

	contactSvc := services.NewContactService(repo, publisher)
	store := persistence.NewStagingStore(t.TempDir(), 1<<20)
	importSvc := services.NewImportService(store, repo, publisher, 100, 1)
	exportSvc := services.NewExportService(contactSvc)
	app.RegisterServices(contactSvc, importSvc, exportSvc)

	tracker := handlers.NewRefreshTracker(publisher)

	router := mux.NewRouter()
	controllers.NewContactController(app, tracker).Register(router)
	controllers.NewImportController(app).Register(router)

	return &testEnv{router: router, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func createPayload(email string) map[string]string {
	return map[string]string{
		"email":        email,
		"company_name": "Acme Corp",
		"industry":     "University",
		"state":        "CA",
	}
}

func TestContactAPI_CreateAndList(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/crm/api/contacts", createPayload("jane@acme.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	var created viewmodels.Contact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Valid", created.Status)

	w = env.do(t, http.MethodGet, "/crm/api/contacts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list viewmodels.ContactList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	require.Equal(t, 1, list.Stats.Total)
	require.Equal(t, 1, list.Stats.Valid)
	require.EqualValues(t, 1, list.Refresh)
}

func TestContactAPI_ListFiltered(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/crm/api/contacts", createPayload("jane@acme.com")).Code)
	ny := createPayload("bob@globex.com")
	ny["state"] = "NY"
	ny["status"] = "Hard Bounce"
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/crm/api/contacts", ny).Code)

	w := env.do(t, http.MethodGet, "/crm/api/contacts?q=acme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list viewmodels.ContactList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	require.Equal(t, "jane@acme.com", list.Items[0].Email)

	w = env.do(t, http.MethodGet, "/crm/api/contacts?state=NY&state=TX", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	require.Equal(t, "bob@globex.com", list.Items[0].Email)

	// Stats reflect the filtered set, not the full table.
	require.Equal(t, 1, list.Stats.Total)
	require.Equal(t, 0, list.Stats.Valid)
}

func TestContactAPI_Validation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/crm/api/contacts", map[string]string{"email": "nope"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "VALIDATION", envelope.Code)
	require.Contains(t, envelope.Meta, "Email")
}

func TestContactAPI_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/crm/api/contacts", createPayload("jane@acme.com")).Code)

	w := env.do(t, http.MethodPost, "/crm/api/contacts", createPayload("jane@acme.com"))
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "CONTACT_EMAIL_CONFLICT", envelope.Code)
}

func TestContactAPI_Delete(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/crm/api/contacts", createPayload("jane@acme.com"))
	var created viewmodels.Contact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/crm/api/contacts/"+created.ID, nil).Code)
	require.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/crm/api/contacts/"+created.ID, nil).Code)
	require.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/crm/api/contacts/"+created.ID, nil).Code)

	require.Equal(t, http.StatusBadRequest, env.do(t, http.MethodDelete, "/crm/api/contacts/not-a-uuid", nil).Code)
}

func TestContactAPI_Options(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/crm/api/contacts/options", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var opts viewmodels.Options
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	require.Contains(t, opts.Industries, "School District")
	require.Len(t, opts.States, 50)
	require.Equal(t, []string{"Valid", "Hard Bounce", "Soft Bounce", "Unsubscribe", "Do Not Contact"}, opts.Statuses)
}

func multipartCSV(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartCSV(t, fileName, content)
	req := httptest.NewRequest(http.MethodPost, "/crm/api/imports/staged", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestImportAPI_FullFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.upload(t, "leads.csv", "Email,Company\na@x.com,Acme\nb@x.com,Globex\nc@x.com,Initech\n")
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/crm/api/imports/staged", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var staged viewmodels.StagedUpload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &staged))
	require.Equal(t, "leads.csv", staged.FileName)
	require.Equal(t, 3, staged.RowCount)
	require.Equal(t, "email", staged.Mapping["Email"])
	require.Equal(t, "company_name", staged.Mapping["Company"])
	require.Len(t, staged.Preview, 3)

	w = env.do(t, http.MethodPost, "/crm/api/imports", map[string]interface{}{"mapping": staged.Mapping})
	require.Equal(t, http.StatusOK, w.Code)
	var result services.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, 3, result.Inserted)
	require.Empty(t, result.Failed)

	// The slot is gone after a completed run.
	require.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/crm/api/imports/staged", nil).Code)

	w = env.do(t, http.MethodGet, "/crm/api/contacts", nil)
	var list viewmodels.ContactList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 3)
}

func TestImportAPI_RejectsNonCSV(t *testing.T) {
	env := newTestEnv(t)

	w := env.upload(t, "leads.xlsx", "Email\na@x.com\n")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "IMPORT_NOT_CSV", envelope.Code)
}

func TestImportAPI_RejectsEmptyFile(t *testing.T) {
	env := newTestEnv(t)

	w := env.upload(t, "empty.csv", "Email,Company\n")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "IMPORT_EMPTY_FILE", envelope.Code)
}

func TestImportAPI_Cancel(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.upload(t, "leads.csv", "Email\na@x.com\n").Code)
	require.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/crm/api/imports/staged", nil).Code)
	require.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/crm/api/imports/staged", nil).Code)
}

func TestImportAPI_MappingWithoutEmail(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.upload(t, "leads.csv", "Code,Company\nx,Acme\n").Code)

	w := env.do(t, http.MethodPost, "/crm/api/imports", map[string]interface{}{
		"mapping": map[string]string{"Code": "skip", "Company": "company_name"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "IMPORT_NO_EMAIL_MAPPING", envelope.Code)

	w = env.do(t, http.MethodPost, "/crm/api/imports", map[string]interface{}{
		"mapping": map[string]string{"Code": "bogus_field"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "IMPORT_BAD_MAPPING", envelope.Code)
}
