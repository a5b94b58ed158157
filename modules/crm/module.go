package crm

import (
	"embed"

	"github.com/coldreach/cedb/modules/crm/handlers"
	"github.com/coldreach/cedb/modules/crm/infrastructure/persistence"
	"github.com/coldreach/cedb/modules/crm/presentation/controllers"
	"github.com/coldreach/cedb/modules/crm/services"
	"github.com/coldreach/cedb/pkg/application"
	"github.com/coldreach/cedb/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/crm-schema.sql
var migrationFiles embed.FS

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "crm"
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	contactRepo := persistence.NewContactRepository()
	stagingStore := persistence.NewStagingStore(conf.Staging.Path, conf.Staging.MaxFileSize)

	contactService := services.NewContactService(contactRepo, app.EventPublisher())
	importService := services.NewImportService(
		stagingStore,
		contactRepo,
		app.EventPublisher(),
		conf.ImportBatchSize,
		conf.ImportWorkers,
	)
	exportService := services.NewExportService(contactService)
	app.RegisterServices(contactService, importService, exportService)

	tracker := handlers.NewRefreshTracker(app.EventPublisher())
	app.RegisterControllers(
		controllers.NewContactController(app, tracker),
		controllers.NewImportController(app),
		controllers.NewHealthController(app),
	)

	app.Migrations().RegisterSchema(&migrationFiles)
	return nil
}
