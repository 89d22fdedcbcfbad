package section

import (
	"embed"
	"time"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
	"github.com/iota-uz/section-editor/modules/section/handlers"
	"github.com/iota-uz/section-editor/modules/section/presentation/controllers"
	"github.com/iota-uz/section-editor/modules/section/services"
	"github.com/iota-uz/section-editor/pkg/application"
	"github.com/iota-uz/section-editor/pkg/logging"
)

//go:embed presentation/locales/*.json
var LocaleFiles embed.FS

type ModuleOptions struct {
	Repository section.Repository
	IdleTTL    time.Duration
}

func NewModule(opts *ModuleOptions) application.Module {
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(
		services.NewSessionService(
			m.options.Repository,
			logging.NewOperationLogger(app.Logger()),
			app.EventPublisher(),
			m.options.IdleTTL,
			app.Logger(),
		),
	)
	app.RegisterControllers(
		controllers.NewSectionController(app),
	)
	handlers.RegisterAuditEventHandlers(app)
	return nil
}

func (m *Module) Name() string {
	return "section"
}
