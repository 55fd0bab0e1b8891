package app

import (
	"log/slog"

	"github.com/km-arc/userform/app/forms"
	"github.com/km-arc/userform/app/http/controllers"
	foundation "github.com/km-arc/userform/framework/app"
	"github.com/km-arc/userform/framework/config"
	"github.com/km-arc/userform/framework/container"
	gohttp "github.com/km-arc/userform/framework/http"
	"github.com/km-arc/userform/framework/http/validation"
	"github.com/km-arc/userform/framework/metrics"
	"github.com/km-arc/userform/framework/providers"
	"github.com/km-arc/userform/resources"
	"github.com/km-arc/userform/routing"
)

// New creates the user form application: the framework core plus the
// embedded views, the user data schema and the form routes.
//
//	application := app.New(foundation.WithEnvFiles(".env"))
//	if err := application.Run(ctx); err != nil { ... }
func New(opts ...foundation.Option) (*foundation.Application, error) {
	application := foundation.New(opts...)

	for _, p := range []container.ServiceProvider{
		&providers.ViewServiceProvider{FS: resources.Views()},
		&providers.ValidationServiceProvider{Fields: forms.UserDataFields},
		&AppServiceProvider{},
	} {
		if err := application.Register(p); err != nil {
			return nil, err
		}
	}
	return application, nil
}

// AppServiceProvider binds the application services and mounts the form
// routes.
//
// Bound abstracts:
//   - "forms.submitter" → forms.Submitter
type AppServiceProvider struct {
	container.BaseProvider
}

func (p *AppServiceProvider) Register(app *container.Container) {
	app.Singleton("forms.submitter", func(c *container.Container) any {
		return forms.Submitter(forms.NewLogSubmitter(container.Resolve[*slog.Logger](c, "logger")))
	})
}

func (p *AppServiceProvider) Boot(app *container.Container) error {
	cfg := container.Resolve[*config.Config](app, "config")

	form := &controllers.FormController{
		AppName:   cfg.App.Name,
		Schemas:   container.Resolve[validation.Source](app, "validation.schema"),
		Views:     container.Resolve[*gohttp.ViewEngine](app, "view"),
		Submitter: container.Resolve[forms.Submitter](app, "forms.submitter"),
		Metrics:   container.Resolve[*metrics.Collector](app, "metrics"),
		Logger:    container.Resolve[*slog.Logger](app, "logger"),
		Debug:     cfg.App.Debug,
	}
	form.Routes(container.Resolve[*routing.Router](app, "router"))
	return nil
}
