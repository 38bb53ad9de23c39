package cmd

import (
	"go.uber.org/dig"

	"github.com/prashuchaudhary/dependabot-core/application"
	"github.com/prashuchaudhary/dependabot-core/config"
	"github.com/prashuchaudhary/dependabot-core/infrastructure/catalog"
	ecosystemPkg "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem"
	cargoEco "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem/cargo"
	gomodEco "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem/gomod"
	mavenEco "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem/maven"
	npmEco "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem/npm"
	tfEco "github.com/prashuchaudhary/dependabot-core/infrastructure/ecosystem/terraform"
)

// buildService wires the service graph for one command invocation:
// config -> ecosystem registry + catalog -> check service.
func buildService(cfg *config.Config) (*application.CheckService, error) {
	container := dig.New()

	providers := []any{
		func() *config.Config { return cfg },
		buildEcosystemRegistry,
		catalog.FromConfig,
		application.NewCheckService,
	}
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	var service *application.CheckService
	if err := container.Invoke(func(s *application.CheckService) {
		service = s
	}); err != nil {
		return nil, err
	}
	return service, nil
}

func buildEcosystemRegistry() *ecosystemPkg.Registry {
	reg := ecosystemPkg.NewRegistry()
	reg.Register(mavenEco.New())
	reg.Register(tfEco.New())
	reg.Register(cargoEco.New())
	reg.Register(npmEco.New())
	reg.Register(gomodEco.New())
	return reg
}
