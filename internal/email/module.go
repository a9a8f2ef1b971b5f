package email

import (
	apphttp "tre_crm/internal/http"
	"tre_crm/platform/config"
	"tre_crm/platform/validator"
)

// Module is the email bounded context module implementing http.Module.
type Module struct {
	registry *Registry
	handler  *Handler
}

// NewModule builds the sender registry from EMAIL_SENDERS_FILE, or from the
// defaults for EMAIL_DOMAIN when no file is configured.
func NewModule(cfg config.EmailConfig, val *validator.Validator) (*Module, error) {
	profiles := DefaultProfiles(cfg.GetEmailDomain(), cfg.GetEmailFromName())
	if path := cfg.GetEmailSendersFile(); path != "" {
		loaded, err := LoadProfiles(path, cfg.GetEmailDomain(), cfg.GetEmailFromName())
		if err != nil {
			return nil, err
		}
		profiles = loaded
	}

	registry, err := NewRegistryFromProfiles(profiles, val)
	if err != nil {
		return nil, err
	}
	return &Module{registry: registry, handler: NewHandler(registry)}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "email"
}

// Registry returns the sender registry for other modules.
func (m *Module) Registry() *Registry {
	return m.registry
}

// RegisterRoutes mounts email routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/email"))
}

var _ apphttp.Module = (*Module)(nil)
