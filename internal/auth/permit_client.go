package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/permitio/permit-golang/pkg/config"
	"github.com/permitio/permit-golang/pkg/enforcement"
	"github.com/permitio/permit-golang/pkg/permit"

	"cinedesk/internal/domain"
	"cinedesk/internal/domain/services"
)

const (
	// DefaultPermitPDPURL is the Permit.io cloud policy decision point
	DefaultPermitPDPURL = "https://cloudpdp.api.permit.io"

	permitService = "permit"
)

// permitEnforcer is the part of the Permit SDK client used for checks
type permitEnforcer interface {
	Check(user enforcement.User, action enforcement.Action, resource enforcement.Resource) (bool, error)
}

// PermitClient implements services.PermissionChecker with the Permit.io SDK.
type PermitClient struct {
	enforcer permitEnforcer
	tenant   string
	logger   *slog.Logger
}

var _ services.PermissionChecker = (*PermitClient)(nil)

// NewPermitClient creates a Permit client. Empty pdpURL and tenant fall back
// to the cloud PDP and the "default" tenant.
func NewPermitClient(apiKey, pdpURL, tenant string, logger *slog.Logger) *PermitClient {
	if pdpURL == "" {
		pdpURL = DefaultPermitPDPURL
	}
	cfg := config.NewConfigBuilder(apiKey).
		WithPdpUrl(strings.TrimRight(pdpURL, "/")).
		Build()
	return newPermitClient(permit.NewPermit(cfg), tenant, logger)
}

func newPermitClient(enforcer permitEnforcer, tenant string, logger *slog.Logger) *PermitClient {
	if tenant == "" {
		tenant = "default"
	}
	return &PermitClient{enforcer: enforcer, tenant: tenant, logger: logger}
}

// Check asks the PDP whether subject may perform action on resource.
// The SDK call takes no context, so a canceled ctx only stops checks that
// have not started.
func (c *PermitClient) Check(ctx context.Context, subject, resource, action string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	allowed, err := c.enforcer.Check(
		enforcement.UserBuilder(subject).Build(),
		enforcement.Action(action),
		enforcement.ResourceBuilder(resource).WithTenant(c.tenant).Build(),
	)
	if err != nil {
		return false, &domain.UpstreamError{Service: permitService, Message: "check failed: " + err.Error()}
	}

	c.logger.DebugContext(ctx, "permission checked",
		"user_id", subject, "resource", resource, "action", action, "allow", allowed)
	return allowed, nil
}
