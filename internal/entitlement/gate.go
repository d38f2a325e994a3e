package entitlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/types"
)

// SubscriptionSource is the lookup the gate needs from the store. A nil
// subscription with a nil error means "no subscription on file".
type SubscriptionSource interface {
	GetByOrganizationID(ctx context.Context, organizationID uuid.UUID) (*types.Subscription, error)
}

// Gate is the single decision point for the freemium/paid boundary. Every
// downstream consumer (gap analysis, strategy matrix) must call through here;
// no other component re-implements the plan check.
type Gate interface {
	CanAccessFullAnalysis(ctx context.Context, organizationID uuid.UUID) bool
}

type gate struct {
	subs SubscriptionSource
	log  *logger.Logger
}

func NewGate(subs SubscriptionSource, baseLog *logger.Logger) Gate {
	return &gate{subs: subs, log: baseLog.With("component", "EntitlementGate")}
}

// CanAccessFullAnalysis fails closed: a missing subscription, an unknown plan
// or a lookup error all resolve to the restricted path.
func (g *gate) CanAccessFullAnalysis(ctx context.Context, organizationID uuid.UUID) bool {
	if organizationID == uuid.Nil {
		return false
	}
	sub, err := g.subs.GetByOrganizationID(ctx, organizationID)
	if err != nil {
		g.log.Warn("subscription lookup failed, failing closed",
			"organization_id", organizationID, "error", err)
		return false
	}
	if sub == nil {
		return false
	}
	return PlanAllowsFullAnalysis(sub.Plan)
}

// PlanAllowsFullAnalysis maps a subscription plan to the full-analysis
// capability. Unknown plan tags are treated as FREE.
func PlanAllowsFullAnalysis(plan string) bool {
	switch plan {
	case types.PlanPremium, types.PlanEnterprise:
		return true
	default:
		return false
	}
}
