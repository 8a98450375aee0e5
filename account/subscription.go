package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/complytime/prompt-generator-mcp-server/internal/latency"
)

var ErrUnknownPlan = errors.New("unknown plan")

type Plan string

const (
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

// PlanInfo is the pricing shown for a plan.
type PlanInfo struct {
	Plan   Plan   `json:"plan"`
	Price  string `json:"price"`
	Period string `json:"period"`
	Note   string `json:"note,omitempty"`
}

func Plans() []PlanInfo {
	return []PlanInfo{
		{Plan: PlanMonthly, Price: "$5", Period: "month"},
		{Plan: PlanYearly, Price: "$50", Period: "year", Note: "Save $10"},
	}
}

func ParsePlan(s string) (Plan, error) {
	switch p := Plan(s); p {
	case PlanMonthly, PlanYearly:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
}

// End returns when a subscription started at from runs out.
func (p Plan) End(from time.Time) (time.Time, error) {
	switch p {
	case PlanMonthly:
		return from.AddDate(0, 1, 0), nil
	case PlanYearly:
		return from.AddDate(1, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPlan, p)
}

// Subscriptions upgrades and expires premium tiers. No payment is taken.
type Subscriptions struct {
	accounts *Service
	delay    time.Duration
	log      *slog.Logger
}

func NewSubscriptions(accounts *Service, delay time.Duration, baseLog *slog.Logger) *Subscriptions {
	return &Subscriptions{
		accounts: accounts,
		delay:    delay,
		log:      baseLog.With("component", "subscriptions"),
	}
}

// Subscribe upgrades the logged-in user to premium until the plan's end date.
func (s *Subscriptions) Subscribe(ctx context.Context, plan Plan) (User, error) {
	if _, err := plan.End(time.Time{}); err != nil {
		return User{}, err
	}
	if err := latency.Wait(ctx, s.delay); err != nil {
		return User{}, err
	}

	end, _ := plan.End(s.accounts.now())
	u, err := s.accounts.Update(ctx, func(u *User) {
		u.Tier = TierPremium
		u.SubscriptionEnd = &end
	})
	if err != nil {
		s.log.Error("subscription failed", "plan", plan, "error", err)
		return User{}, fmt.Errorf("subscription failed: %w", err)
	}
	s.log.Info("subscription started", "email", u.Email, "plan", plan, "ends", end)
	return u, nil
}

// Check reports whether the logged-in user holds an active premium
// subscription, downgrading it to free once the end date has passed.
// No logged-in user is not an error.
func (s *Subscriptions) Check(ctx context.Context) (bool, error) {
	now := s.accounts.now()
	var active, expired bool

	_, err := s.accounts.Update(ctx, func(u *User) {
		if u.Tier != TierPremium || u.SubscriptionEnd == nil {
			return
		}
		if u.SubscriptionEnd.Before(now) {
			u.Tier = TierFree
			u.SubscriptionEnd = nil
			expired = true
			return
		}
		active = true
	})
	if errors.Is(err, ErrNotLoggedIn) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if expired {
		s.log.Info("subscription expired, downgraded to free")
	}
	return active, nil
}
