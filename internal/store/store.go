package store

import (
	"context"
	"fmt"
	"sort"
)

// API is everything the domain containers need from the backend client.
// *client.Client satisfies it.
type API interface {
	AuthAPI
	PermissionAPI
	DashboardAPI
	HistoryAPI
	HourlyAPI
	AnalyticsAPI
	AlertsAPI
	SeasonAPI
	JobsAPI
}

// Store composes one container per feature domain. Consumers receive it by
// constructor injection.
type Store struct {
	Auth         *AuthStore
	Permission   *PermissionStore
	Dashboard    *DashboardStore
	History      *HistoryStore
	Hourly       *HourlyStore
	Analytics    *AnalyticsStore
	Alerts       *AlertsStore
	NepaliSeason *SeasonStore
	UI           *UIStore
}

func New(api API, opts Options) *Store {
	opts = opts.withDefaults()
	return &Store{
		Auth:         NewAuthStore(api, opts),
		Permission:   NewPermissionStore(api, opts),
		Dashboard:    NewDashboardStore(api, opts),
		History:      NewHistoryStore(api, opts),
		Hourly:       NewHourlyStore(api, opts),
		Analytics:    NewAnalyticsStore(api, opts),
		Alerts:       NewAlertsStore(api, opts),
		NepaliSeason: NewSeasonStore(api, opts),
		UI:           NewUIStore(api, opts),
	}
}

// Domain names accepted by Snapshot and Refresh.
const (
	DomainAuth         = "auth"
	DomainPermission   = "permission"
	DomainDashboard    = "dashboard"
	DomainHistory      = "history"
	DomainHourly       = "hourly"
	DomainAnalytics    = "analytics"
	DomainAlerts       = "alerts"
	DomainNepaliSeason = "nepali_season"
	DomainUI           = "ui"
)

// ErrUnknownDomain is returned for a domain name no container answers to.
type ErrUnknownDomain struct {
	Domain string
}

func (e ErrUnknownDomain) Error() string {
	return fmt.Sprintf("unknown domain %q", e.Domain)
}

// Domains lists every domain name in sorted order.
func Domains() []string {
	d := []string{
		DomainAuth, DomainPermission, DomainDashboard, DomainHistory, DomainHourly,
		DomainAnalytics, DomainAlerts, DomainNepaliSeason, DomainUI,
	}
	sort.Strings(d)
	return d
}

// Snapshot returns the named container's snapshot as an untyped value for encoding.
func (s *Store) Snapshot(domain string) (any, error) {
	switch domain {
	case DomainAuth:
		return s.Auth.Snapshot(), nil
	case DomainPermission:
		return s.Permission.Snapshot(), nil
	case DomainDashboard:
		return s.Dashboard.Snapshot(), nil
	case DomainHistory:
		return s.History.Snapshot(), nil
	case DomainHourly:
		return s.Hourly.Snapshot(), nil
	case DomainAnalytics:
		return s.Analytics.Snapshot(), nil
	case DomainAlerts:
		return s.Alerts.Snapshot(), nil
	case DomainNepaliSeason:
		return s.NepaliSeason.Snapshot(), nil
	case DomainUI:
		return s.UI.Snapshot(), nil
	}
	return nil, ErrUnknownDomain{Domain: domain}
}

// Refresh re-runs the named domain's primary fetches with their current parameters.
func (s *Store) Refresh(ctx context.Context, domain string) error {
	switch domain {
	case DomainAuth:
		_, err := s.Auth.UserInfo(ctx)
		return err
	case DomainPermission:
		_, err := s.Permission.Fetch(ctx)
		return err
	case DomainDashboard:
		return s.Dashboard.Refresh(ctx)
	case DomainHistory:
		st := s.History.Data()
		return s.History.Load(ctx, HistoryQuery{Range: st.DateRange})
	case DomainHourly:
		_, err := s.Hourly.Fetch(ctx, s.Hourly.Data().Hours)
		return err
	case DomainAnalytics:
		return s.Analytics.Load(ctx, s.Analytics.Data().Period)
	case DomainAlerts:
		_, err := s.Alerts.Fetch(ctx)
		return err
	case DomainNepaliSeason:
		return s.NepaliSeason.Load(ctx)
	case DomainUI:
		return nil
	}
	return ErrUnknownDomain{Domain: domain}
}

// ClearSession drops identity-scoped state after logout.
func (s *Store) ClearSession() {
	s.Permission.Clear()
}
