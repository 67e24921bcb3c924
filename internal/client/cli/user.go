package cli

import (
	"context"
	"strconv"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/client/services"
)

func (a *App) profile(ctx context.Context, _ []string) error {
	if err := a.users.FetchProfile(ctx); err != nil {
		return err
	}
	printProfile(a.out, a.users.Profile())
	return nil
}

func (a *App) editProfile(ctx context.Context, _ []string) error {
	if a.users.Profile() == nil {
		if err := a.users.FetchProfile(ctx); err != nil {
			return err
		}
	}
	u := a.users.Profile().User

	var (
		req models.UpdateProfileRequest
		err error
	)
	if req.FirstName, err = a.askDefault("First name", u.FirstName); err != nil {
		return err
	}
	if req.LastName, err = a.askDefault("Last name", u.LastName); err != nil {
		return err
	}
	if req.Email, err = a.askDefault("Email", u.Email); err != nil {
		return err
	}
	if req.Locale, err = a.askDefault("Language (uz, ru, en)", u.Locale); err != nil {
		return err
	}

	p, err := a.users.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}
	printProfile(a.out, p)
	return nil
}

// dashboard loads the profile and the analytics overview together.
func (a *App) dashboard(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return errUsage
	}
	days := services.DefaultAnalyticsDays
	kind := models.AnalyticsAdvertiser
	for _, arg := range args {
		switch arg {
		case string(models.AnalyticsAdvertiser), string(models.AnalyticsOwner):
			kind = models.AnalyticsKind(arg)
		default:
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 {
				return errUsage
			}
			days = n
		}
	}

	if err := a.users.LoadDashboard(ctx, days, kind); err != nil {
		return err
	}
	printProfile(a.out, a.users.Profile())
	a.println()
	a.printf("Last %d days (%s):\n", days, kind)
	printAnalytics(a.out, a.users.Analytics())
	return nil
}
