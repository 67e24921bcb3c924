package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/filex"
)

const (
	pageSize         = 20
	defaultTimezone  = "Asia/Tashkent"
	defaultStatsDays = 30
)

// pageArg turns a 1-based page number into an offset.
func pageArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errUsage
	}
	return (n - 1) * pageSize, nil
}

func (a *App) listAds(ctx context.Context, args []string) error {
	f := models.AdFilter{Limit: pageSize}
	for _, arg := range args {
		switch {
		case arg == "saved":
			saved := true
			f.Saved = &saved
		case arg == "archived":
			archived := true
			f.Archived = &archived
		case arg[0] >= '0' && arg[0] <= '9':
			off, err := pageArg(arg)
			if err != nil {
				return err
			}
			f.Offset = off
		default:
			f.Status = strings.ToUpper(arg)
		}
	}

	if err := a.ads.FetchMyAds(ctx, f); err != nil {
		return err
	}
	printAds(a.out, a.ads.Ads())
	return nil
}

func (a *App) showAd(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	ad, err := a.ads.FetchAd(ctx, id)
	if err != nil {
		return err
	}
	printAd(a.out, ad)
	return nil
}

// adAction adapts the single-id store mutations to commands.
func (a *App) adAction(ctx context.Context, args []string, call func(context.Context, string) (*models.Ad, error)) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	ad, err := call(ctx, id)
	if err != nil {
		return err
	}
	a.printf("%s is now %s\n", ad.ID, ad.Status)
	return nil
}

func (a *App) submitAd(ctx context.Context, args []string) error {
	return a.adAction(ctx, args, a.ads.SubmitAd)
}

func (a *App) pauseAd(ctx context.Context, args []string) error {
	return a.adAction(ctx, args, a.ads.PauseAd)
}

func (a *App) resumeAd(ctx context.Context, args []string) error {
	return a.adAction(ctx, args, a.ads.ResumeAd)
}

func (a *App) archiveAd(ctx context.Context, args []string) error {
	return a.adAction(ctx, args, a.ads.ArchiveAd)
}

func (a *App) unarchiveAd(ctx context.Context, args []string) error {
	return a.adAction(ctx, args, a.ads.UnarchiveAd)
}

func (a *App) unscheduleAd(ctx context.Context, args []string) error {
	return a.adAction(ctx, args, a.ads.RemoveSchedule)
}

func (a *App) deleteAd(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	ok, err := a.confirm("Delete campaign " + id + "?")
	if err != nil || !ok {
		return err
	}
	return a.ads.DeleteAd(ctx, id)
}

func (a *App) toggleSave(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	saved, err := a.ads.ToggleSave(ctx, id)
	if err != nil {
		return err
	}
	if saved {
		a.println("Saved.")
	} else {
		a.println("Removed from saved.")
	}
	return nil
}

func (a *App) scheduleAd(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}

	var sch models.Schedule
	if sch.StartDate, err = a.ask("Start date (YYYY-MM-DD)"); err != nil {
		return err
	}
	if sch.EndDate, err = a.ask("End date (YYYY-MM-DD)"); err != nil {
		return err
	}
	if sch.Timezone, err = a.askDefault("Timezone", defaultTimezone); err != nil {
		return err
	}

	days, err := a.ask("Active days, 0=Sunday..6=Saturday, comma separated (empty for every day)")
	if err != nil {
		return err
	}
	if sch.ActiveDays, err = parseInts(days); err != nil {
		return err
	}

	hours, err := a.ask("Active hours as start-end, comma separated, e.g. 9-13,18-22 (empty for all day)")
	if err != nil {
		return err
	}
	if sch.ActiveHours, err = parseHourRanges(hours); err != nil {
		return err
	}

	ad, err := a.ads.SetSchedule(ctx, id, sch)
	if err != nil {
		return err
	}
	a.printf("Schedule set for %s\n", ad.ID)
	return nil
}

func parseHourRanges(s string) ([]models.HourRange, error) {
	out := make([]models.HourRange, 0)
	for _, part := range splitList(s) {
		from, to, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("%q is not a start-end range", part)
		}
		bounds, err := parseInts(from + "," + to)
		if err != nil || len(bounds) != 2 {
			return nil, fmt.Errorf("%q is not a start-end range", part)
		}
		out = append(out, models.HourRange{Start: bounds[0], End: bounds[1]})
	}
	return out, nil
}

func (a *App) testAd(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}
	recipient := ""
	if len(args) == 2 {
		recipient = args[1]
	} else if u := a.session.User(); u != nil {
		recipient = u.TelegramID
	}
	if recipient == "" {
		return errUsage
	}
	return a.ads.SendTestAd(ctx, args[0], recipient)
}

// stats shows the overview without arguments, otherwise the daily or hourly
// series of one campaign.
func (a *App) stats(ctx context.Context, args []string) error {
	if len(args) == 0 {
		points, err := a.ads.FetchOverviewStats(ctx, defaultStatsDays)
		if err != nil {
			return err
		}
		printStats(a.out, points)
		return nil
	}
	if len(args) > 2 {
		return errUsage
	}

	id := args[0]
	if len(args) == 2 && args[1] == "hourly" {
		points, err := a.ads.FetchHourlyStats(ctx, id)
		if err != nil {
			return err
		}
		printStats(a.out, points)
		return nil
	}

	days := defaultStatsDays
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return errUsage
		}
		days = n
	}
	points, err := a.ads.FetchDailyStats(ctx, id, days)
	if err != nil {
		return err
	}
	printStats(a.out, points)
	return nil
}

func (a *App) performance(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	p, err := a.adSvc.Performance(ctx, id)
	if err != nil {
		return err
	}
	printPerformance(a.out, p)
	return nil
}

func (a *App) clicks(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}
	offset := 0
	if len(args) == 2 {
		off, err := pageArg(args[1])
		if err != nil {
			return err
		}
		offset = off
	}
	page, err := a.adSvc.Clicks(ctx, args[0], pageSize, offset)
	if err != nil {
		return err
	}
	printClicks(a.out, page.Items, page.Pagination)
	return nil
}

func (a *App) export(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	data, err := a.adSvc.ExportImpressions(ctx, id)
	if err != nil {
		return err
	}
	path, err := filex.WriteExport(fmt.Sprintf("ad-%s-impressions.csv", id), data)
	if err != nil {
		return err
	}
	a.printf("Impressions written to %s\n", path)
	return nil
}
