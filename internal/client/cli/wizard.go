package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/client/stores"
)

// newAd walks the wizard from its current step. The form survives between
// runs, so a rejected step is fixed by running newad again; "back" steps
// back and "reset" starts over.
func (a *App) newAd(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	if len(args) == 1 {
		switch args[0] {
		case "back":
			a.ads.Back()
		case "reset":
			a.ads.ResetForm()
		default:
			return errUsage
		}
	}

	for {
		step := a.ads.Step()
		a.printf("Step %d of %d\n", step+1, stores.LastStep+1)

		var err error
		switch step {
		case 0:
			err = a.contentStep()
		case 1:
			err = a.targetingStep(ctx)
		default:
			return a.budgetStep(ctx)
		}
		if err != nil {
			return err
		}
		if err := a.ads.Next(); err != nil {
			return err
		}
	}
}

func (a *App) contentStep() error {
	form := a.ads.Form()

	title, err := a.askDefault("Campaign title", form.Title)
	if err != nil {
		return err
	}

	if form.Text != "" {
		a.println("Current text:")
		a.println(form.Text)
	}
	text, err := GetMultiline(a.reader, "Ad text (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}

	lines, err := GetAssignments(a.reader, "Buttons as Label=https://link (empty keeps current, a single - removes all)", a.out)
	if err != nil {
		return err
	}
	var buttons []models.AdButton
	switch {
	case len(lines) == 1 && lines[0] == "-":
		buttons = []models.AdButton{}
	case len(lines) > 0:
		parsed, err := models.ParseAssignments(lines)
		if err != nil {
			return err
		}
		buttons = make([]models.AdButton, 0, len(parsed))
		for _, p := range parsed {
			buttons = append(buttons, models.AdButton{Text: p.Name, URL: p.Value})
		}
	}

	a.ads.UpdateForm(func(f *models.AdForm) {
		f.Title = title
		if text != "" {
			f.Text = text
		}
		if buttons != nil {
			f.Buttons = buttons
		}
	})
	return nil
}

func (a *App) targetingStep(ctx context.Context) error {
	form := a.ads.Form()

	if a.ads.TargetingOptions() == nil {
		// categories fall back to the built-in list
		_ = a.ads.FetchTargetingOptions(ctx)
	}
	a.println("Categories:", strings.Join(a.categoryIDs(), ", "))

	imp, err := a.askDefault("Target impressions", strconv.Itoa(form.TargetImpressions))
	if err != nil {
		return err
	}
	impressions, err := strconv.Atoi(imp)
	if err != nil {
		impressions = 0
	}

	langs, err := a.askDefault("Languages (comma separated)", strings.Join(form.Targeting.Languages, ","))
	if err != nil {
		return err
	}
	cats, err := a.askDefault("Categories (comma separated, empty for all)", strings.Join(form.Targeting.Categories, ","))
	if err != nil {
		return err
	}

	a.ads.UpdateForm(func(f *models.AdForm) {
		f.TargetImpressions = impressions
		f.Targeting.Languages = splitList(langs)
		f.Targeting.Categories = splitList(cats)
	})
	return nil
}

func (a *App) categoryIDs() []string {
	if opts := a.ads.TargetingOptions(); opts != nil && len(opts.Categories) > 0 {
		ids := make([]string, 0, len(opts.Categories))
		for _, c := range opts.Categories {
			ids = append(ids, c.ID)
		}
		return ids
	}
	ids := make([]string, 0, len(models.BotCategories))
	for _, c := range models.BotCategories {
		ids = append(ids, c.ID)
	}
	return ids
}

// budgetStep quotes the form, takes an optional promo code and creates the
// campaign after confirmation.
func (a *App) budgetStep(ctx context.Context) error {
	if err := a.ads.FetchPricingEstimate(ctx); err != nil {
		a.println("Price estimate is not available right now.")
	}
	printForm(a.out, a.ads.Form())
	printEstimate(a.out, a.ads.Estimate())

	code, err := a.ask("Promo code (empty to skip, - to remove)")
	if err != nil {
		return err
	}
	switch code {
	case "":
	case "-":
		a.ads.ClearPromoCode()
		_ = a.ads.FetchPricingEstimate(ctx)
		printEstimate(a.out, a.ads.Estimate())
	default:
		if err := a.ads.ApplyPromoCode(ctx, code); err != nil {
			a.println("Promo code:", a.ads.PromoError())
			return nil
		}
		printEstimate(a.out, a.ads.Estimate())
	}

	ok, err := a.confirm("Create this campaign?")
	if err != nil || !ok {
		if err == nil {
			a.println("Not created. Run newad to continue or savedraft <name> to keep the form.")
		}
		return err
	}

	ad, err := a.ads.CreateAd(ctx)
	if err != nil {
		return err
	}
	a.printf("Campaign %s created as %s. Use submit %s to send it for review.\n", ad.ID, ad.Status, ad.ID)
	return nil
}

func (a *App) duplicateAd(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	ad, err := a.ads.FetchAd(ctx, id)
	if err != nil {
		return err
	}
	a.ads.PrefillFrom(*ad)
	a.printf("Wizard prefilled from %s. Run newad to review and create the copy.\n", ad.ID)
	return nil
}

func (a *App) saveDraft(ctx context.Context, args []string) error {
	d, err := a.ads.SaveDraft(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.printf("Draft %q saved as %s\n", d.Name, d.ID)
	return nil
}

func (a *App) listDrafts(ctx context.Context, _ []string) error {
	drafts, err := a.ads.Drafts(ctx)
	if err != nil {
		return err
	}
	printDrafts(a.out, drafts)
	return nil
}

func (a *App) loadDraft(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	d, err := a.ads.LoadDraft(ctx, id)
	if err != nil {
		return err
	}
	a.printf("Draft %q loaded. Run newad to continue.\n", d.Name)
	return nil
}

func (a *App) deleteDraft(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	if err := a.ads.DeleteDraft(ctx, id); err != nil {
		return err
	}
	a.println("Draft deleted.")
	return nil
}
