package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/client/services"
	"github.com/akhmads/adscli/internal/common"
)

func (a *App) listBots(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	f := models.BotFilter{Limit: pageSize}
	if len(args) == 1 {
		f.Status = strings.ToUpper(args[0])
	}
	if err := a.bots.FetchMyBots(ctx, f); err != nil {
		return err
	}
	printBots(a.out, a.bots.Bots())
	return nil
}

func (a *App) showBot(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	b, err := a.bots.FetchBot(ctx, id)
	if err != nil {
		return err
	}
	printBot(a.out, b)
	return nil
}

// addBot registers a bot. The token is read without echo and wiped after
// the request.
func (a *App) addBot(ctx context.Context, _ []string) error {
	token, err := GetSecret(a.reader, "Bot token from @BotFather", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(token)

	a.println("Categories:", strings.Join(a.categoryIDs(), ", "))
	category, err := a.ask("Category")
	if err != nil {
		return err
	}
	language, err := a.askDefault("Language (uz, ru, en)", models.Languages[0])
	if err != nil {
		return err
	}
	description, err := a.ask("Short description (optional)")
	if err != nil {
		return err
	}

	reg, err := a.bots.Register(ctx, models.RegisterBotRequest{
		Token:            strings.TrimSpace(string(token)),
		Category:         category,
		Language:         language,
		ShortDescription: description,
	})
	if err != nil {
		return err
	}

	a.printf("Bot @%s registered (%s), status %s\n", reg.Bot.Username, reg.Bot.ID, reg.Bot.Status)
	a.println("API key, shown only once:", reg.APIKey)
	return nil
}

// configureBot edits the settings of a bot, offering the current values as
// defaults.
func (a *App) configureBot(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	b, err := a.bots.FetchBot(ctx, id)
	if err != nil {
		return err
	}

	description, err := a.askDefault("Short description", b.ShortDescription)
	if err != nil {
		return err
	}
	category, err := a.askDefault("Category", b.Category)
	if err != nil {
		return err
	}
	language, err := a.askDefault("Language", b.Language)
	if err != nil {
		return err
	}
	freq, err := a.askDefault("Minutes between ads", strconv.Itoa(b.FrequencyMinutes))
	if err != nil {
		return err
	}
	frequency, err := strconv.Atoi(freq)
	if err != nil {
		frequency = 0
	}
	filter, err := a.askDefault("Post filter (all, allowed, blocked)", b.PostFilter)
	if err != nil {
		return err
	}

	req := models.UpdateBotRequest{
		ShortDescription: &description,
		Category:         &category,
		Language:         &language,
		FrequencyMinutes: &frequency,
		PostFilter:       &filter,
	}

	switch filter {
	case "allowed":
		cats, err := a.askDefault("Allowed categories (comma separated)", strings.Join(b.AllowedCategories, ","))
		if err != nil {
			return err
		}
		req.AllowedCategories = splitList(cats)
	case "blocked":
		cats, err := a.askDefault("Blocked categories (comma separated)", strings.Join(b.BlockedCategories, ","))
		if err != nil {
			return err
		}
		req.BlockedCategories = splitList(cats)
	}

	updated, err := a.bots.UpdateBot(ctx, id, req)
	if err != nil {
		return err
	}
	printBot(a.out, updated)
	return nil
}

func (a *App) setBotPaused(ctx context.Context, args []string, paused bool) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	b, err := a.bots.TogglePause(ctx, id, paused)
	if err != nil {
		return err
	}
	if b.IsPaused {
		a.printf("@%s paused.\n", b.Username)
	} else {
		a.printf("@%s is serving ads.\n", b.Username)
	}
	return nil
}

func (a *App) pauseBot(ctx context.Context, args []string) error {
	return a.setBotPaused(ctx, args, true)
}

func (a *App) resumeBot(ctx context.Context, args []string) error {
	return a.setBotPaused(ctx, args, false)
}

func (a *App) deleteBot(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	ok, err := a.confirm("Delete bot " + id + "?")
	if err != nil || !ok {
		return err
	}
	return a.bots.DeleteBot(ctx, id)
}

func (a *App) rekeyBot(ctx context.Context, args []string) error {
	id, err := oneID(args)
	if err != nil {
		return err
	}
	key, err := a.bots.RegenerateAPIKey(ctx, id)
	if err != nil {
		return err
	}
	a.println("New API key, shown only once:", key)
	return nil
}

func (a *App) botStats(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}
	period := services.Period30d
	if len(args) == 2 {
		switch args[1] {
		case services.Period7d, services.Period30d, services.Period90d:
			period = args[1]
		default:
			return errUsage
		}
	}
	st, err := a.bots.FetchStats(ctx, args[0], period)
	if err != nil {
		return err
	}
	printBotStats(a.out, st)
	return nil
}
