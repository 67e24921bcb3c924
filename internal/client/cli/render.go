package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/akhmads/adscli/internal/client/models"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printAds(w io.Writer, ads []models.Ad) {
	if len(ads) == 0 {
		fmt.Fprintln(w, "No campaigns.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tDELIVERED\tCLICKS\tCOST")
	for _, ad := range ads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%d\t%s\n",
			ad.ID, orDash(ad.Title), ad.Status, ad.DeliveredImpressions, ad.TargetImpressions, ad.Clicks, ad.TotalCost)
	}
	_ = tw.Flush()
}

func printAd(w io.Writer, ad *models.Ad) {
	tw := table(w)
	fmt.Fprintf(tw, "ID:\t%s\n", ad.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", orDash(ad.Title))
	fmt.Fprintf(tw, "Status:\t%s\n", ad.Status)
	fmt.Fprintf(tw, "Type:\t%s\n", ad.ContentType)
	fmt.Fprintf(tw, "Impressions:\t%d of %d\n", ad.DeliveredImpressions, ad.TargetImpressions)
	fmt.Fprintf(tw, "Clicks:\t%d (CTR %.2f%%)\n", ad.Clicks, ad.CTR)
	fmt.Fprintf(tw, "CPM:\t%s\n", ad.FinalCPM)
	fmt.Fprintf(tw, "Total cost:\t%s\n", ad.TotalCost)
	fmt.Fprintf(tw, "Remaining:\t%s\n", ad.RemainingBudget)
	if ad.PromoCodeUsed != "" {
		fmt.Fprintf(tw, "Promo:\t%s (-%s)\n", ad.PromoCodeUsed, ad.Discount)
	}
	if ad.Targeting != nil {
		fmt.Fprintf(tw, "Languages:\t%s\n", orDash(strings.Join(ad.Targeting.Languages, ", ")))
		fmt.Fprintf(tw, "Categories:\t%s\n", orDash(strings.Join(ad.Targeting.Categories, ", ")))
	}
	if ad.IsSaved {
		fmt.Fprintln(tw, "Saved:\tyes")
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, ad.Text)
	for _, b := range ad.Buttons {
		fmt.Fprintf(w, "  [%s] %s\n", b.Text, b.URL)
	}
}

func printForm(w io.Writer, f models.AdForm) {
	tw := table(w)
	fmt.Fprintf(tw, "Title:\t%s\n", orDash(f.Title))
	fmt.Fprintf(tw, "Text:\t%s\n", orDash(strings.ReplaceAll(f.Text, "\n", " / ")))
	for _, b := range f.Buttons {
		fmt.Fprintf(tw, "Button:\t%s -> %s\n", b.Text, b.URL)
	}
	fmt.Fprintf(tw, "Impressions:\t%d\n", f.TargetImpressions)
	fmt.Fprintf(tw, "Languages:\t%s\n", orDash(strings.Join(f.Targeting.Languages, ", ")))
	fmt.Fprintf(tw, "Categories:\t%s\n", orDash(strings.Join(f.Targeting.Categories, ", ")))
	if f.PromoCode != "" {
		fmt.Fprintf(tw, "Promo:\t%s\n", f.PromoCode)
	}
	_ = tw.Flush()
}

func printEstimate(w io.Writer, est *models.PricingEstimate) {
	if est == nil {
		fmt.Fprintln(w, "No estimate yet.")
		return
	}
	tw := table(w)
	fmt.Fprintf(tw, "Tier:\t%s\n", orDash(est.Tier.Name))
	fmt.Fprintf(tw, "CPM:\t%s\n", est.Pricing.FinalCPM)
	fmt.Fprintf(tw, "Subtotal:\t%s\n", est.Breakdown.Subtotal)
	if est.Breakdown.Discount > 0 {
		fmt.Fprintf(tw, "Discount:\t-%s\n", est.Breakdown.Discount)
	}
	fmt.Fprintf(tw, "Total:\t%s\n", est.Pricing.TotalCost)
	_ = tw.Flush()
}

func printStats(w io.Writer, points []models.StatPoint) {
	if len(points) == 0 {
		fmt.Fprintln(w, "No data for this period.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "WHEN\tIMPRESSIONS\tCLICKS\tCTR\tSPENT")
	for _, p := range points {
		when := p.Date
		if p.Hour != nil {
			when = fmt.Sprintf("%02d:00", *p.Hour)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\t%s\n", orDash(when), p.Impressions, p.Clicks, p.CTR, p.Spent)
	}
	_ = tw.Flush()
}

func printPerformance(w io.Writer, p *models.AdPerformance) {
	fmt.Fprintf(w, "%s (%s): %d/%d impressions, %d clicks\n",
		orDash(p.Ad.Title), p.Ad.Status, p.Ad.DeliveredImpressions, p.Ad.TargetImpressions, p.TotalClicks)
	if len(p.BotBreakdown) == 0 {
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "BOT\tMEMBERS\tIMPRESSIONS\tREVENUE")
	for _, b := range p.BotBreakdown {
		fmt.Fprintf(tw, "@%s\t%d\t%d\t%s\n", b.Bot.Username, b.Bot.TotalMembers, b.Impressions, b.Revenue)
	}
	_ = tw.Flush()
}

func printClicks(w io.Writer, clicks []models.AdClick, p *models.Pagination) {
	if len(clicks) == 0 {
		fmt.Fprintln(w, "No clicks recorded.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "WHEN\tBOT\tUSER\tURL")
	for _, c := range clicks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.CreatedAt, orDash(c.BotID), orDash(c.TelegramUserID), orDash(c.URL))
	}
	_ = tw.Flush()
	if p != nil && p.TotalPages > 1 {
		fmt.Fprintf(w, "page %d of %d\n", p.Page, p.TotalPages)
	}
}

func printBots(w io.Writer, bots []models.Bot) {
	if len(bots) == 0 {
		fmt.Fprintln(w, "No bots.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tUSERNAME\tSTATUS\tMEMBERS\tEARNED\tPAUSED")
	for _, b := range bots {
		fmt.Fprintf(tw, "%s\t@%s\t%s\t%d\t%s\t%t\n", b.ID, b.Username, b.Status, b.TotalMembers, b.TotalEarnings, b.IsPaused)
	}
	_ = tw.Flush()
}

func printBot(w io.Writer, b *models.Bot) {
	tw := table(w)
	fmt.Fprintf(tw, "ID:\t%s\n", b.ID)
	fmt.Fprintf(tw, "Username:\t@%s\n", b.Username)
	fmt.Fprintf(tw, "Status:\t%s\n", b.Status)
	fmt.Fprintf(tw, "Paused:\t%t\n", b.IsPaused)
	fmt.Fprintf(tw, "Category:\t%s\n", orDash(b.Category))
	fmt.Fprintf(tw, "Language:\t%s\n", orDash(b.Language))
	fmt.Fprintf(tw, "Description:\t%s\n", orDash(b.ShortDescription))
	fmt.Fprintf(tw, "Members:\t%d (%d active)\n", b.TotalMembers, b.ActiveMembers)
	fmt.Fprintf(tw, "Post filter:\t%s\n", orDash(b.PostFilter))
	fmt.Fprintf(tw, "Frequency:\tevery %d min\n", b.FrequencyMinutes)
	fmt.Fprintf(tw, "Earned:\t%s (pending %s)\n", b.TotalEarnings, b.PendingEarnings)
	_ = tw.Flush()
}

func printBotStats(w io.Writer, s *models.BotStats) {
	fmt.Fprintf(w, "@%s, last %d days: %d impressions, %s revenue\n",
		s.Bot.Username, s.Period, s.TotalImpressions, s.TotalRevenue)
	if len(s.DailyStats) == 0 {
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "DATE\tIMPRESSIONS\tUSERS\tCLICKS\tREVENUE\tECPM")
	for _, d := range s.DailyStats {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n", d.Date, d.Impressions, d.UniqueUsers, d.Clicks, d.Revenue, d.ECPM)
	}
	_ = tw.Flush()
}

func printProfile(w io.Writer, p *models.Profile) {
	tw := table(w)
	fmt.Fprintf(tw, "Name:\t%s\n", p.User.DisplayName())
	fmt.Fprintf(tw, "Email:\t%s\n", orDash(p.User.Email))
	fmt.Fprintf(tw, "Language:\t%s\n", orDash(p.User.Locale))
	fmt.Fprintf(tw, "Balance:\t%s (reserved %s)\n", p.Wallet.Available, p.Wallet.Reserved)
	fmt.Fprintf(tw, "Spent:\t%s\n", p.Wallet.TotalSpent)
	fmt.Fprintf(tw, "Earned:\t%s\n", p.Wallet.TotalEarned)
	fmt.Fprintf(tw, "Impressions:\t%d\n", p.Stats.TotalImpressions)
	fmt.Fprintf(tw, "Clicks:\t%d (CTR %.2f%%)\n", p.Stats.TotalClicks, p.Stats.AverageCTR)
	_ = tw.Flush()
}

func printAnalytics(w io.Writer, an models.Analytics) {
	if len(an.Revenue) == 0 && len(an.CTR) == 0 {
		fmt.Fprintln(w, "No analytics for this period.")
		return
	}

	ctr := make(map[string]float64, len(an.CTR))
	for _, c := range an.CTR {
		ctr[c.Date] = c.CTR
	}
	tw := table(w)
	fmt.Fprintln(tw, "DATE\tAMOUNT\tCTR")
	for _, r := range an.Revenue {
		fmt.Fprintf(tw, "%s\t%s\t%.2f%%\n", r.Date, r.Earnings, ctr[r.Date])
	}
	_ = tw.Flush()
}

func printDrafts(w io.Writer, drafts []models.Draft) {
	if len(drafts) == 0 {
		fmt.Fprintln(w, "No drafts.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tTITLE\tSAVED")
	for _, d := range drafts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Name, orDash(d.Form.Title), d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}
