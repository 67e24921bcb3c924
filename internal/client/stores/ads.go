package stores

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/akhmads/adscli/internal/client/client"
	"github.com/akhmads/adscli/internal/client/models"
	"github.com/akhmads/adscli/internal/client/repositories/drafts"
	"github.com/akhmads/adscli/internal/client/services"
	"github.com/akhmads/adscli/internal/client/validation"
	"github.com/akhmads/adscli/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultPricingDebounce = 500 * time.Millisecond

	// LastStep is the review step of the three-step wizard.
	LastStep = 2
)

var ErrDraftsUnavailable = errors.New("local drafts are not available")

// AdStore owns the campaign wizard form and the advertiser's ad list.
type AdStore struct {
	svc      services.AdService
	drafts   drafts.Repository
	notices  *Notices
	log      logging.Logger
	debounce time.Duration

	mu        sync.Mutex
	form      models.AdForm
	step      int
	promoErr  string
	ads       []models.Ad
	current   *models.Ad
	estimate  *models.PricingEstimate
	options   *models.TargetingOptions
	daily     []models.StatPoint
	hourly    []models.StatPoint
	overview  []models.StatPoint
	loading   bool
	estimator *time.Timer

	// formGen changes whenever a quote for the form would go stale. An
	// estimate is stored only if formGen still matches its request.
	formGen uint64
}

// NewAdStore builds the store. repo may be nil, which disables drafts.
func NewAdStore(svc services.AdService, repo drafts.Repository, notices *Notices, debounce time.Duration, log logging.Logger) *AdStore {
	if debounce <= 0 {
		debounce = DefaultPricingDebounce
	}
	if log == nil {
		log = logging.Nop()
	}
	return &AdStore{
		svc:      svc,
		drafts:   repo,
		notices:  notices,
		log:      log,
		debounce: debounce,
		form:     models.DefaultAdForm(),
		ads:      []models.Ad{},
	}
}

/*************
 * Wizard
 *************/

// Form returns a copy of the wizard form.
func (s *AdStore) Form() models.AdForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneForm(s.form)
}

func (s *AdStore) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// UpdateForm applies fn to the form. When the target impressions or the
// targeting change, a pricing estimate is scheduled; calls inside the
// debounce window collapse into one request.
func (s *AdStore) UpdateForm(fn func(f *models.AdForm)) {
	s.mu.Lock()
	before := cloneForm(s.form)
	fn(&s.form)
	changed := before.TargetImpressions != s.form.TargetImpressions || !sameTargeting(before.Targeting, s.form.Targeting)
	if changed {
		s.formGen++
		s.scheduleEstimateLocked()
	}
	s.mu.Unlock()
}

func (s *AdStore) scheduleEstimateLocked() {
	if s.estimator != nil {
		s.estimator.Stop()
	}
	s.estimator = time.AfterFunc(s.debounce, func() {
		_ = s.FetchPricingEstimate(context.Background())
	})
}

// Next validates the current step and advances. It stops at LastStep.
func (s *AdStore) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := validation.AdStep(s.step, s.form); err != nil {
		return err
	}
	if s.step < LastStep {
		s.step++
	}
	return nil
}

func (s *AdStore) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > 0 {
		s.step--
	}
}

// ResetForm restores the default form and the first step.
func (s *AdStore) ResetForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopEstimatorLocked()
	s.formGen++
	s.form = models.DefaultAdForm()
	s.step = 0
	s.promoErr = ""
	s.estimate = nil
}

// PrefillFrom resets the wizard and loads it with a copy of ad, the way
// "duplicate" works: the new campaign is created only when submitted.
func (s *AdStore) PrefillFrom(ad models.Ad) {
	s.ResetForm()

	form := models.DefaultAdForm()
	if ad.ContentType != "" {
		form.ContentType = ad.ContentType
	}
	form.Title = ad.Title + " (Copy)"
	form.Text = ad.Text
	form.Buttons = append([]models.AdButton{}, ad.Buttons...)
	form.MediaURL = ad.MediaURL
	form.MediaType = ad.MediaType
	if ad.Poll != nil {
		p := *ad.Poll
		p.Options = append([]string(nil), ad.Poll.Options...)
		form.Poll = &p
	}
	if ad.TargetImpressions > 0 {
		form.TargetImpressions = ad.TargetImpressions
	}
	if ad.Targeting != nil {
		form.Targeting = *ad.Targeting.Clone()
	}
	if ad.CPMBid > 0 {
		bid := float64(ad.CPMBid)
		form.CPMBid = &bid
	}

	s.mu.Lock()
	s.formGen++
	s.form = form
	s.mu.Unlock()
}

// PromoError is the inline message of the last rejected promo code.
func (s *AdStore) PromoError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promoErr
}

// ApplyPromoCode checks the code locally, then asks for an estimate with it.
// A code that fails the local check never reaches the server.
func (s *AdStore) ApplyPromoCode(ctx context.Context, code string) error {
	code, err := validation.PromoCode(code)
	if err != nil {
		var verrs validation.Errors
		errors.As(err, &verrs)
		s.mu.Lock()
		s.promoErr = verrs.Field("promoCode")
		s.mu.Unlock()
		return err
	}

	req, gen := s.estimateRequest()
	req.PromoCode = code
	est, err := s.svc.PricingEstimate(ctx, req)
	if err != nil {
		s.mu.Lock()
		s.promoErr = client.MessageOf(err, "Invalid promo code")
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if s.formGen != gen {
		s.mu.Unlock()
		s.log.Debug(ctx, "form changed during promo check, result dropped")
		return nil
	}
	s.formGen++
	s.form.PromoCode = code
	s.promoErr = ""
	s.estimate = est
	s.mu.Unlock()
	s.notices.ok("Promo code applied")
	return nil
}

// ClearPromoCode removes the applied code.
func (s *AdStore) ClearPromoCode() {
	s.mu.Lock()
	s.form.PromoCode = ""
	s.promoErr = ""
	s.formGen++
	s.scheduleEstimateLocked()
	s.mu.Unlock()
}

// estimateRequest returns the quote request for the current form and the
// form generation it was built from.
func (s *AdStore) estimateRequest() (models.EstimateRequest, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.form.Targeting
	req := models.EstimateRequest{
		Impressions: s.form.TargetImpressions,
		Targeting:   t.Clone(),
		PromoCode:   s.form.PromoCode,
	}
	if s.form.CPMBid != nil {
		bid := *s.form.CPMBid
		req.CPMBid = &bid
	}
	return req, s.formGen
}

func (s *AdStore) Estimate() *models.PricingEstimate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.estimate
}

// FetchPricingEstimate quotes the current form. Failures are logged only;
// the wizard keeps showing the previous estimate. A quote that returns
// after the form was reset, prefilled or repriced is discarded.
func (s *AdStore) FetchPricingEstimate(ctx context.Context) error {
	req, gen := s.estimateRequest()
	est, err := s.svc.PricingEstimate(ctx, req)
	if err != nil {
		s.log.Warn(ctx, "pricing estimate failed", "error", err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.formGen != gen {
		s.log.Debug(ctx, "stale pricing estimate dropped")
		return nil
	}
	s.estimate = est
	return nil
}

func (s *AdStore) TargetingOptions() *models.TargetingOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

func (s *AdStore) FetchTargetingOptions(ctx context.Context) error {
	opts, err := s.svc.TargetingOptions(ctx)
	if err != nil {
		s.log.Warn(ctx, "targeting options failed", "error", err)
		return err
	}
	s.mu.Lock()
	s.options = opts
	s.mu.Unlock()
	return nil
}

// CreateAd validates the first two steps and creates the campaign from the
// form. On success the form is reset.
func (s *AdStore) CreateAd(ctx context.Context) (*models.Ad, error) {
	form := s.Form()
	for step := 0; step < LastStep; step++ {
		if err := validation.AdStep(step, form); err != nil {
			return nil, err
		}
	}

	req := models.CreateAdRequest{
		ContentType:       form.ContentType,
		Title:             form.Title,
		Text:              form.Text,
		Buttons:           form.Buttons,
		MediaURL:          form.MediaURL,
		MediaType:         form.MediaType,
		Poll:              form.Poll,
		TargetImpressions: form.TargetImpressions,
		CPMBid:            form.CPMBid,
		Targeting:         form.Targeting.Clone(),
		PromoCode:         form.PromoCode,
		TrackingEnabled:   true,
	}

	ad, err := s.svc.Create(ctx, req)
	if err != nil {
		return nil, s.notices.fail(err, "Failed to create ad")
	}

	s.ResetForm()
	s.mu.Lock()
	s.current = ad
	s.ads = append([]models.Ad{*ad}, s.ads...)
	s.mu.Unlock()
	s.notices.ok("Ad created successfully!")
	return ad, nil
}

/*************
 * Ad list
 *************/

func (s *AdStore) Ads() []models.Ad {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ads)
}

func (s *AdStore) Current() *models.Ad {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *AdStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *AdStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *AdStore) FetchMyAds(ctx context.Context, f models.AdFilter) error {
	s.setLoading(true)
	defer s.setLoading(false)

	page, err := s.svc.List(ctx, f)
	if err != nil {
		return s.notices.fail(err, "Failed to fetch ads")
	}
	s.mu.Lock()
	s.ads = page.Items
	s.mu.Unlock()
	return nil
}

func (s *AdStore) FetchAd(ctx context.Context, id string) (*models.Ad, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	ad, err := s.svc.Get(ctx, id)
	if err != nil {
		return nil, s.notices.fail(err, "Failed to fetch ad")
	}
	s.mu.Lock()
	s.current = ad
	s.mu.Unlock()
	return ad, nil
}

// replace swaps the cached copies of ad for the server's version.
func (s *AdStore) replace(ad *models.Ad) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ads {
		if s.ads[i].ID == ad.ID {
			s.ads[i] = *ad
		}
	}
	if s.current != nil && s.current.ID == ad.ID {
		s.current = ad
	}
}

// mutate runs one server call returning the updated ad and folds the result
// into the store.
func (s *AdStore) mutate(call func() (*models.Ad, error), okMsg, failMsg string) (*models.Ad, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	ad, err := call()
	if err != nil {
		return nil, s.notices.fail(err, failMsg)
	}
	s.replace(ad)
	s.notices.ok(okMsg)
	return ad, nil
}

func (s *AdStore) UpdateAd(ctx context.Context, id string, req models.CreateAdRequest) (*models.Ad, error) {
	return s.mutate(func() (*models.Ad, error) { return s.svc.Update(ctx, id, req) },
		"Ad updated successfully!", "Failed to update ad")
}

func (s *AdStore) SubmitAd(ctx context.Context, id string) (*models.Ad, error) {
	return s.mutate(func() (*models.Ad, error) { return s.svc.Submit(ctx, id) },
		"Ad submitted for review!", "Failed to submit ad")
}

func (s *AdStore) PauseAd(ctx context.Context, id string) (*models.Ad, error) {
	return s.mutate(func() (*models.Ad, error) { return s.svc.Pause(ctx, id) },
		"Ad paused!", "Failed to pause ad")
}

func (s *AdStore) ResumeAd(ctx context.Context, id string) (*models.Ad, error) {
	return s.mutate(func() (*models.Ad, error) { return s.svc.Resume(ctx, id) },
		"Ad resumed!", "Failed to resume ad")
}

func (s *AdStore) ArchiveAd(ctx context.Context, id string) (*models.Ad, error) {
	return s.mutate(func() (*models.Ad, error) { return s.svc.Archive(ctx, id) },
		"Ad archived!", "Failed to archive ad")
}

func (s *AdStore) UnarchiveAd(ctx context.Context, id string) (*models.Ad, error) {
	return s.mutate(func() (*models.Ad, error) { return s.svc.Unarchive(ctx, id) },
		"Ad unarchived!", "Failed to unarchive ad")
}

func (s *AdStore) SetSchedule(ctx context.Context, id string, sch models.Schedule) (*models.Ad, error) {
	if err := validation.Schedule(sch); err != nil {
		return nil, err
	}
	return s.mutate(func() (*models.Ad, error) { return s.svc.SetSchedule(ctx, id, sch) },
		"Schedule set successfully!", "Failed to set schedule")
}

func (s *AdStore) RemoveSchedule(ctx context.Context, id string) (*models.Ad, error) {
	return s.mutate(func() (*models.Ad, error) { return s.svc.RemoveSchedule(ctx, id) },
		"Schedule removed!", "Failed to remove schedule")
}

func (s *AdStore) DeleteAd(ctx context.Context, id string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.svc.Delete(ctx, id); err != nil {
		return s.notices.fail(err, "Failed to delete ad")
	}
	s.mu.Lock()
	s.ads = slices.DeleteFunc(s.ads, func(a models.Ad) bool { return a.ID == id })
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()
	s.notices.ok("Ad deleted!")
	return nil
}

// ToggleSave flips the bookmark and returns the new state.
func (s *AdStore) ToggleSave(ctx context.Context, id string) (bool, error) {
	saved, err := s.svc.ToggleSave(ctx, id)
	if err != nil {
		return false, s.notices.fail(err, "Failed to save ad")
	}
	s.mu.Lock()
	for i := range s.ads {
		if s.ads[i].ID == id {
			s.ads[i].IsSaved = saved
		}
	}
	s.mu.Unlock()
	if saved {
		s.notices.ok("Ad saved!")
	} else {
		s.notices.ok("Ad unsaved!")
	}
	return saved, nil
}

func (s *AdStore) SendTestAd(ctx context.Context, id, telegramUserID string) error {
	telegramUserID = strings.TrimSpace(telegramUserID)
	if telegramUserID == "" {
		return validation.Errors{{Field: "telegramUserId", Message: "Enter your Telegram user ID"}}
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.svc.SendTest(ctx, id, telegramUserID); err != nil {
		return s.notices.fail(err, "Failed to send test ad")
	}
	s.notices.ok("Test ad sent to Telegram!")
	return nil
}

/*************
 * Stats
 *************/

func (s *AdStore) FetchDailyStats(ctx context.Context, id string, days int) ([]models.StatPoint, error) {
	return s.fetchStats(ctx, &s.daily, "Failed to fetch daily stats", func() ([]models.StatPoint, error) {
		return s.svc.DailyStats(ctx, id, days)
	})
}

func (s *AdStore) FetchHourlyStats(ctx context.Context, id string) ([]models.StatPoint, error) {
	return s.fetchStats(ctx, &s.hourly, "Failed to fetch hourly stats", func() ([]models.StatPoint, error) {
		return s.svc.HourlyStats(ctx, id)
	})
}

func (s *AdStore) FetchOverviewStats(ctx context.Context, days int) ([]models.StatPoint, error) {
	return s.fetchStats(ctx, &s.overview, "Failed to fetch overview stats", func() ([]models.StatPoint, error) {
		return s.svc.OverviewStats(ctx, days)
	})
}

func (s *AdStore) fetchStats(ctx context.Context, dst *[]models.StatPoint, failMsg string, call func() ([]models.StatPoint, error)) ([]models.StatPoint, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	stats, err := call()
	if err != nil {
		return nil, s.notices.fail(err, failMsg)
	}
	s.mu.Lock()
	*dst = stats
	s.mu.Unlock()
	return stats, nil
}

/*************
 * Drafts
 *************/

// SaveDraft stores the current form locally under name.
func (s *AdStore) SaveDraft(ctx context.Context, name string) (*models.Draft, error) {
	if s.drafts == nil {
		return nil, ErrDraftsUnavailable
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation.Errors{{Field: "name", Message: "Name the draft"}}
	}

	d := &models.Draft{ID: uuid.NewString(), Name: name, Form: s.Form(), UpdatedAt: time.Now()}
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *AdStore) Drafts(ctx context.Context) ([]models.Draft, error) {
	if s.drafts == nil {
		return nil, ErrDraftsUnavailable
	}
	return s.drafts.List(ctx)
}

// LoadDraft replaces the wizard form with the draft and rewinds to step 0.
func (s *AdStore) LoadDraft(ctx context.Context, id string) (*models.Draft, error) {
	if s.drafts == nil {
		return nil, ErrDraftsUnavailable
	}
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.ResetForm()
	s.mu.Lock()
	s.form = cloneForm(d.Form)
	s.mu.Unlock()
	return d, nil
}

func (s *AdStore) DeleteDraft(ctx context.Context, id string) error {
	if s.drafts == nil {
		return ErrDraftsUnavailable
	}
	return s.drafts.Delete(ctx, id)
}

// Close cancels a pending debounced estimate.
func (s *AdStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopEstimatorLocked()
}

func (s *AdStore) stopEstimatorLocked() {
	if s.estimator != nil {
		s.estimator.Stop()
		s.estimator = nil
	}
}

func cloneForm(f models.AdForm) models.AdForm {
	out := f
	out.Buttons = append([]models.AdButton{}, f.Buttons...)
	out.Targeting = *f.Targeting.Clone()
	if f.Poll != nil {
		p := *f.Poll
		p.Options = append([]string(nil), f.Poll.Options...)
		out.Poll = &p
	}
	if f.CPMBid != nil {
		bid := *f.CPMBid
		out.CPMBid = &bid
	}
	return out
}

func sameTargeting(a, b models.AdTargeting) bool {
	return a.Frequency == b.Frequency &&
		slices.Equal(a.Categories, b.Categories) &&
		slices.Equal(a.AISegments, b.AISegments) &&
		slices.Equal(a.Languages, b.Languages)
}
