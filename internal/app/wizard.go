package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"valley_travel/internal/domain"
	"valley_travel/internal/validation"
)

type Step int

const (
	StepPersonal Step = iota + 1
	StepHotel
	StepRates
	StepAvailability
	StepLegal
)

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepHotel:
		return "hotel"
	case StepRates:
		return "rates"
	case StepAvailability:
		return "availability"
	case StepLegal:
		return "legal"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
	PhaseClosed     Phase = "closed"
)

// Policy decides whether a step's validation errors stop the wizard.
type Policy string

const (
	PolicyBlocking Policy = "blocking"
	PolicyAdvisory Policy = "advisory"
)

const (
	DefaultCloseDelay = 3 * time.Second

	bannerFixFields = "Please fix the highlighted fields before continuing."
	bannerSuccess   = "Registration successful! Please check your email to verify your account."
	msgEmailInUse   = "This email is already registered. Please use a different email or login."
	msgWeakPassword = "Password is too weak. Please use a stronger password."
)

func DefaultPolicies() map[Step]Policy {
	return map[Step]Policy{
		StepPersonal:     PolicyBlocking,
		StepHotel:        PolicyBlocking,
		StepRates:        PolicyAdvisory,
		StepAvailability: PolicyAdvisory,
		StepLegal:        PolicyAdvisory,
	}
}

// BlockingPolicies returns the default policies with the named steps
// ("rates", "availability", "legal", ...) made blocking.
func BlockingPolicies(names []string) (map[Step]Policy, error) {
	p := DefaultPolicies()
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		found := false
		for s := StepPersonal; s <= StepLegal; s++ {
			if s.String() == n {
				p[s] = PolicyBlocking
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown wizard step %q", n)
		}
	}
	return p, nil
}

// WizardState is the serializable part of a wizard.
type WizardState struct {
	Step     Step                       `json:"step"`
	Phase    Phase                      `json:"phase"`
	Draft    domain.RegistrationDraft   `json:"draft"`
	Errors   map[string]string          `json:"errors,omitempty"`
	Warnings map[string]string          `json:"warnings,omitempty"`
	Banner   string                     `json:"banner,omitempty"`
	Record   *domain.RegistrationRecord `json:"record,omitempty"`
}

func NewWizardState() WizardState {
	return WizardState{Step: StepPersonal, Phase: PhaseEditing, Draft: domain.NewRegistrationDraft()}
}

type WizardOptions struct {
	Policies   map[Step]Policy
	CloseDelay time.Duration
	// OnSuccess runs once, CloseDelay after a successful submission, right before the wizard closes.
	OnSuccess func(domain.RegistrationRecord)
	OnClose   func()
}

// Wizard is the five-step hotel registration form.
type Wizard struct {
	mu       sync.Mutex
	st       WizardState
	reg      domain.Registrar
	opts     WizardOptions
	inFlight bool
	timer    *time.Timer
}

func NewWizard(reg domain.Registrar, opts WizardOptions) *Wizard {
	return RestoreWizard(reg, NewWizardState(), opts)
}

// RestoreWizard rebuilds a wizard from a saved state.
func RestoreWizard(reg domain.Registrar, st WizardState, opts WizardOptions) *Wizard {
	if opts.Policies == nil {
		opts.Policies = DefaultPolicies()
	}
	if opts.CloseDelay <= 0 {
		opts.CloseDelay = DefaultCloseDelay
	}
	if st.Step < StepPersonal || st.Step > StepLegal {
		st.Step = StepPersonal
	}
	if st.Phase == "" || st.Phase == PhaseSubmitting {
		st.Phase = PhaseEditing
	}
	return &Wizard{st: st, reg: reg, opts: opts}
}

func (w *Wizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneState(w.st)
}

func (w *Wizard) editable() error {
	switch w.st.Phase {
	case PhaseEditing, PhaseFailed:
		return nil
	case PhaseSubmitting:
		return domain.ErrSubmitInFlight
	}
	return fmt.Errorf("%w: wizard is %s", domain.ErrInvalidTransition, w.st.Phase)
}

func (w *Wizard) update(fn func(d *domain.RegistrationDraft)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	fn(&w.st.Draft)
	return nil
}

func (w *Wizard) UpdatePersonal(p domain.PersonalInfo) error {
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.AlternatePhone = strings.TrimSpace(p.AlternatePhone)
	return w.update(func(d *domain.RegistrationDraft) { d.Personal = p })
}

func (w *Wizard) UpdateHotel(h domain.HotelInfo) error {
	if strings.TrimSpace(h.State) == "" {
		h.State = domain.DefaultState
	}
	h.Pincode = strings.TrimSpace(h.Pincode)
	return w.update(func(d *domain.RegistrationDraft) { d.Hotel = h })
}

func (w *Wizard) UpdateRates(r domain.RateInfo) error {
	return w.update(func(d *domain.RegistrationDraft) { d.Rates = r })
}

func (w *Wizard) UpdateAvailability(a domain.AvailabilityInfo) error {
	return w.update(func(d *domain.RegistrationDraft) { d.Availability = a })
}

// UpdateLegal stores GST and PAN trimmed and uppercased, so lowercase input
// passes the format rules.
func (w *Wizard) UpdateLegal(l domain.LegalInfo) error {
	l.GSTNumber = strings.ToUpper(strings.TrimSpace(l.GSTNumber))
	l.PANNumber = strings.ToUpper(strings.TrimSpace(l.PANNumber))
	return w.update(func(d *domain.RegistrationDraft) { d.Legal = l })
}

// ValidateStep reports the step's field errors and whether the step may be left.
func (w *Wizard) ValidateStep(s Step) (map[string]string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.check(s)
}

func (w *Wizard) policy(s Step) Policy {
	if p, ok := w.opts.Policies[s]; ok {
		return p
	}
	return PolicyBlocking
}

func (w *Wizard) check(s Step) (map[string]string, bool) {
	d := w.st.Draft
	errs := stepValidators[s](d)
	pass := len(errs) == 0 || w.policy(s) == PolicyAdvisory
	if s == StepLegal {
		// earlier steps may have drifted since they were left
		for _, prior := range []Step{StepPersonal, StepHotel} {
			perrs := stepValidators[prior](d)
			for k, v := range perrs {
				errs[k] = v
			}
			if len(perrs) > 0 && w.policy(prior) == PolicyBlocking {
				pass = false
			}
		}
	}
	return errs, pass
}

func (w *Wizard) record(errs map[string]string, pass bool) error {
	if !pass {
		w.st.Errors = errs
		w.st.Warnings = nil
		w.st.Banner = bannerFixFields
		return domain.NewValidationError(errs)
	}
	w.st.Errors = nil
	w.st.Banner = ""
	if len(errs) > 0 {
		w.st.Warnings = errs
	} else {
		w.st.Warnings = nil
	}
	return nil
}

// Next validates the current step and advances when it passes.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	if w.st.Step == StepLegal {
		return fmt.Errorf("%w: last step, submit instead", domain.ErrInvalidTransition)
	}
	errs, pass := w.check(w.st.Step)
	if err := w.record(errs, pass); err != nil {
		return err
	}
	w.st.Step++
	w.st.Phase = PhaseEditing
	return nil
}

// Previous goes back one step without validating.
func (w *Wizard) Previous() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	if w.st.Step == StepPersonal {
		return fmt.Errorf("%w: already on first step", domain.ErrInvalidTransition)
	}
	w.st.Step--
	w.st.Phase = PhaseEditing
	w.st.Errors, w.st.Warnings, w.st.Banner = nil, nil, ""
	return nil
}

// Skip is available on the rates and availability steps. It injects defaults,
// keeps range findings as warnings, and advances.
func (w *Wizard) Skip() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(); err != nil {
		return err
	}
	var warns map[string]string
	switch w.st.Step {
	case StepRates:
		r := &w.st.Draft.Rates
		if strings.TrimSpace(r.DefaultRate) == "" {
			r.DefaultRate = domain.DefaultRate
		}
		if strings.TrimSpace(r.DefaultWeekendRate) == "" {
			r.DefaultWeekendRate = domain.DefaultWeekendRate
		}
		warns = validation.ValidateForm(map[string]string{
			"defaultRate":        r.DefaultRate,
			"defaultWeekendRate": r.DefaultWeekendRate,
		}, map[string]any{
			"defaultRate":        validation.RateRange("Default rate"),
			"defaultWeekendRate": validation.RateRange("Weekend rate"),
		})
	case StepAvailability:
		w.st.Draft.Availability.BlackoutDates = []domain.BlackoutDate{}
	default:
		return fmt.Errorf("%w: %s step cannot be skipped", domain.ErrInvalidTransition, w.st.Step)
	}
	_ = w.record(warns, true)
	w.st.Step++
	w.st.Phase = PhaseEditing
	return nil
}

// Submit re-validates and hands the normalized draft to the registrar.
// Only one submission may be in flight per wizard.
func (w *Wizard) Submit(ctx context.Context) (domain.RegistrationRecord, error) {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return domain.RegistrationRecord{}, domain.ErrSubmitInFlight
	}
	if err := w.editable(); err != nil {
		w.mu.Unlock()
		return domain.RegistrationRecord{}, err
	}
	if w.st.Step != StepLegal {
		w.mu.Unlock()
		return domain.RegistrationRecord{}, fmt.Errorf("%w: submit from %s step", domain.ErrInvalidTransition, w.st.Step)
	}
	errs, pass := w.check(StepLegal)
	if err := w.record(errs, pass); err != nil {
		w.mu.Unlock()
		return domain.RegistrationRecord{}, err
	}
	payload := NormalizeDraft(w.st.Draft)
	w.inFlight = true
	w.st.Phase = PhaseSubmitting
	w.mu.Unlock()

	rec, err := w.reg.Register(ctx, payload)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false
	if err != nil {
		w.st.Phase = PhaseFailed
		w.st.Banner = UserMessage(err)
		return domain.RegistrationRecord{}, err
	}
	w.st.Phase = PhaseSucceeded
	w.st.Banner = bannerSuccess
	w.st.Record = &rec
	w.timer = time.AfterFunc(w.opts.CloseDelay, func() {
		if w.opts.OnSuccess != nil {
			w.opts.OnSuccess(rec)
		}
		w.Close()
	})
	return rec, nil
}

// Close discards the wizard. Safe to call more than once.
func (w *Wizard) Close() {
	w.mu.Lock()
	if w.st.Phase == PhaseClosed {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.st.Phase = PhaseClosed
	onClose := w.opts.OnClose
	w.mu.Unlock()
	if onClose != nil {
		onClose()
	}
}

// UserMessage maps registrar failures to what the partner sees.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrEmailInUse):
		return msgEmailInUse
	case errors.Is(err, domain.ErrWeakPassword):
		return msgWeakPassword
	}
	return err.Error()
}

// NormalizeDraft applies the submission-time defaults: rate fallbacks, default
// state, and only blackout ranges that are paired and in order.
func NormalizeDraft(d domain.RegistrationDraft) domain.RegistrationDraft {
	out := d
	rate := strings.TrimSpace(d.Rates.DefaultRate)
	weekend := strings.TrimSpace(d.Rates.DefaultWeekendRate)
	if weekend == "" {
		if rate != "" {
			weekend = rate
		} else {
			weekend = domain.DefaultWeekendRate
		}
	}
	if rate == "" {
		rate = domain.DefaultRate
	}
	out.Rates.DefaultRate = rate
	out.Rates.DefaultWeekendRate = weekend
	out.Rates.SeasonalRates = append([]domain.RatePeriod{}, d.Rates.SeasonalRates...)
	out.Rates.ExtraBedRates = append([]domain.RatePeriod{}, d.Rates.ExtraBedRates...)
	out.Rates.CWNBRates = append([]domain.RatePeriod{}, d.Rates.CWNBRates...)

	paired := make([]domain.BlackoutDate, 0, len(d.Availability.BlackoutDates))
	for _, b := range d.Availability.BlackoutDates {
		if b.Paired() && checkRange(b.StartDate, b.EndDate) == "" {
			paired = append(paired, b)
		}
	}
	out.Availability.BlackoutDates = paired
	if strings.TrimSpace(out.Hotel.State) == "" {
		out.Hotel.State = domain.DefaultState
	}
	return out
}

func cloneState(st WizardState) WizardState {
	out := st
	out.Errors = cloneMap(st.Errors)
	out.Warnings = cloneMap(st.Warnings)
	out.Draft.Rates.SeasonalRates = append([]domain.RatePeriod(nil), st.Draft.Rates.SeasonalRates...)
	out.Draft.Rates.ExtraBedRates = append([]domain.RatePeriod(nil), st.Draft.Rates.ExtraBedRates...)
	out.Draft.Rates.CWNBRates = append([]domain.RatePeriod(nil), st.Draft.Rates.CWNBRates...)
	out.Draft.Availability.BlackoutDates = append([]domain.BlackoutDate(nil), st.Draft.Availability.BlackoutDates...)
	if st.Record != nil {
		r := *st.Record
		out.Record = &r
	}
	return out
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
