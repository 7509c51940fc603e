package view

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"silvercare/internal/domain"
	"silvercare/internal/service"
	"silvercare/internal/sos"

	"go.uber.org/zap"
)

type MedicationLister interface {
	List(ctx context.Context, userID int64) ([]domain.MedicationRecord, error)
}

type SosNotifier interface {
	Notify(ctx context.Context, req service.SosNotifyRequest) (*service.SosNotifyResponse, error)
}

type ChatReplier interface {
	Reply(ctx context.Context, message string) (string, error)
}

type ProviderFinder interface {
	Nearby(ctx context.Context, lat, lng *float64) []domain.Provider
}

type FeedbackRecorder interface {
	Submit(ctx context.Context, req service.SubmitFeedbackRequest) (*domain.Feedback, error)
	Summary(ctx context.Context) (domain.FeedbackSummary, error)
}

// Deps are the services a session renders from and acts on.
type Deps struct {
	Medications MedicationLister
	Sos         SosNotifier
	Chat        ChatReplier
	Providers   ProviderFinder
	Feedback    FeedbackRecorder

	SOSDelay time.Duration
	// LocationWait bounds how long the contact alert waits for a location fix.
	LocationWait time.Duration
	// NotifyTimeout bounds the contact alert itself.
	NotifyTimeout time.Duration
	Logger        *zap.Logger
}

type dispatchResult struct {
	activation uint64
	alerted    int
}

// App is one user's companion session.
type App struct {
	userID int64
	deps   Deps
	logger *zap.Logger

	locator *sos.ReportedLocator
	flow    *sos.Flow

	// chatMu keeps each question next to its answer in the thread.
	chatMu sync.Mutex

	mu         sync.Mutex
	state      AppState
	thread     []ChatMessage
	typing     int
	rating     int
	submitted  bool
	lastCoords *sos.Coordinates
	dispatch   *dispatchResult

	wg sync.WaitGroup
}

func NewApp(userID int64, deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.Int64("user_id", userID))

	a := &App{
		userID:  userID,
		deps:    deps,
		logger:  logger,
		locator: sos.NewReportedLocator(),
		state:   AppState{Page: PageDashboard, Theme: ThemeLight},
		thread:  []ChatMessage{{Sender: senderBot, Text: ChatGreeting}},
	}
	opts := []sos.Option{sos.WithLogger(logger)}
	if deps.SOSDelay > 0 {
		opts = append(opts, sos.WithDelay(deps.SOSDelay))
	}
	a.flow = sos.NewFlow(a.locator, opts...)
	return a
}

func (a *App) UserID() int64 { return a.userID }

func (a *App) State() AppState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *App) Navigate(page string) error {
	p, err := ParsePage(strings.ToLower(strings.TrimSpace(page)))
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.state.Page = p
	a.mu.Unlock()
	return nil
}

func (a *App) ToggleTheme() Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Theme == ThemeLight {
		a.state.Theme = ThemeDark
	} else {
		a.state.Theme = ThemeLight
	}
	return a.state.Theme
}

// ActivateSOS opens the emergency page and starts the flow. coords, when the
// device already has a fix, resolve the location immediately. It reports
// whether a new activation started; a second press is a no-op.
func (a *App) ActivateSOS(coords *sos.Coordinates) bool {
	a.mu.Lock()
	a.state.Page = PageEmergency
	a.mu.Unlock()

	if a.flow.Snapshot().Status == sos.StatusIdle {
		// nothing reported before this press belongs to the new activation
		a.locator.Reset()
	}
	if coords != nil {
		a.locator.Report(*coords)
	}
	if !a.flow.Activate() {
		return false
	}

	activation := a.flow.Snapshot().Activation
	a.wg.Add(1)
	go a.alertContacts(activation)
	return true
}

// ReportLocation delivers the device position for the running activation.
// It reports false, and drops the position, when no SOS is active.
func (a *App) ReportLocation(c sos.Coordinates) bool {
	if !a.sosActive() {
		return false
	}
	a.locator.Report(c)
	return true
}

// DenyLocation records that the device refused to share its position.
// Like ReportLocation it only applies to a running activation.
func (a *App) DenyLocation(reason string) bool {
	if !a.sosActive() {
		return false
	}
	a.locator.Deny(reason)
	return true
}

func (a *App) sosActive() bool {
	return a.flow.Snapshot().Status != sos.StatusIdle
}

func (a *App) AcknowledgeSOS() bool {
	if !a.flow.Acknowledge() {
		return false
	}
	a.locator.Reset()
	return true
}

// alertContacts waits briefly for a location fix, then notifies contacts.
// The flow's own timer never waits for this.
func (a *App) alertContacts(activation uint64) {
	defer a.wg.Done()

	waitCtx, cancel := context.WithTimeout(context.Background(), a.deps.LocationWait)
	loc := a.flow.WaitLocation(waitCtx)
	cancel()

	req := service.SosNotifyRequest{UserID: a.userID}
	if loc.State == sos.LocationResolved && loc.Coords != nil {
		lat, lng := loc.Coords.Lat, loc.Coords.Lng
		req.Lat, req.Lng = &lat, &lng
		a.mu.Lock()
		c := *loc.Coords
		a.lastCoords = &c
		a.mu.Unlock()
	}

	timeout := a.deps.NotifyTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := a.deps.Sos.Notify(ctx, req)
	if err != nil {
		a.logger.Error("failed to alert emergency contacts", zap.Uint64("activation", activation), zap.Error(err))
		return
	}

	a.mu.Lock()
	a.dispatch = &dispatchResult{activation: activation, alerted: resp.ContactsAlerted}
	a.mu.Unlock()
}

// SendChat appends the message and the assistant's answer to the thread.
// Blank input is ignored. An unavailable assistant is answered locally.
// Concurrent calls on one session are answered one at a time.
func (a *App) SendChat(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	a.chatMu.Lock()
	defer a.chatMu.Unlock()

	a.mu.Lock()
	a.thread = append(a.thread, ChatMessage{Sender: senderUser, Text: text})
	a.typing++
	a.mu.Unlock()

	reply, err := a.deps.Chat.Reply(ctx, text)
	if errors.Is(err, domain.ErrChatUnavailable) {
		reply, err = fallbackReply(text), nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.typing--
	if err != nil {
		return err
	}
	a.thread = append(a.thread, ChatMessage{Sender: senderBot, Text: reply})
	return nil
}

func (a *App) SubmitFeedback(ctx context.Context, rating int, comment string) error {
	if rating == 0 {
		return domain.Validation("select a rating")
	}
	if _, err := a.deps.Feedback.Submit(ctx, service.SubmitFeedbackRequest{
		UserID:  a.userID,
		Rating:  rating,
		Comment: comment,
	}); err != nil {
		return err
	}

	a.mu.Lock()
	a.rating = rating
	a.submitted = true
	a.mu.Unlock()
	return nil
}

// Close stops the SOS flow and waits for an in-flight contact alert.
func (a *App) Close() {
	a.flow.Close()
	a.wg.Wait()
}
