package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"silvercare/internal/domain"
	"silvercare/internal/repository"
	"silvercare/internal/service"
	"silvercare/internal/sos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	waitFor   = time.Second
	pollEvery = 5 * time.Millisecond
)

type fakeNotifier struct {
	mu   sync.Mutex
	reqs []service.SosNotifyRequest
}

func (f *fakeNotifier) Notify(_ context.Context, req service.SosNotifyRequest) (*service.SosNotifyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return &service.SosNotifyResponse{Message: service.SosNotifiedMessage, ContactsAlerted: 1}, nil
}

func (f *fakeNotifier) calls() []service.SosNotifyRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.SosNotifyRequest, len(f.reqs))
	copy(out, f.reqs)
	return out
}

type chatFunc func(ctx context.Context, msg string) (string, error)

func (f chatFunc) Reply(ctx context.Context, msg string) (string, error) { return f(ctx, msg) }

type testEnv struct {
	app      *App
	meds     *repository.MemoryMedicationsRepository
	notifier *fakeNotifier
}

func newTestApp(t *testing.T, chat ChatReplier) testEnv {
	t.Helper()
	logger := zap.NewNop()
	meds := repository.NewMemoryMedicationsRepository()
	contacts := repository.NewMemoryEmergencyContactsRepository()
	require.NoError(t, repository.SeedDemo(context.Background(), meds, contacts))

	if chat == nil {
		chat = service.NewChatProxy(nil, time.Second, logger)
	}
	providers, err := service.NewProviderDirectory("", 5000, logger)
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	app := NewApp(repository.DemoUserID, Deps{
		Medications:  service.NewMedicationService(meds, logger),
		Sos:          notifier,
		Chat:         chat,
		Providers:    providers,
		Feedback:     service.NewFeedbackService(repository.NewMemoryFeedbackRepository(), logger),
		SOSDelay:     30 * time.Millisecond,
		LocationWait: 200 * time.Millisecond,
		Logger:       logger,
	})
	t.Cleanup(app.Close)
	return testEnv{app: app, meds: meds, notifier: notifier}
}

func TestApp_DefaultsToDashboard(t *testing.T) {
	env := newTestApp(t, nil)

	pv, err := env.app.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PageDashboard, pv.Page)
	assert.Equal(t, ThemeLight, pv.Theme)
	require.NotNil(t, pv.Dashboard)
	assert.Nil(t, pv.Medication)

	// demo data: Aspirin pending, one missed
	require.NotNil(t, pv.Dashboard.NextDose)
	assert.Equal(t, "Aspirin", pv.Dashboard.NextDose.MedicineName)
	assert.Equal(t, domain.RiskMedium, pv.RiskLevel)
	assert.Equal(t, 1, pv.Dashboard.Counts.Missed)
}

func TestApp_NavigateAndTheme(t *testing.T) {
	env := newTestApp(t, nil)

	assert.ErrorIs(t, env.app.Navigate("settings"), domain.ErrValidation)
	require.NoError(t, env.app.Navigate("Medication"))

	pv, err := env.app.Render(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pv.Medication)
	assert.Len(t, pv.Medication.Records, 3)
	assert.Equal(t, domain.NoticeMissedMessage, pv.Medication.RiskAlert)
	assert.Equal(t, "It's time to take your medicine: Aspirin", pv.Medication.VoiceReminder)

	assert.Equal(t, ThemeDark, env.app.ToggleTheme())
	assert.Equal(t, ThemeLight, env.app.ToggleTheme())
}

func TestApp_EveryPageRenders(t *testing.T) {
	env := newTestApp(t, nil)
	for _, p := range Pages {
		require.NoError(t, env.app.Navigate(string(p)))
		pv, err := env.app.Render(context.Background())
		require.NoError(t, err, p)
		assert.Equal(t, p, pv.Page)

		set := 0
		for _, v := range []bool{pv.Dashboard != nil, pv.Medication != nil, pv.Emergency != nil,
			pv.Doctors != nil, pv.Assistant != nil, pv.Feedback != nil} {
			if v {
				set++
			}
		}
		assert.Equal(t, 1, set, "page %s", p)
	}
}

func TestApp_SOSFlowWithLocation(t *testing.T) {
	env := newTestApp(t, nil)

	require.True(t, env.app.ActivateSOS(nil))
	assert.False(t, env.app.ActivateSOS(nil), "second press is a no-op")
	assert.Equal(t, PageEmergency, env.app.State().Page)

	pv, err := env.app.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sos.StatusContacting, pv.Emergency.Status)
	assert.Equal(t, "⏳ Contacting Emergency Services...", pv.Emergency.StatusText)
	assert.Equal(t, "Loading Location...", pv.Emergency.LocationText)

	env.app.ReportLocation(sos.Coordinates{Lat: 12.971599, Lng: 77.594566})

	assert.Eventually(t, func() bool {
		pv, _ := env.app.Render(context.Background())
		return pv.Emergency.Status == sos.StatusAmbulanceSent && pv.Emergency.ContactsAlerted != nil
	}, waitFor, pollEvery)

	pv, err = env.app.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "🚑 Ambulance is on the way!", pv.Emergency.StatusText)
	assert.Equal(t, "Lat: 12.9716, Lng: 77.5946", pv.Emergency.LocationText)
	assert.Equal(t, 1, *pv.Emergency.ContactsAlerted)

	calls := env.notifier.calls()
	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].Lat)
	assert.InDelta(t, 12.971599, *calls[0].Lat, 1e-9)

	require.True(t, env.app.AcknowledgeSOS())
	pv, err = env.app.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sos.StatusIdle, pv.Emergency.Status)
	assert.Empty(t, pv.Emergency.LocationText)
	assert.Nil(t, pv.Emergency.ContactsAlerted)
}

func TestApp_SOSWithoutLocationStillAlerts(t *testing.T) {
	env := newTestApp(t, nil)

	require.True(t, env.app.ActivateSOS(nil))
	assert.Eventually(t, func() bool { return len(env.notifier.calls()) == 1 }, waitFor, pollEvery)

	call := env.notifier.calls()[0]
	assert.Nil(t, call.Lat)
	assert.Nil(t, call.Lng)
}

func TestApp_SOSLocationDenied(t *testing.T) {
	env := newTestApp(t, nil)

	require.True(t, env.app.ActivateSOS(nil))
	env.app.DenyLocation("")

	assert.Eventually(t, func() bool {
		pv, _ := env.app.Render(context.Background())
		return pv.Emergency.LocationText == sos.DeniedReason
	}, waitFor, pollEvery)
}

func TestApp_SOSWithCoordsUpFront(t *testing.T) {
	env := newTestApp(t, nil)

	require.True(t, env.app.ActivateSOS(&sos.Coordinates{Lat: 1, Lng: 2}))
	assert.Eventually(t, func() bool { return len(env.notifier.calls()) == 1 }, waitFor, pollEvery)
	assert.Equal(t, 2.0, *env.notifier.calls()[0].Lng)

	// the doctors page uses the last known position
	require.NoError(t, env.app.Navigate("doctors"))
	pv, err := env.app.Render(context.Background())
	require.NoError(t, err)
	assert.Len(t, pv.Doctors.Providers, 3)
}

func TestApp_LocationReportedWhileIdleIsDropped(t *testing.T) {
	env := newTestApp(t, nil)

	assert.False(t, env.app.DenyLocation("old denial"))
	assert.False(t, env.app.ReportLocation(sos.Coordinates{Lat: 9, Lng: 9}))

	require.True(t, env.app.ActivateSOS(nil))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, sos.LocationPending, env.app.flow.Snapshot().Location.State)

	// the contact alert goes out without the stale position
	assert.Eventually(t, func() bool { return len(env.notifier.calls()) == 1 }, waitFor, pollEvery)
	assert.Nil(t, env.notifier.calls()[0].Lat)
}

func TestApp_ReportAfterAcknowledgeDoesNotReachNextActivation(t *testing.T) {
	env := newTestApp(t, nil)

	require.True(t, env.app.ActivateSOS(nil))
	assert.Eventually(t, func() bool {
		return env.app.flow.Snapshot().Status == sos.StatusAmbulanceSent
	}, waitFor, pollEvery)
	require.True(t, env.app.AcknowledgeSOS())
	assert.False(t, env.app.ReportLocation(sos.Coordinates{Lat: 5, Lng: 5}))

	require.True(t, env.app.ActivateSOS(nil))
	assert.True(t, env.app.ReportLocation(sos.Coordinates{Lat: 1, Lng: 1}))
	loc := env.app.flow.WaitLocation(context.Background())
	require.Equal(t, sos.LocationResolved, loc.State)
	assert.Equal(t, 1.0, loc.Coords.Lat)
}

func TestApp_AcknowledgeOutsideAmbulanceSentIsNoop(t *testing.T) {
	env := newTestApp(t, nil)
	assert.False(t, env.app.AcknowledgeSOS())
}

func TestApp_ChatThread(t *testing.T) {
	env := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, env.app.SendChat(ctx, "   "))
	require.NoError(t, env.app.SendChat(ctx, "hello"))
	require.NoError(t, env.app.Navigate("assistant"))

	pv, err := env.app.Render(ctx)
	require.NoError(t, err)
	msgs := pv.Assistant.Messages
	require.Len(t, msgs, 3, "greeting, user, reply")
	assert.Equal(t, ChatMessage{Sender: "bot", Text: ChatGreeting}, msgs[0])
	assert.Equal(t, ChatMessage{Sender: "user", Text: "hello"}, msgs[1])
	assert.Equal(t, service.SimulatedChatReply, msgs[2].Text)
	assert.False(t, pv.Assistant.Typing)
}

func TestApp_ConcurrentChatKeepsPairs(t *testing.T) {
	release := make(chan struct{})
	chat := chatFunc(func(_ context.Context, msg string) (string, error) {
		if msg == "first" {
			<-release
		}
		return "re: " + msg, nil
	})
	env := newTestApp(t, chat)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, env.app.SendChat(ctx, "first"))
	}()
	assert.Eventually(t, func() bool { return env.app.renderAssistant().Typing }, waitFor, pollEvery)
	go func() {
		defer wg.Done()
		assert.NoError(t, env.app.SendChat(ctx, "second"))
	}()
	time.Sleep(30 * time.Millisecond)
	close(release)
	wg.Wait()

	var texts []string
	for _, m := range env.app.renderAssistant().Messages[1:] {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"first", "re: first", "second", "re: second"}, texts)
}

func TestApp_ChatFallbackWhenUnavailable(t *testing.T) {
	down := chatFunc(func(context.Context, string) (string, error) {
		return "", domain.ChatUnavailable(errors.New("timeout"))
	})
	env := newTestApp(t, down)
	ctx := context.Background()

	cases := map[string]string{
		"I have a HEADACHE":              "For a headache, rest in a quiet, dark room. If it persists, please contact your doctor.",
		"what should I eat":              "For diabetes management, prioritize fiber-rich foods, leafy greens, and avoid sugary drinks.",
		"I missed my medicine yesterday": "If you missed your medicine, usually you should take it as soon as you remember. However, if it's almost time for the next dose, skip the missed one. Never double up!",
		"good morning":                   fallbackDefault,
	}
	for in, want := range cases {
		require.NoError(t, env.app.SendChat(ctx, in))
		thread := env.app.renderAssistant().Messages
		assert.Equal(t, want, thread[len(thread)-1].Text, in)
	}
}

func TestApp_ChatValidationErrorSurfaces(t *testing.T) {
	bad := chatFunc(func(context.Context, string) (string, error) {
		return "", domain.Validation("message is too long")
	})
	env := newTestApp(t, bad)

	err := env.app.SendChat(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, env.app.renderAssistant().Typing)
}

func TestApp_Feedback(t *testing.T) {
	env := newTestApp(t, nil)
	ctx := context.Background()

	assert.ErrorIs(t, env.app.SubmitFeedback(ctx, 0, ""), domain.ErrValidation)
	assert.ErrorIs(t, env.app.SubmitFeedback(ctx, 9, ""), domain.ErrValidation)

	require.NoError(t, env.app.Navigate("feedback"))
	pv, err := env.app.Render(ctx)
	require.NoError(t, err)
	assert.False(t, pv.Feedback.Submitted)

	require.NoError(t, env.app.SubmitFeedback(ctx, 4, "nice"))
	pv, err = env.app.Render(ctx)
	require.NoError(t, err)
	assert.True(t, pv.Feedback.Submitted)
	assert.Equal(t, 4, pv.Feedback.Rating)
	assert.InDelta(t, 4.0, pv.Feedback.Average, 0.001)
	assert.Equal(t, 1, pv.Feedback.Count)
}

func TestLocationText(t *testing.T) {
	assert.Equal(t, "", LocationText(sos.Location{State: sos.LocationNone}))
	assert.Equal(t, "Loading Location...", LocationText(sos.Location{State: sos.LocationPending}))
	assert.Equal(t, "Lat: 1.2346, Lng: -3.0000",
		LocationText(sos.Location{State: sos.LocationResolved, Coords: &sos.Coordinates{Lat: 1.23456, Lng: -3}}))
	assert.Equal(t, "blocked", LocationText(sos.Location{State: sos.LocationDenied, Reason: "blocked"}))
}

func TestSessions(t *testing.T) {
	s := NewSessions(Deps{Logger: zap.NewNop()})
	defer s.Close()

	_, err := s.Get(0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	a, err := s.Get(5)
	require.NoError(t, err)
	b, err := s.Get(5)
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := s.Get(6)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, int64(6), c.UserID())
}
