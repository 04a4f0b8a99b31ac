package autocatch

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/WB-SupplyBot/internal/dom/domtest"
	"github.com/m04kA/WB-SupplyBot/internal/domain"
	"github.com/m04kA/WB-SupplyBot/internal/scrape"
)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

// manualScheduler отдает управление проходом тесту
type manualScheduler struct {
	mu       sync.Mutex
	started  bool
	stopped  int
	interval time.Duration
	pass     func(ctx context.Context)
}

func (s *manualScheduler) Start(interval time.Duration, pass func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	s.interval = interval
	s.pass = pass
}

func (s *manualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped++
}

func (s *manualScheduler) RunPass(ctx context.Context) {
	s.mu.Lock()
	pass := s.pass
	s.mu.Unlock()
	if pass != nil {
		pass(ctx)
	}
}

// memStore in-memory реализация SettingsStore поверх JSON,
// как и настоящая (bot_settings хранит JSONB)
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) GetSetting(ctx context.Context, key string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	if !ok {
		return context.Canceled
	}
	return json.Unmarshal(raw, out)
}

func (s *memStore) SetSetting(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	urgent []string
	plain  []string
}

func (n *recordingNotifier) Notify(ctx context.Context, message string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.plain = append(n.plain, message)
	return true
}

func (n *recordingNotifier) NotifyUrgent(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urgent = append(n.urgent, message)
}

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) Publish(event string, payload interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

type tickMetrics struct {
	mu        sync.Mutex
	ticks     map[string]int
	clicks    int
	successes int
}

func newTickMetrics() *tickMetrics {
	return &tickMetrics{ticks: map[string]int{}}
}

func (m *tickMetrics) ObserveWorkflowTick(workflow, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks[outcome]++
}

func (m *tickMetrics) ObserveTriggerClick(workflow string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks++
}

func (m *tickMetrics) ObserveWorkflowSuccess(workflow string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes++
}

func (m *tickMetrics) Tick(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks[outcome]
}

func (m *tickMetrics) Successes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.successes
}

type nopLogger struct{}

func (nopLogger) Debug(format string, v ...interface{}) {}
func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func zeroDelays() Delays {
	return Delays{CalendarTimeout: 50 * time.Millisecond, CalendarPoll: time.Millisecond}
}

// bookingPage строит страницу с триггером, календарем и кнопками диалога
func bookingPage() *domtest.Page {
	trigger := domtest.El("button", "class", "button_primary").WithText("Запланировать поставку")

	freeCell := domtest.El("td", "class", "Calendar-cell").WithKids(
		domtest.El("span", "class", "Text--body-m").WithText("10 октября, пт"),
		domtest.El("span").WithText("Приемка Бесплатно"),
	)
	paidCell := domtest.El("td", "class", "Calendar-cell").WithKids(
		domtest.El("span", "class", "Text--body-m").WithText("13 октября, пн"),
		domtest.El("span").WithText("Приемка 5x"),
	)

	selectButton := domtest.El("button").WithText("Выбрать")
	finalButton := domtest.El("button", "class", "button_submit").WithText("Запланировать")

	return domtest.NewPage(domtest.El("body").WithKids(
		trigger,
		domtest.El("table").WithKids(freeCell, paidCell),
		selectButton,
		finalButton,
	))
}

// memHistory in-memory журнал пойманных дат
type memHistory struct {
	mu      sync.Mutex
	records []domain.CatchRecord
}

func (h *memHistory) Create(ctx context.Context, record *domain.CatchRecord) (*domain.CatchRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	record.ID = int64(len(h.records) + 1)
	h.records = append(h.records, *record)
	return record, nil
}

func (h *memHistory) Records() []domain.CatchRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.CatchRecord(nil), h.records...)
}

func newTestController(page *domtest.Page) (*Controller, *manualScheduler, *memStore, *memHistory, *recordingNotifier, *recordingSink, *tickMetrics) {
	now := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	tp := fixedTime{now: now}
	scheduler := &manualScheduler{}
	store := newMemStore()
	history := &memHistory{}
	notifier := &recordingNotifier{}
	sink := &recordingSink{}
	metrics := newTickMetrics()

	ctl := NewController(
		page,
		scrape.NewDateExtractor(tp),
		scheduler,
		store,
		history,
		notifier,
		sink,
		metrics,
		tp,
		zeroDelays(),
		nopLogger{},
	)
	return ctl, scheduler, store, history, notifier, sink, metrics
}

func TestController_StartValidation(t *testing.T) {
	ctx := context.Background()
	ctl, _, _, _, _, _, _ := newTestController(bookingPage())

	err := ctl.Start(ctx, Settings{Interval: 0})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	require.NoError(t, ctl.Start(ctx, Settings{Interval: time.Second}))
	assert.ErrorIs(t, ctl.Start(ctx, Settings{Interval: time.Second}), ErrAlreadyRunning)
}

func TestController_StopWhenNotRunning(t *testing.T) {
	ctl, _, _, _, _, _, _ := newTestController(bookingPage())
	assert.ErrorIs(t, ctl.Stop(context.Background()), ErrNotRunning)
}

func TestController_SuccessfulPass(t *testing.T) {
	ctx := context.Background()
	page := bookingPage()
	ctl, scheduler, store, history, notifier, sink, metrics := newTestController(page)

	// Бесплатные даты запрещены: должен быть выбран слот 5x,
	// хотя бесплатный стоит раньше по дате
	require.NoError(t, ctl.Start(ctx, Settings{
		Interval: time.Second,
		Filters: domain.FilterCriteria{
			DateMode:            domain.DateModeAny,
			FilterByCoefficient: true,
			CoefficientFrom:     0,
			CoefficientTo:       10,
			AllowFree:           false,
			BoxType:             domain.BoxTypeBox,
		},
	}))
	require.True(t, scheduler.started)

	scheduler.RunPass(ctx)

	assert.Equal(t, 1, metrics.Tick("success"))
	assert.Equal(t, 1, metrics.clicks)
	assert.Equal(t, 1, metrics.successes)

	// Воркфлоу выключился после успеха
	status := ctl.Status()
	assert.False(t, status.Enabled)
	assert.Equal(t, 1, status.ClickCount)
	require.NotNil(t, status.LastClickTime)

	// Клики: триггер, "Выбрать", финальная кнопка дважды
	texts := page.ClickedTexts()
	require.Len(t, texts, 4)
	assert.Equal(t, "Запланировать поставку", texts[0])
	assert.Equal(t, "Выбрать", texts[1])
	assert.Equal(t, "Запланировать", texts[2])
	assert.Equal(t, "Запланировать", texts[3])

	// Событие и срочное уведомление
	assert.Contains(t, sink.Events(), EventCaught)
	require.Len(t, notifier.urgent, 1)
	assert.Contains(t, notifier.urgent[0], "13 октября, пн")

	// Пойманная дата записана в историю
	records := history.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "13 октября, пн", records[0].DisplayText)
	assert.Equal(t, "5x", records[0].AcceptanceLabel)
	assert.Equal(t, 1, records[0].ClickCount)
	assert.False(t, records[0].IsFree)

	// Состояние сохранено выключенным
	var state persistedState
	require.NoError(t, store.GetSetting(ctx, "autocatch_state", &state))
	assert.False(t, state.Enabled)
	assert.Equal(t, 1, state.ClickCount)
}

func TestController_NoTriggerButton(t *testing.T) {
	ctx := context.Background()
	page := domtest.NewPage(domtest.El("body"))
	ctl, scheduler, _, _, _, _, metrics := newTestController(page)

	require.NoError(t, ctl.Start(ctx, Settings{Interval: time.Second}))
	scheduler.RunPass(ctx)

	assert.Equal(t, 1, metrics.Tick("no_trigger"))
	assert.Empty(t, page.Clicks)

	// Воркфлоу продолжает крутиться до успеха или остановки
	assert.True(t, ctl.Status().Enabled)
}

func TestController_NoMatchDismissesModal(t *testing.T) {
	ctx := context.Background()
	page := bookingPage()
	ctl, scheduler, _, _, _, _, metrics := newTestController(page)

	// Диапазон коэффициентов исключает обе даты
	require.NoError(t, ctl.Start(ctx, Settings{
		Interval: time.Second,
		Filters: domain.FilterCriteria{
			DateMode:            domain.DateModeAny,
			FilterByCoefficient: true,
			CoefficientFrom:     2,
			CoefficientTo:       3,
			AllowFree:           false,
		},
	}))

	scheduler.RunPass(ctx)

	assert.Equal(t, 1, metrics.Tick("no_match"))
	// Модальное окно закрыто двойным Escape
	assert.Equal(t, 2, page.Escapes)
	assert.True(t, ctl.Status().Enabled)
}

func TestController_UnparseableDateNotBooked(t *testing.T) {
	ctx := context.Background()

	// Единственная ячейка проходит шаблон даты, но не парсится
	trigger := domtest.El("button", "class", "button_primary").WithText("Запланировать поставку")
	brokenCell := domtest.El("td", "class", "Calendar-cell").WithKids(
		domtest.El("span", "class", "Text--body-m").WithText("45 октября, пн"),
		domtest.El("span").WithText("Приемка 5x"),
	)
	page := domtest.NewPage(domtest.El("body").WithKids(
		trigger,
		domtest.El("table").WithKids(brokenCell),
		domtest.El("button").WithText("Выбрать"),
		domtest.El("button", "class", "button_submit").WithText("Запланировать"),
	))

	ctl, scheduler, _, history, _, _, metrics := newTestController(page)

	require.NoError(t, ctl.Start(ctx, Settings{
		Interval: time.Second,
		Filters:  domain.FilterCriteria{DateMode: domain.DateModeAny},
	}))

	scheduler.RunPass(ctx)

	assert.Equal(t, 1, metrics.Tick("no_dates"))
	assert.Equal(t, 0, metrics.Successes())
	assert.Empty(t, history.Records())
	assert.NotContains(t, page.ClickedTexts(), "Выбрать")
	assert.True(t, ctl.Status().Enabled)
}

func TestController_MonopalletCount(t *testing.T) {
	ctx := context.Background()

	trigger := domtest.El("button", "class", "button_primary").WithText("Запланировать поставку")
	cell := domtest.El("td", "class", "Calendar-cell").WithKids(
		domtest.El("span").WithText("13 октября, пн"),
		domtest.El("span").WithText("Приемка 1x"),
	)
	palletInput := domtest.El("input", "id", "amountPallet")
	finalButton := domtest.El("button").WithText("Запланировать")

	page := domtest.NewPage(domtest.El("body").WithKids(
		trigger,
		domtest.El("table").WithKids(cell),
		palletInput,
		finalButton,
	))

	ctl, scheduler, _, _, _, _, metrics := newTestController(page)

	require.NoError(t, ctl.Start(ctx, Settings{
		Interval: time.Second,
		Filters: domain.FilterCriteria{
			DateMode:        domain.DateModeAny,
			BoxType:         domain.BoxTypeMonopallet,
			MonopalletCount: 3,
		},
	}))

	scheduler.RunPass(ctx)

	assert.Equal(t, 1, metrics.Tick("success"))
	assert.Equal(t, "3", page.Typed[palletInput])
}

func TestController_RestoreResumesEnabledState(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.SetSetting(ctx, "autocatch_state", persistedState{
		Enabled:    true,
		ClickCount: 7,
		Interval:   2 * time.Second,
	}))

	now := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	tp := fixedTime{now: now}
	scheduler := &manualScheduler{}

	ctl := NewController(
		bookingPage(),
		scrape.NewDateExtractor(tp),
		scheduler,
		store,
		&memHistory{},
		&recordingNotifier{},
		&recordingSink{},
		newTickMetrics(),
		tp,
		zeroDelays(),
		nopLogger{},
	)

	require.NoError(t, ctl.Restore(ctx))

	status := ctl.Status()
	assert.True(t, status.Enabled)
	assert.Equal(t, 7, status.ClickCount)
	assert.True(t, scheduler.started)
	assert.Equal(t, 2*time.Second, scheduler.interval)
}
