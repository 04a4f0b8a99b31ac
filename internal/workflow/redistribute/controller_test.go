package redistribute

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
)

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	lastCtx context.Context
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
	s.lastCtx = ctx
	return nil
}

// LastCtx возвращает контекст последней записи
func (s *memStore) LastCtx() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCtx
}

type recordingNotifier struct {
	mu     sync.Mutex
	urgent []string
}

func (n *recordingNotifier) Notify(ctx context.Context, message string) bool {
	return true
}

func (n *recordingNotifier) NotifyUrgent(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urgent = append(n.urgent, message)
}

func (n *recordingNotifier) Urgent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.urgent...)
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

func fastDelays() Delays {
	return Delays{CycleRestart: time.Millisecond}
}

func validSettings() domain.RedistributionSettings {
	return domain.RedistributionSettings{
		Article:       "12345678",
		Quantity:      10,
		WarehouseFrom: "Коледино",
		WarehouseTo:   "Тула",
	}
}

// redistributePage строит страницу с полным сценарием перераспределения
func redistributePage() *domtest.Page {
	refresh := domtest.El("button").WithKids(domtest.El("svg"))
	trigger := domtest.El("button", "class", "button_main").WithText("Перераспределить остатки")

	articleField := domtest.El("input", "placeholder", "Введите артикул товара")
	articleOption := domtest.El("button", "class", "dropdown-option").WithText("12345678")

	fromField := domtest.El("input", "class", "select__input")
	toField := domtest.El("input", "class", "select__input")
	warehouseList := domtest.El("ul").WithKids(
		domtest.El("li").WithKids(domtest.El("button").WithText("Коледино")),
		domtest.El("li").WithKids(domtest.El("button").WithText("Коледино СЦ")),
		domtest.El("li").WithKids(domtest.El("button").WithText("Тула")),
	)

	quantityField := domtest.El("input", "id", "quantity")
	finalButton := domtest.El("button", "class", "button__submit").WithText("Перераспределить")

	page := domtest.NewPage(domtest.El("body").WithKids(
		refresh,
		trigger,
		articleField,
		articleOption,
		fromField,
		toField,
		warehouseList,
		quantityField,
		finalButton,
	))

	// Клик по полю ввода переводит на него фокус, как в браузере
	page.OnClick = func(n *domtest.Node) {
		if n.Tag == "input" {
			page.Focused = n
		}
	}
	return page
}

func newTestController(page *domtest.Page) (*Controller, *memStore, *recordingNotifier, *recordingSink, *tickMetrics) {
	store := newMemStore()
	notifier := &recordingNotifier{}
	sink := &recordingSink{}
	metrics := newTickMetrics()

	ctl := NewController(page, store, notifier, sink, metrics, fastDelays(), nopLogger{})
	return ctl, store, notifier, sink, metrics
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.RedistributionSettings)
		expected error
	}{
		{"valid", func(s *domain.RedistributionSettings) {}, nil},
		{"empty article", func(s *domain.RedistributionSettings) { s.Article = "  " }, ErrEmptyArticle},
		{"missing source", func(s *domain.RedistributionSettings) { s.WarehouseFrom = "" }, ErrWarehouseNotSet},
		{"missing destination", func(s *domain.RedistributionSettings) { s.WarehouseTo = "" }, ErrWarehouseNotSet},
		{"same warehouse", func(s *domain.RedistributionSettings) { s.WarehouseTo = s.WarehouseFrom }, ErrSameWarehouse},
		{"zero quantity", func(s *domain.RedistributionSettings) { s.Quantity = 0 }, ErrInvalidQuantity},
		{"negative quantity", func(s *domain.RedistributionSettings) { s.Quantity = -5 }, ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			err := Validate(s)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestController_StartRejectsInvalidSettingsWithoutTouchingPage(t *testing.T) {
	page := redistributePage()
	ctl, _, _, _, _ := newTestController(page)

	s := validSettings()
	s.WarehouseTo = s.WarehouseFrom

	err := ctl.Start(context.Background(), s)
	assert.ErrorIs(t, err, ErrSameWarehouse)

	// Невалидные настройки не приводят ни к одному запросу к странице
	assert.Equal(t, 0, page.QueryCount)
	assert.False(t, ctl.Status().Enabled)
}

func TestController_SuccessfulCycle(t *testing.T) {
	ctx := context.Background()
	page := redistributePage()
	ctl, store, notifier, sink, metrics := newTestController(page)

	require.NoError(t, ctl.Start(ctx, validSettings()))

	require.Eventually(t, func() bool {
		return metrics.Successes() == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return !ctl.Status().Enabled
	}, 2*time.Second, 5*time.Millisecond)

	texts := page.ClickedTexts()
	// Кнопка обновления кликается первой (пустой текст), затем триггер
	require.GreaterOrEqual(t, len(texts), 7)
	assert.Equal(t, "", texts[0])
	assert.Equal(t, "Перераспределить остатки", texts[1])

	// Точное совпадение имени склада: выбран "Коледино", не "Коледино СЦ"
	assert.Contains(t, texts, "Коледино")
	assert.Contains(t, texts, "Тула")
	assert.NotContains(t, texts, "Коледино СЦ")

	// Финальная кнопка нажата
	assert.Equal(t, "Перераспределить", texts[len(texts)-1])

	// Артикул и количество введены
	typed := make([]string, 0, len(page.Typed))
	for _, v := range page.Typed {
		typed = append(typed, v)
	}
	assert.Contains(t, typed, "12345678")
	assert.Contains(t, typed, "10")

	assert.Contains(t, sink.Events(), EventCompleted)
	require.Len(t, notifier.Urgent(), 1)
	assert.Contains(t, notifier.Urgent()[0], "12345678")

	// Состояние сохранено выключенным
	var state persistedState
	require.NoError(t, store.GetSetting(ctx, "redistribute_state", &state))
	assert.False(t, state.Enabled)
}

func TestController_CompleteReleasesRunContext(t *testing.T) {
	ctx := context.Background()
	page := redistributePage()
	ctl, store, _, _, metrics := newTestController(page)

	require.NoError(t, ctl.Start(ctx, validSettings()))

	require.Eventually(t, func() bool {
		return metrics.Successes() == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Последняя запись состояния выполнялась с контекстом цикла,
	// после завершения он должен быть отменен
	require.Eventually(t, func() bool {
		last := store.LastCtx()
		return last != nil && last.Err() != nil
	}, 2*time.Second, 5*time.Millisecond)

	// Воркфлоу полностью сброшен
	assert.ErrorIs(t, ctl.Stop(ctx), ErrNotRunning)
	assert.False(t, ctl.Status().Enabled)
}

func TestController_StepFailureDismissesModal(t *testing.T) {
	ctx := context.Background()
	// Триггер есть, но поле артикула не появляется: шаг проваливается
	page := domtest.NewPage(domtest.El("body").WithKids(
		domtest.El("button", "class", "button_main").WithText("Перераспределить остатки"),
	))
	ctl, _, _, _, metrics := newTestController(page)

	require.NoError(t, ctl.Start(ctx, validSettings()))

	// Модалка закрывается двойным Escape
	require.Eventually(t, func() bool {
		return page.EscapeCount() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, ctl.Stop(ctx))
	assert.Equal(t, 0, metrics.Successes())
}

func TestController_StopInterruptsRetryLoop(t *testing.T) {
	ctx := context.Background()
	// Страница без кнопки-триггера: цикл крутится вхолостую
	page := domtest.NewPage(domtest.El("body"))
	ctl, _, _, sink, _ := newTestController(page)

	require.NoError(t, ctl.Start(ctx, validSettings()))
	assert.ErrorIs(t, ctl.Start(ctx, validSettings()), ErrAlreadyRunning)

	require.NoError(t, ctl.Stop(ctx))
	assert.False(t, ctl.Status().Enabled)
	assert.Contains(t, sink.Events(), EventStopped)

	assert.ErrorIs(t, ctl.Stop(ctx), ErrNotRunning)
}
