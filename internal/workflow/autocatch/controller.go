package autocatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/dom"
	"github.com/m04kA/WB-SupplyBot/internal/domain"
	"github.com/m04kA/WB-SupplyBot/internal/scrape"
)

const (
	workflowName = "autocatch"
	settingsKey  = "autocatch_state"

	// EventCaught публикуется при успешном автолове
	EventCaught = "autocatch.caught"
	// EventStopped публикуется при остановке воркфлоу
	EventStopped = "autocatch.stopped"

	outcomeSuccess    = "success"
	outcomeNoTrigger  = "no_trigger"
	outcomeNoCalendar = "no_calendar"
	outcomeNoDates    = "no_dates"
	outcomeNoMatch    = "no_match"
	outcomeStepFailed = "step_failed"
	outcomeCancelled  = "cancelled"
)

var calendarCellSelectors = []string{
	`td[class*="Calendar-cell"]`,
	`td[class*="calendar-cell"]`,
	`.Calendar-cell`,
	`td[class*="cell"]`,
}

// Controller управляет воркфлоу автолова даты поставки
// Один контроллер владеет одним циклом, все мутации состояния
// проходят через него
type Controller struct {
	page         dom.Page
	extractor    *scrape.DateExtractor
	scheduler    Scheduler
	store        SettingsStore
	history      HistoryStore
	notifier     Notifier
	events       EventSink
	metrics      Metrics
	timeProvider TimeProvider
	delays       Delays
	log          Logger

	mu            sync.Mutex
	enabled       bool
	clickCount    int
	lastClickTime *time.Time
	filters       domain.FilterCriteria
	interval      time.Duration
}

// NewController создает новый экземпляр контроллера автолова
func NewController(
	page dom.Page,
	extractor *scrape.DateExtractor,
	scheduler Scheduler,
	store SettingsStore,
	history HistoryStore,
	notifier Notifier,
	events EventSink,
	metrics Metrics,
	timeProvider TimeProvider,
	delays Delays,
	log Logger,
) *Controller {
	return &Controller{
		page:         page,
		extractor:    extractor,
		scheduler:    scheduler,
		store:        store,
		history:      history,
		notifier:     notifier,
		events:       events,
		metrics:      metrics,
		timeProvider: timeProvider,
		delays:       delays,
		log:          log,
	}
}

// Restore поднимает резюмируемое состояние из хранилища
// Вызывается один раз при старте процесса
func (c *Controller) Restore(ctx context.Context) error {
	var state persistedState
	if err := c.store.GetSetting(ctx, settingsKey, &state); err != nil {
		// Отсутствие сохраненного состояния не ошибка первого запуска
		c.log.Info("No persisted autocatch state: %v", err)
		return nil
	}

	c.mu.Lock()
	c.clickCount = state.ClickCount
	c.lastClickTime = state.LastClickTime
	c.filters = state.Filters
	c.interval = state.Interval
	c.mu.Unlock()

	if state.Enabled && state.Interval > 0 {
		c.log.Info("Resuming autocatch workflow, interval %s", state.Interval)
		return c.Start(ctx, Settings{Interval: state.Interval, Filters: state.Filters})
	}
	return nil
}

// Start запускает цикл автолова
func (c *Controller) Start(ctx context.Context, settings Settings) error {
	if settings.Interval <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, settings.Interval)
	}

	c.mu.Lock()
	if c.enabled {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.enabled = true
	c.filters = settings.Filters
	c.interval = settings.Interval
	c.mu.Unlock()

	if err := c.persist(ctx); err != nil {
		c.log.Error("Failed to persist autocatch state: %v", err)
	}

	c.log.Info("Autocatch started, interval %s", settings.Interval)
	c.scheduler.Start(settings.Interval, c.runPass)
	return nil
}

// Stop останавливает цикл автолова
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return ErrNotRunning
	}
	c.enabled = false
	clicks := c.clickCount
	c.mu.Unlock()

	c.scheduler.Stop()

	if err := c.persist(ctx); err != nil {
		c.log.Error("Failed to persist autocatch state: %v", err)
	}

	c.log.Info("Autocatch stopped after %d trigger clicks", clicks)
	c.events.Publish(EventStopped, Status{Enabled: false, ClickCount: clicks})
	return nil
}

// Status возвращает текущее состояние воркфлоу
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Enabled:       c.enabled,
		ClickCount:    c.clickCount,
		LastClickTime: c.lastClickTime,
	}
}

// runPass выполняет один полный проход: клик по триггеру, ожидание
// календаря, извлечение дат, фильтрация, выбор и подтверждение
// Любой сбой шага завершает проход, следующий тик начинает заново
func (c *Controller) runPass(ctx context.Context) {
	if !c.isEnabled() {
		c.metrics.ObserveWorkflowTick(workflowName, outcomeCancelled)
		return
	}

	outcome := c.pass(ctx)
	c.metrics.ObserveWorkflowTick(workflowName, outcome)
}

func (c *Controller) pass(ctx context.Context) string {
	clicked, err := c.clickTrigger(ctx)
	if err != nil || !clicked {
		if err != nil {
			c.log.Warn("Trigger click failed: %v", err)
		}
		return outcomeNoTrigger
	}

	cells, err := c.awaitCalendar(ctx)
	if err != nil {
		c.log.Warn("Calendar wait failed: %v", err)
		c.dismissModal(ctx)
		return outcomeNoCalendar
	}
	if len(cells) == 0 {
		c.log.Info("Calendar did not appear within %s", c.delays.CalendarTimeout)
		c.dismissModal(ctx)
		return outcomeNoCalendar
	}

	if !c.isEnabled() {
		c.dismissModal(ctx)
		return outcomeCancelled
	}

	available := c.extractDates(ctx, cells)
	if len(available) == 0 {
		c.log.Info("No available dates in calendar")
		c.dismissModal(ctx)
		return outcomeNoDates
	}

	matched := c.filterDates(available)
	if len(matched) == 0 {
		c.log.Info("No dates matched filters (%d available)", len(available))
		c.dismissModal(ctx)
		return outcomeNoMatch
	}

	chosen := matched[0]
	c.log.Info("Selected date %q (%s)", chosen.Slot.DisplayText, chosen.Slot.AcceptanceLabel)

	if err := c.selectDate(ctx, chosen); err != nil {
		c.log.Warn("Date selection failed: %v", err)
		c.dismissModal(ctx)
		return outcomeStepFailed
	}

	filters := c.currentFilters()
	if filters.BoxType == domain.BoxTypeMonopallet {
		if err := c.enterPalletCount(ctx, filters.MonopalletCount); err != nil {
			c.log.Warn("Pallet count entry failed: %v", err)
			c.dismissModal(ctx)
			return outcomeStepFailed
		}
	}

	if err := c.submit(ctx); err != nil {
		c.log.Warn("Final confirmation failed: %v", err)
		c.dismissModal(ctx)
		return outcomeStepFailed
	}

	c.complete(ctx, chosen)
	return outcomeSuccess
}

// clickTrigger находит и нажимает кнопку "Запланировать поставку"
// Возвращает false без ошибки, если кнопка отсутствует или отключена
func (c *Controller) clickTrigger(ctx context.Context) (bool, error) {
	button, err := dom.Locate(ctx, c.page,
		dom.BySelector{Selector: `button[class*="button_"]`},
		dom.ByText{Selector: "button", Phrases: []string{"запланировать поставку", "запланировать"}},
		dom.ByText{Selector: `button[class*="fullWidth"], [data-testid*="plan"], [data-testid*="supply"]`, Phrases: []string{"запланировать", "поставку"}},
	)
	if err != nil {
		return false, err
	}
	if button == nil {
		c.log.Debug("Plan supply trigger button not found")
		return false, nil
	}

	// Селектор по классу может зацепить постороннюю кнопку,
	// сверяем текст перед кликом
	text, err := button.Text(ctx)
	if err != nil {
		return false, err
	}
	if !containsFold(text, "запланировать") {
		button, err = dom.Locate(ctx, c.page,
			dom.ByText{Selector: "button", Phrases: []string{"запланировать"}},
		)
		if err != nil || button == nil {
			return false, err
		}
	}

	disabled, err := button.Disabled(ctx)
	if err != nil {
		return false, err
	}
	if disabled {
		c.log.Debug("Plan supply trigger button is disabled")
		return false, nil
	}

	if err := c.page.Click(ctx, button); err != nil {
		return false, err
	}

	now := c.timeProvider.Now()
	c.mu.Lock()
	c.clickCount++
	c.lastClickTime = &now
	clicks := c.clickCount
	c.mu.Unlock()

	c.metrics.ObserveTriggerClick(workflowName)
	c.log.Info("Trigger click #%d", clicks)

	if err := c.persist(ctx); err != nil {
		c.log.Error("Failed to persist click stats: %v", err)
	}
	return true, nil
}

// awaitCalendar опрашивает страницу до появления ячеек календаря
func (c *Controller) awaitCalendar(ctx context.Context) ([]dom.Element, error) {
	deadline := c.timeProvider.Now().Add(c.delays.CalendarTimeout)
	for {
		for _, selector := range calendarCellSelectors {
			cells, err := c.page.FindAll(ctx, selector)
			if err != nil {
				return nil, err
			}
			if len(cells) > 0 {
				return cells, nil
			}
		}

		if c.timeProvider.Now().After(deadline) {
			return nil, nil
		}
		if err := sleep(ctx, c.delays.CalendarPoll); err != nil {
			return nil, err
		}
	}
}

func (c *Controller) extractDates(ctx context.Context, cells []dom.Element) []*scrape.DateInfo {
	available := make([]*scrape.DateInfo, 0, len(cells))
	for _, cell := range cells {
		info, err := c.extractor.Extract(ctx, cell)
		if err != nil {
			c.log.Warn("Cell extraction failed: %v", err)
			continue
		}
		if info == nil {
			continue
		}
		available = append(available, info)
	}
	return available
}

// filterDates отбирает совпавшие с фильтром даты и сортирует их
// по возрастанию, ближайшая первой
func (c *Controller) filterDates(available []*scrape.DateInfo) []*scrape.DateInfo {
	filters := c.currentFilters()

	matched := make([]*scrape.DateInfo, 0, len(available))
	for _, info := range available {
		slot := info.Slot
		if filters.Matches(&slot) {
			matched = append(matched, info)
		}
	}

	scrape.SortByDate(matched)
	return matched
}

// selectDate наводит курсор на ячейку и кликает кнопку "Выбрать",
// при её отсутствии кликает по самой ячейке
func (c *Controller) selectDate(ctx context.Context, info *scrape.DateInfo) error {
	if err := c.page.Hover(ctx, info.Cell); err != nil {
		return fmt.Errorf("hover cell: %w", err)
	}
	if err := sleep(ctx, c.delays.AfterHover); err != nil {
		return err
	}

	button, err := dom.Locate(ctx, c.page,
		dom.ByExactText{Selector: "button", Text: "Выбрать"},
		dom.ByExactText{Selector: "button", Text: "Select"},
	)
	if err != nil {
		return err
	}

	target := info.Cell
	if button != nil {
		target = button
	} else {
		c.log.Debug("Select button not found, clicking the cell directly")
	}

	if err := c.page.Click(ctx, target); err != nil {
		return fmt.Errorf("click date: %w", err)
	}
	return sleep(ctx, c.delays.AfterSelect)
}

var palletInputSelectors = []string{
	`input#amountPallet`,
	`input[name="amountPallet"]`,
	`input[data-testid="form-input-simple-input"]`,
	`input[type="number"]`,
	`input[placeholder*="монопаллет"]`,
	`input[placeholder*="количество"]`,
	`input[placeholder*="палет"]`,
}

// enterPalletCount вводит количество монопаллет
func (c *Controller) enterPalletCount(ctx context.Context, count int) error {
	if count <= 0 {
		count = 1
	}

	var input dom.Element
	for _, selector := range palletInputSelectors {
		el, err := dom.Locate(ctx, c.page, dom.BySelector{Selector: selector})
		if err != nil {
			return err
		}
		if el != nil {
			input = el
			break
		}
	}
	if input == nil {
		return fmt.Errorf("pallet count input not found")
	}

	if err := c.page.Click(ctx, input); err != nil {
		return fmt.Errorf("focus pallet input: %w", err)
	}
	if err := c.page.TypeText(ctx, input, fmt.Sprintf("%d", count)); err != nil {
		return fmt.Errorf("type pallet count: %w", err)
	}
	c.log.Info("Entered pallet count %d", count)
	return nil
}

// submit нажимает финальную кнопку "Запланировать"
// Среди нескольких совпавших кнопок активной считается последняя
// в документе, клик дублируется для надежности
func (c *Controller) submit(ctx context.Context) error {
	if err := sleep(ctx, c.delays.BeforeSubmit); err != nil {
		return err
	}

	buttons, err := dom.LocateAll(ctx, c.page, "button", "запланировать")
	if err != nil {
		return err
	}
	if len(buttons) == 0 {
		return fmt.Errorf("final confirmation button not found")
	}

	final := buttons[len(buttons)-1]
	if err := c.page.Click(ctx, final); err != nil {
		return fmt.Errorf("first confirmation click: %w", err)
	}
	if err := sleep(ctx, c.delays.BetweenClicks); err != nil {
		return err
	}
	if err := c.page.Click(ctx, final); err != nil {
		return fmt.Errorf("second confirmation click: %w", err)
	}
	return nil
}

// complete фиксирует успех: выключает цикл, сохраняет состояние
// и публикует событие с параметрами пойманного слота
func (c *Controller) complete(ctx context.Context, chosen *scrape.DateInfo) {
	c.mu.Lock()
	c.enabled = false
	clicks := c.clickCount
	c.mu.Unlock()

	c.scheduler.Stop()

	if err := c.persist(ctx); err != nil {
		c.log.Error("Failed to persist autocatch state: %v", err)
	}

	c.metrics.ObserveWorkflowSuccess(workflowName)

	record := &domain.CatchRecord{
		DisplayText:     chosen.Slot.DisplayText,
		SlotDate:        chosen.Slot.ResolvedDate,
		AcceptanceLabel: chosen.Slot.AcceptanceLabel,
		Coefficient:     chosen.Slot.Coefficient,
		IsFree:          chosen.Slot.IsFree,
		ClickCount:      clicks,
	}
	if _, err := c.history.Create(ctx, record); err != nil {
		c.log.Error("Failed to record catch in history: %v", err)
	}

	event := CaughtSlot{
		Date:            chosen.Slot.ResolvedDate,
		AcceptanceLabel: chosen.Slot.AcceptanceLabel,
		ClickCount:      clicks,
	}
	c.events.Publish(EventCaught, event)
	c.notifier.NotifyUrgent(ctx, fmt.Sprintf(
		"Дата поймана: %s (%s), кликов: %d",
		chosen.Slot.DisplayText, chosen.Slot.AcceptanceLabel, clicks,
	))
	c.log.Info("Autocatch succeeded on %q after %d clicks", chosen.Slot.DisplayText, clicks)
}

// dismissModal закрывает открытый диалог двойным Escape
func (c *Controller) dismissModal(ctx context.Context) {
	if err := c.page.PressEscape(ctx); err != nil {
		c.log.Warn("Escape dispatch failed: %v", err)
		return
	}
	if err := sleep(ctx, c.delays.BetweenClicks); err != nil {
		return
	}
	if err := c.page.PressEscape(ctx); err != nil {
		c.log.Warn("Escape dispatch failed: %v", err)
	}
}

func (c *Controller) isEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *Controller) currentFilters() domain.FilterCriteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

func (c *Controller) persist(ctx context.Context) error {
	c.mu.Lock()
	state := persistedState{
		Enabled:       c.enabled,
		ClickCount:    c.clickCount,
		LastClickTime: c.lastClickTime,
		Interval:      c.interval,
		Filters:       c.filters,
	}
	c.mu.Unlock()
	return c.store.SetSetting(ctx, settingsKey, state)
}

// sleep ожидание с учетом отмены контекста
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func containsFold(text, phrase string) bool {
	return strings.Contains(strings.ToLower(text), phrase)
}
