package redistribute

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/dom"
	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

const (
	workflowName = "redistribute"
	settingsKey  = "redistribute_state"

	// EventCompleted публикуется при успешном перераспределении
	EventCompleted = "redistribute.completed"
	// EventStopped публикуется при остановке воркфлоу
	EventStopped = "redistribute.stopped"

	outcomeSuccess    = "success"
	outcomeNoTrigger  = "no_trigger"
	outcomeStepFailed = "step_failed"
	outcomeCancelled  = "cancelled"
)

// Controller управляет воркфлоу перераспределения остатков
// Цикл перезапускается после любого сбоя шага, пока воркфлоу включен
// либо финальная кнопка не нажата
type Controller struct {
	page     dom.Page
	store    SettingsStore
	notifier Notifier
	events   EventSink
	metrics  Metrics
	delays   Delays
	log      Logger

	mu       sync.Mutex
	enabled  bool
	count    int
	settings domain.RedistributionSettings
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewController создает новый экземпляр контроллера перераспределения
func NewController(
	page dom.Page,
	store SettingsStore,
	notifier Notifier,
	events EventSink,
	metrics Metrics,
	delays Delays,
	log Logger,
) *Controller {
	return &Controller{
		page:     page,
		store:    store,
		notifier: notifier,
		events:   events,
		metrics:  metrics,
		delays:   delays,
		log:      log,
	}
}

// Validate проверяет настройки перед любым обращением к странице
func Validate(settings domain.RedistributionSettings) error {
	if strings.TrimSpace(settings.Article) == "" {
		return ErrEmptyArticle
	}
	if settings.WarehouseFrom == "" || settings.WarehouseTo == "" {
		return ErrWarehouseNotSet
	}
	if settings.SameWarehouse() {
		return fmt.Errorf("%w: %s", ErrSameWarehouse, settings.WarehouseFrom)
	}
	if settings.Quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, settings.Quantity)
	}
	return nil
}

// Start валидирует настройки и запускает цикл перераспределения
func (c *Controller) Start(ctx context.Context, settings domain.RedistributionSettings) error {
	if err := Validate(settings); err != nil {
		return err
	}

	c.mu.Lock()
	if c.enabled {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.enabled = true
	c.count = 0
	c.settings = settings
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	if err := c.persist(ctx); err != nil {
		c.log.Error("Failed to persist redistribute state: %v", err)
	}

	c.log.Info("Redistribution started: article %s, %s -> %s, quantity %d",
		settings.Article, settings.WarehouseFrom, settings.WarehouseTo, settings.Quantity)

	go c.run(runCtx, done)
	return nil
}

// Stop останавливает цикл перераспределения
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return ErrNotRunning
	}
	c.enabled = false
	cancel := c.cancel
	done := c.done
	count := c.count
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	if err := c.persist(ctx); err != nil {
		c.log.Error("Failed to persist redistribute state: %v", err)
	}

	c.log.Info("Redistribution stopped after %d trigger clicks", count)
	c.events.Publish(EventStopped, Status{Enabled: false, Count: count})
	return nil
}

// Status возвращает текущее состояние воркфлоу
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{Enabled: c.enabled, Count: c.count}
}

// run крутит циклы до успеха или остановки
func (c *Controller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for c.isEnabled() {
		outcome := c.cycle(ctx)
		c.metrics.ObserveWorkflowTick(workflowName, outcome)

		switch outcome {
		case outcomeSuccess, outcomeCancelled:
			return
		}

		if err := sleep(ctx, c.delays.CycleRestart); err != nil {
			return
		}
	}
}

// cycle один полный проход от обновления данных до финальной кнопки
// Любой жесткий сбой закрывает модалку двойным Escape, цикл
// начинается заново
func (c *Controller) cycle(ctx context.Context) string {
	c.refreshData(ctx)

	clicked, err := c.clickTrigger(ctx)
	if err != nil || !clicked {
		if err != nil {
			c.log.Warn("Redistribute trigger failed: %v", err)
		}
		return outcomeNoTrigger
	}

	if err := sleep(ctx, c.delays.AfterTrigger); err != nil {
		return outcomeCancelled
	}

	if err := c.enterArticle(ctx); err != nil {
		c.log.Warn("Article entry failed: %v", err)
		c.dismissModal(ctx)
		return outcomeStepFailed
	}

	// Отсутствие опции в выпадающем списке допустимо: артикул уже
	// введен, часть форм принимает его и без выбора опции
	if err := c.clickArticleOption(ctx); err != nil {
		c.log.Warn("Article option not selected, proceeding anyway: %v", err)
	}

	settings := c.currentSettings()

	if err := c.selectWarehouse(ctx, 0, settings.WarehouseFrom); err != nil {
		c.log.Warn("Source warehouse selection failed: %v", err)
		c.dismissModal(ctx)
		return outcomeStepFailed
	}
	if err := sleep(ctx, c.delays.BetweenSteps); err != nil {
		return outcomeCancelled
	}

	if err := c.selectWarehouse(ctx, 1, settings.WarehouseTo); err != nil {
		c.log.Warn("Destination warehouse selection failed: %v", err)
		c.dismissModal(ctx)
		return outcomeStepFailed
	}
	if err := sleep(ctx, c.delays.BetweenSteps); err != nil {
		return outcomeCancelled
	}

	if err := c.enterQuantity(ctx, settings.Quantity); err != nil {
		c.log.Warn("Quantity entry failed: %v", err)
		c.dismissModal(ctx)
		return outcomeStepFailed
	}
	if err := sleep(ctx, c.delays.BetweenSteps); err != nil {
		return outcomeCancelled
	}

	if err := c.submit(ctx); err != nil {
		c.log.Warn("Final redistribute click failed: %v", err)
		c.dismissModal(ctx)
		return outcomeStepFailed
	}

	c.complete(ctx, settings)
	return outcomeSuccess
}

// refreshData нажимает кнопку обновления данных, если она есть
// Кнопка распознается эвристически: компактная кнопка без текста
// с векторной иконкой внутри
func (c *Controller) refreshData(ctx context.Context) {
	buttons, err := c.page.FindAll(ctx, "button")
	if err != nil {
		c.log.Warn("Refresh button lookup failed: %v", err)
		return
	}

	for _, btn := range buttons {
		visible, err := btn.Visible(ctx)
		if err != nil || !visible {
			continue
		}
		icons, err := btn.FindAll(ctx, "svg")
		if err != nil || len(icons) == 0 {
			continue
		}
		text, err := btn.Text(ctx)
		if err != nil || strings.TrimSpace(text) != "" {
			continue
		}

		if err := c.page.Click(ctx, btn); err != nil {
			c.log.Warn("Refresh click failed: %v", err)
			return
		}
		c.log.Debug("Data refresh button clicked")
		if err := sleep(ctx, c.delays.AfterRefresh); err != nil {
			return
		}
		return
	}

	c.log.Debug("Refresh button not found, continuing without refresh")
}

// clickTrigger нажимает кнопку "Перераспределить остатки"
func (c *Controller) clickTrigger(ctx context.Context) (bool, error) {
	button, err := dom.Locate(ctx, c.page,
		dom.ByText{Selector: `button[class*="button_"]`, Phrases: []string{"перераспределить остатки"}},
		dom.ByText{Selector: "button", Phrases: []string{"перераспределить остатки"}},
	)
	if err != nil {
		return false, err
	}
	if button == nil {
		c.log.Debug("Redistribute trigger button not found")
		return false, nil
	}

	disabled, err := button.Disabled(ctx)
	if err != nil {
		return false, err
	}
	if disabled {
		c.log.Debug("Redistribute trigger button is disabled")
		return false, nil
	}

	if err := c.page.Click(ctx, button); err != nil {
		return false, err
	}

	c.mu.Lock()
	c.count++
	count := c.count
	c.mu.Unlock()

	c.metrics.ObserveTriggerClick(workflowName)
	c.log.Info("Redistribute trigger click #%d", count)

	if err := c.persist(ctx); err != nil {
		c.log.Error("Failed to persist redistribute state: %v", err)
	}
	return true, nil
}

// enterArticle кликает поле поиска артикула и вводит артикул
// в появившееся поле: приоритет у поля в фокусе, иначе берется
// последнее видимое
func (c *Controller) enterArticle(ctx context.Context) error {
	field, err := dom.Locate(ctx, c.page,
		dom.BySelector{Selector: `input[placeholder*="Введите артикул"]`},
	)
	if err != nil {
		return err
	}
	if field == nil {
		return fmt.Errorf("article search field not found")
	}

	if err := c.page.Click(ctx, field); err != nil {
		return fmt.Errorf("click article field: %w", err)
	}
	if err := sleep(ctx, c.delays.AfterFieldOpen); err != nil {
		return err
	}

	input, err := c.page.Active(ctx)
	if err != nil {
		return err
	}
	if input == nil {
		inputs, err := dom.LocateAll(ctx, c.page, "input")
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("article input did not appear")
		}
		input = inputs[len(inputs)-1]
	}

	settings := c.currentSettings()
	if err := c.page.TypeText(ctx, input, settings.Article); err != nil {
		return fmt.Errorf("type article: %w", err)
	}
	c.log.Info("Article %s entered", settings.Article)
	return nil
}

// clickArticleOption выбирает опцию артикула в выпадающем списке
func (c *Controller) clickArticleOption(ctx context.Context) error {
	if err := sleep(ctx, c.delays.DropdownSettle); err != nil {
		return err
	}

	option, err := dom.Locate(ctx, c.page,
		dom.BySelector{Selector: `button[class*="dropdown-option"], button[class*="Dropdown-option"]`},
	)
	if err != nil {
		return err
	}
	if option == nil {
		return fmt.Errorf("dropdown option not found")
	}

	if err := c.page.Click(ctx, option); err != nil {
		return fmt.Errorf("click dropdown option: %w", err)
	}
	return sleep(ctx, c.delays.BetweenSteps)
}

// selectWarehouse открывает index-ое поле выбора склада и кликает
// элемент списка, чей текст точно равен имени склада
// Точное равенство обязательно: подстрочное совпадение выбрало бы
// склад с похожим именем
func (c *Controller) selectWarehouse(ctx context.Context, index int, name string) error {
	fields, err := dom.LocateAll(ctx, c.page,
		`input[class*="select__input"], input[placeholder*="Выберите склад"]`)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("warehouse selector fields not found")
	}
	if index >= len(fields) {
		// Заполненное первое поле портал иногда сворачивает,
		// тогда работаем с единственным оставшимся
		index = len(fields) - 1
	}

	if err := c.page.Click(ctx, fields[index]); err != nil {
		return fmt.Errorf("click warehouse field: %w", err)
	}
	if err := sleep(ctx, c.delays.AfterFieldOpen); err != nil {
		return err
	}

	item, err := dom.Locate(ctx, c.page,
		dom.ByCompositeChild{ItemSelector: "li", ChildSelector: "button", Label: name, Exact: true},
	)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("warehouse %q not found in dropdown", name)
	}

	if err := c.page.Hover(ctx, item); err != nil {
		return fmt.Errorf("hover warehouse item: %w", err)
	}
	if err := c.page.Click(ctx, item); err != nil {
		return fmt.Errorf("click warehouse item: %w", err)
	}

	c.log.Info("Warehouse %q selected", name)
	return nil
}

var quantitySelectors = []string{
	`input#quantity`,
	`input[name="quantity"]`,
	`input[placeholder*="Укажите кол-во"]`,
}

// enterQuantity вводит количество товара
func (c *Controller) enterQuantity(ctx context.Context, quantity int) error {
	var input dom.Element
	for _, selector := range quantitySelectors {
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
		return fmt.Errorf("quantity input not found")
	}

	if err := c.page.Click(ctx, input); err != nil {
		return fmt.Errorf("focus quantity input: %w", err)
	}
	if err := c.page.TypeText(ctx, input, fmt.Sprintf("%d", quantity)); err != nil {
		return fmt.Errorf("type quantity: %w", err)
	}
	c.log.Info("Quantity %d entered", quantity)
	return nil
}

// submit нажимает финальную кнопку "Перераспределить"
func (c *Controller) submit(ctx context.Context) error {
	button, err := dom.Locate(ctx, c.page,
		dom.ByText{Selector: `button[class*="button__"]`, Phrases: []string{"перераспределить"}},
		dom.ByExactText{Selector: "button", Text: "Перераспределить"},
	)
	if err != nil {
		return err
	}
	if button == nil {
		return fmt.Errorf("final redistribute button not found")
	}

	if err := c.page.Click(ctx, button); err != nil {
		return fmt.Errorf("click final button: %w", err)
	}
	return sleep(ctx, c.delays.BetweenSteps)
}

// complete фиксирует успех: выключает воркфлоу и публикует событие
func (c *Controller) complete(ctx context.Context, settings domain.RedistributionSettings) {
	c.mu.Lock()
	c.enabled = false
	count := c.count
	cancel := c.cancel
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if err := c.persist(ctx); err != nil {
		c.log.Error("Failed to persist redistribute state: %v", err)
	}

	c.metrics.ObserveWorkflowSuccess(workflowName)
	c.events.Publish(EventCompleted, Completed{Settings: settings, Count: count})
	c.notifier.NotifyUrgent(ctx, fmt.Sprintf(
		"Перераспределение выполнено: артикул %s, %s -> %s, количество %d",
		settings.Article, settings.WarehouseFrom, settings.WarehouseTo, settings.Quantity,
	))
	c.log.Info("Redistribution completed for article %s", settings.Article)

	// Контекст цикла больше не нужен
	if cancel != nil {
		cancel()
	}
}

// dismissModal закрывает модалку двойным Escape
func (c *Controller) dismissModal(ctx context.Context) {
	if err := c.page.PressEscape(ctx); err != nil {
		c.log.Warn("Escape dispatch failed: %v", err)
		return
	}
	if err := sleep(ctx, 200*time.Millisecond); err != nil {
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

func (c *Controller) currentSettings() domain.RedistributionSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *Controller) persist(ctx context.Context) error {
	c.mu.Lock()
	state := persistedState{
		Enabled:  c.enabled,
		Count:    c.count,
		Settings: c.settings,
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
