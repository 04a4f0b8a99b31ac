package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Options параметры запуска браузерной сессии
type Options struct {
	Headless    bool
	UserDataDir string
	WindowW     int
	WindowH     int
}

// Session управляемая браузерная сессия поверх Chrome DevTools Protocol
// Реализует dom.Page: элементы адресуются через атрибут data-wbx-ref,
// проставляемый при каждом запросе, так что дескрипторы переживают
// частичную перерисовку страницы, пока сам узел жив
type Session struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc
	log         Logger
}

// NewSession запускает браузер и возвращает готовую сессию
func NewSession(opts Options, log Logger) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(opts.WindowW, opts.WindowH),
	)
	if opts.UserDataDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.UserDataDir))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserStop := chromedp.NewContext(allocCtx)

	// Прогреваем браузер, чтобы ошибки запуска всплыли сразу
	if err := chromedp.Run(browserCtx); err != nil {
		browserStop()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.Info("Browser session started (headless=%v)", opts.Headless)

	return &Session{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		browserCtx:  browserCtx,
		browserStop: browserStop,
		log:         log,
	}, nil
}

// Navigate переходит по URL
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// Location возвращает текущий URL страницы
func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// Close завершает браузерную сессию
func (s *Session) Close() {
	s.browserStop()
	s.allocCancel()
}

// run выполняет действия в контексте браузера, уважая дедлайн вызывающего
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opCtx := s.browserCtx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithDeadline(s.browserCtx, deadline)
		defer cancel()
	}
	return chromedp.Run(opCtx, actions...)
}

// eval выполняет JS-выражение и декодирует результат в out (nil - без результата)
func (s *Session) eval(ctx context.Context, js string, out interface{}) error {
	if out == nil {
		return s.run(ctx, chromedp.Evaluate(js, nil))
	}
	return s.run(ctx, chromedp.Evaluate(js, out))
}
