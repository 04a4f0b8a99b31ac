package scrape

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/dom"
	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

// Маркеры текста ячейки календаря
const (
	markerUnavailable = "недоступно"
	markerFree        = "бесплатно"

	labelUnavailable = "Пока недоступно"
	labelFree        = "Бесплатно"
	labelUnknown     = "Неизвестно"
)

// Русские названия месяцев в родительном падеже, как они
// отображаются в календаре портала
var russianMonths = map[string]time.Month{
	"января":   time.January,
	"февраля":  time.February,
	"марта":    time.March,
	"апреля":   time.April,
	"мая":      time.May,
	"июня":     time.June,
	"июля":     time.July,
	"августа":  time.August,
	"сентября": time.September,
	"октября":  time.October,
	"ноября":   time.November,
	"декабря":  time.December,
}

var (
	datePattern       = regexp.MustCompile(`(?i)\d+\s+(января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря)`)
	acceptancePattern = regexp.MustCompile(`(?i)Приемка[\s\n]*([^\n]+)`)
	coefPattern       = regexp.MustCompile(`(?i)(\d+(\.\d+)?)\s*x`)
	percentPattern    = regexp.MustCompile(`(\d+)\s*%`)
)

// Селекторы вложенного элемента с текстом даты, в порядке приоритета
var dateTextSelectors = []string{
	`span[class*="Text--body"]`,
	`span[class*="Text"]`,
	`span`,
}

// DateInfo результат разбора одной ячейки календаря:
// типизированный слот плюс ссылка на исходный элемент для клика
type DateInfo struct {
	Slot domain.DateSlot
	Cell dom.Element
}

// SortByDate сортирует результаты по возрастанию разрешенной даты,
// записи без даты уходят в конец
func SortByDate(infos []*DateInfo) {
	sort.SliceStable(infos, func(i, j int) bool {
		di, dj := infos[i].Slot.ResolvedDate, infos[j].Slot.ResolvedDate
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return di.Before(*dj)
	})
}

// DateExtractor извлекает типизированную информацию о дате приемки
// из ячейки календаря
type DateExtractor struct {
	timeProvider TimeProvider
}

// NewDateExtractor создает экстрактор дат
func NewDateExtractor(timeProvider TimeProvider) *DateExtractor {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &DateExtractor{timeProvider: timeProvider}
}

// Extract разбирает ячейку календаря в DateInfo
// Возвращает (nil, nil), если ячейка не содержит пригодной даты:
// дата недоступна, текст не распознан или нет данных о приемке
// Это штатный исход, ячейка просто исключается из кандидатов
func (e *DateExtractor) Extract(ctx context.Context, cell dom.Element) (*DateInfo, error) {
	cellText, err := cell.Text(ctx)
	if err != nil {
		return nil, err
	}

	// Недоступные даты отбрасываются сразу
	if strings.Contains(strings.ToLower(cellText), markerUnavailable) {
		return nil, nil
	}

	dateText, err := e.findDateText(ctx, cell, cellText)
	if err != nil {
		return nil, err
	}
	if dateText == "" {
		return nil, nil
	}

	acceptance := ExtractAcceptanceInfo(cellText)

	// Нет данных о приемке - дата не пригодна для бронирования
	if acceptance.Label == labelUnknown || acceptance.Label == labelUnavailable {
		return nil, nil
	}

	resolved := ParseRussianDate(dateText, e.timeProvider.Now())

	// Текст похож на дату, но не распарсился - ячейка не кандидат
	if resolved == nil {
		return nil, nil
	}

	return &DateInfo{
		Slot: domain.DateSlot{
			DisplayText:     dateText,
			ResolvedDate:    resolved,
			AcceptanceLabel: acceptance.Label,
			Coefficient:     acceptance.Coefficient,
			IsFree:          acceptance.IsFree,
			IsAvailable:     true,
		},
		Cell: cell,
	}, nil
}

// findDateText ищет текст даты во вложенных элементах ячейки,
// при неудаче берет первую строку текста самой ячейки
// Текст обязан соответствовать шаблону "<число> <месяц>"
func (e *DateExtractor) findDateText(ctx context.Context, cell dom.Element, cellText string) (string, error) {
	for _, selector := range dateTextSelectors {
		span, err := cell.Find(ctx, selector)
		if err != nil {
			return "", err
		}
		if span == nil {
			continue
		}
		text, err := span.Text(ctx)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" && datePattern.MatchString(text) {
			return text, nil
		}
	}

	// Фолбэк: первая строка текста ячейки
	if datePattern.MatchString(cellText) {
		firstLine := strings.TrimSpace(strings.SplitN(cellText, "\n", 2)[0])
		if datePattern.MatchString(firstLine) {
			return firstLine, nil
		}
	}

	return "", nil
}

// AcceptanceInfo информация о приемке, извлеченная из текста ячейки
type AcceptanceInfo struct {
	Label       string
	Coefficient float64
	IsFree      bool
}

// ExtractAcceptanceInfo извлекает информацию о приемке из полного текста ячейки
//
// Порядок разбора: недоступность, затем "Бесплатно", затем текст после слова
// "Приемка" (коэффициент "Nx", процент "N%" или произвольная метка),
// при отсутствии "Приемки" - поиск по всему тексту
func ExtractAcceptanceInfo(fullText string) AcceptanceInfo {
	if strings.Contains(strings.ToLower(fullText), markerUnavailable) {
		return AcceptanceInfo{Label: labelUnavailable}
	}

	m := acceptancePattern.FindStringSubmatch(fullText)
	if m == nil {
		if strings.Contains(strings.ToLower(fullText), markerFree) {
			return AcceptanceInfo{Label: labelFree, IsFree: true}
		}
		if cm := coefPattern.FindStringSubmatch(fullText); cm != nil {
			coef, _ := strconv.ParseFloat(cm[1], 64)
			return AcceptanceInfo{Label: cm[0], Coefficient: coef}
		}
		return AcceptanceInfo{Label: labelUnknown}
	}

	label := strings.TrimSpace(m[1])

	if strings.Contains(strings.ToLower(label), markerFree) {
		return AcceptanceInfo{Label: labelFree, IsFree: true}
	}

	if cm := coefPattern.FindStringSubmatch(label); cm != nil {
		coef, _ := strconv.ParseFloat(cm[1], 64)
		return AcceptanceInfo{Label: label, Coefficient: coef}
	}

	if pm := percentPattern.FindStringSubmatch(label); pm != nil {
		percent, _ := strconv.Atoi(pm[1])
		return AcceptanceInfo{Label: label, Coefficient: float64(percent) / 100}
	}

	return AcceptanceInfo{Label: label}
}

// ParseRussianDate разбирает строку вида "13 октября, пн" в дату
//
// Год выводится из текущей даты: если (месяц, день) строго раньше
// сегодняшних, берется следующий год. Результат нормализуется к полудню,
// чтобы избежать ошибок на границах часовых поясов
// Возвращает nil при нераспознанном формате или неизвестном месяце
func ParseRussianDate(dateStr string, now time.Time) *time.Time {
	clean := strings.TrimSpace(strings.SplitN(dateStr, ",", 2)[0])
	parts := strings.Fields(clean)
	if len(parts) < 2 {
		return nil
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return nil
	}

	month, ok := russianMonths[strings.ToLower(parts[1])]
	if !ok {
		return nil
	}

	year := now.Year()
	if month < now.Month() || (month == now.Month() && day < now.Day()) {
		year++
	}

	date := time.Date(year, month, day, 12, 0, 0, 0, now.Location())
	return &date
}
