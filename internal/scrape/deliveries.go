package scrape

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/WB-SupplyBot/internal/dom"
	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

// Селекторы строк с информацией о поставках
const (
	supplyRowSelector  = `tr[data-supply], [class*="supply-row"], [class*="delivery-item"], [class*="supply"]`
	jsonBlockSelector  = `script[type="application/json"]`
	sourcePageRows     = "page"
	sourceembeddedJSON = "json"
)

var (
	deliveryIDPattern = regexp.MustCompile(`(?i)WB-\d+|№\s*(\d+)|ID:\s*(\d+)`)
	ruDatePattern     = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{2,4})`)
	isoDatePattern    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	numberPattern     = regexp.MustCompile(`\d+`)
)

// Лексикон статусов: ключевое слово (ru/en) -> канонический статус
// Порядок важен, выигрывает первое вхождение
var statusLexicon = []struct {
	keyword string
	status  domain.DeliveryStatus
}{
	{"активн", domain.DeliveryActive},
	{"active", domain.DeliveryActive},
	{"в работе", domain.DeliveryActive},
	{"ожидает", domain.DeliveryPending},
	{"pending", domain.DeliveryPending},
	{"новая", domain.DeliveryPending},
	{"завершен", domain.DeliveryCompleted},
	{"completed", domain.DeliveryCompleted},
	{"доставлен", domain.DeliveryCompleted},
	{"отменен", domain.DeliveryCancelled},
	{"cancelled", domain.DeliveryCancelled},
}

var deadlineKeywords = []string{"дедлайн", "deadline", "до", "срок"}

// DeliveryScanner извлекает записи о поставках из структуры страницы
//
// Применяются две независимые стратегии: разбор строк-элементов с маркерами
// поставок и нормализация встроенных JSON-блоков. Результаты конкатенируются,
// дедупликация по ID происходит при сохранении в хранилище
type DeliveryScanner struct {
	timeProvider TimeProvider
	logger       Logger
}

// NewDeliveryScanner создает сканер поставок
func NewDeliveryScanner(timeProvider TimeProvider, logger Logger) *DeliveryScanner {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &DeliveryScanner{timeProvider: timeProvider, logger: logger}
}

// Scan сканирует текущую страницу и возвращает найденные записи о поставках
func (s *DeliveryScanner) Scan(ctx context.Context, doc dom.Document) ([]domain.DeliveryRecord, error) {
	now := s.timeProvider.Now()

	records, err := s.scanRows(ctx, doc, now)
	if err != nil {
		return nil, err
	}

	jsonRecords, err := s.scanJSONBlocks(ctx, doc, now)
	if err != nil {
		return nil, err
	}

	return append(records, jsonRecords...), nil
}

func (s *DeliveryScanner) scanRows(ctx context.Context, doc dom.Document, now time.Time) ([]domain.DeliveryRecord, error) {
	rows, err := doc.FindAll(ctx, supplyRowSelector)
	if err != nil {
		return nil, err
	}

	var records []domain.DeliveryRecord
	for _, row := range rows {
		rec, err := s.parseRow(ctx, row, now)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (s *DeliveryScanner) parseRow(ctx context.Context, row dom.Element, now time.Time) (*domain.DeliveryRecord, error) {
	text, err := row.Text(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	id := s.rowID(ctx, row, text)

	rec := domain.DeliveryRecord{
		ID:        id,
		Status:    MapStatusText(text),
		CreatedAt: extractDate(text, now),
		Deadline:  extractDeadline(text),
		ScannedAt: now,
		Source:    sourcePageRows,
	}

	if n := numberPattern.FindString(text); n != "" {
		if count, err := strconv.Atoi(n); err == nil {
			rec.ItemsCount = &count
		}
	}

	return &rec, nil
}

// rowID извлекает идентификатор поставки из атрибутов или текста строки
// Для строк без устойчивого идентификатора генерируется уникальный
func (s *DeliveryScanner) rowID(ctx context.Context, row dom.Element, text string) string {
	for _, attr := range []string{"data-id", "data-supply-id"} {
		if v, ok, err := row.Attr(ctx, attr); err == nil && ok && v != "" {
			return v
		}
	}

	if m := deliveryIDPattern.FindStringSubmatch(text); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				return g
			}
		}
		return m[0]
	}

	return "delivery-" + uuid.NewString()
}

func (s *DeliveryScanner) scanJSONBlocks(ctx context.Context, doc dom.Document, now time.Time) ([]domain.DeliveryRecord, error) {
	blocks, err := doc.FindAll(ctx, jsonBlockSelector)
	if err != nil {
		return nil, err
	}

	var records []domain.DeliveryRecord
	for _, block := range blocks {
		raw, err := block.Text(ctx)
		if err != nil {
			return nil, err
		}

		var payload struct {
			Supplies   []rawDelivery `json:"supplies"`
			Deliveries []rawDelivery `json:"deliveries"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			// Не каждый JSON-блок содержит поставки
			continue
		}

		items := payload.Supplies
		if len(items) == 0 {
			items = payload.Deliveries
		}
		for _, item := range items {
			records = append(records, item.normalize(now))
		}
	}
	return records, nil
}

// rawDelivery запись о поставке из встроенного JSON-блока страницы
// Поля дублируются под разные варианты именования
type rawDelivery struct {
	ID         string          `json:"id"`
	SupplyID   string          `json:"supplyId"`
	DeliveryID string          `json:"deliveryId"`
	Status     json.RawMessage `json:"status"`
	State      json.RawMessage `json:"state"`
	CreatedAt  string          `json:"createdAt"`
	Created    string          `json:"created"`
	Deadline   string          `json:"deadline"`
	DueDate    string          `json:"dueDate"`
	ItemsCount *int            `json:"itemsCount"`
	Quantity   *int            `json:"quantity"`
}

func (r rawDelivery) normalize(now time.Time) domain.DeliveryRecord {
	id := r.ID
	if id == "" {
		id = r.SupplyID
	}
	if id == "" {
		id = r.DeliveryID
	}
	if id == "" {
		id = "norm-" + uuid.NewString()
	}

	createdAt := parseAnyTime(r.CreatedAt)
	if createdAt == nil {
		createdAt = parseAnyTime(r.Created)
	}
	created := now
	if createdAt != nil {
		created = *createdAt
	}

	deadline := parseAnyTime(r.Deadline)
	if deadline == nil {
		deadline = parseAnyTime(r.DueDate)
	}

	items := r.ItemsCount
	if items == nil {
		items = r.Quantity
	}

	return domain.DeliveryRecord{
		ID:         id,
		Status:     mapRawStatus(r.Status, r.State),
		CreatedAt:  created,
		Deadline:   deadline,
		ItemsCount: items,
		ScannedAt:  now,
		Source:     sourceembeddedJSON,
	}
}

// MapStatusText отображает произвольный текст в канонический статус поставки
// по фиксированному лексикону; без совпадений возвращает active
func MapStatusText(text string) domain.DeliveryStatus {
	lower := strings.ToLower(text)
	for _, entry := range statusLexicon {
		if strings.Contains(lower, entry.keyword) {
			return entry.status
		}
	}
	return domain.DeliveryActive
}

// Коды статусов из структурированных данных
var rawStatusMap = map[string]domain.DeliveryStatus{
	"0":           domain.DeliveryPending,
	"1":           domain.DeliveryActive,
	"2":           domain.DeliveryCompleted,
	"3":           domain.DeliveryCancelled,
	"new":         domain.DeliveryPending,
	"in_progress": domain.DeliveryActive,
	"done":        domain.DeliveryCompleted,
}

func mapRawStatus(values ...json.RawMessage) domain.DeliveryStatus {
	for _, raw := range values {
		if len(raw) == 0 {
			continue
		}
		v := strings.ToLower(strings.Trim(string(raw), `"`))
		if v == "" || v == "null" {
			continue
		}
		if status, ok := rawStatusMap[v]; ok {
			return status
		}
		return MapStatusText(v)
	}
	return domain.DeliveryActive
}

// extractDate ищет в тексте дату в формате DD.MM.YYYY (или DD.MM.YY),
// затем в ISO-формате; при отсутствии возвращает now
func extractDate(text string, now time.Time) time.Time {
	if t := parseRuDate(text); t != nil {
		return *t
	}
	if m := isoDatePattern.FindString(text); m != "" {
		if t, err := time.Parse(domain.DateFormat, m); err == nil {
			return t
		}
	}
	return now
}

// extractDeadline ищет дедлайн: при наличии ключевого слова берется
// последняя дата DD.MM.YYYY в тексте
func extractDeadline(text string) *time.Time {
	lower := strings.ToLower(text)
	for _, word := range deadlineKeywords {
		if !strings.Contains(lower, word) {
			continue
		}
		matches := ruDatePattern.FindAllString(text, -1)
		if len(matches) == 0 {
			return nil
		}
		return parseRuDate(matches[len(matches)-1])
	}
	return nil
}

func parseRuDate(text string) *time.Time {
	m := ruDatePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	yearStr := m[3]
	if len(yearStr) == 2 {
		yearStr = "20" + yearStr
	}
	year, _ := strconv.Atoi(yearStr)

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

func parseAnyTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse(domain.DateFormat, s); err == nil {
		return &t
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
		t := time.UnixMilli(ms)
		return &t
	}
	return parseRuDate(s)
}
