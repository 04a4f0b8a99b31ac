package dom

import (
	"context"
	"strings"
)

// Strategy стратегия поиска элемента
// Стратегии применяются по порядку, выигрывает первое совпадение
// Отсутствие элемента - штатный исход: Locate возвращает (nil, nil),
// ошибки возникают только при сбоях транспорта
type Strategy interface {
	locate(ctx context.Context, doc Document) (Element, error)
}

// BySelector поиск по известному структурному селектору
// (id, name, устойчивый фрагмент класса)
type BySelector struct {
	Selector string
}

func (s BySelector) locate(ctx context.Context, doc Document) (Element, error) {
	els, err := doc.FindAll(ctx, s.Selector)
	if err != nil {
		return nil, err
	}
	return firstVisible(ctx, els)
}

// ByText поиск среди элементов селектора по вхождению одной из фраз
// Сравнение без учета регистра
type ByText struct {
	Selector string
	Phrases  []string
}

func (s ByText) locate(ctx context.Context, doc Document) (Element, error) {
	els, err := doc.FindAll(ctx, s.Selector)
	if err != nil {
		return nil, err
	}

	for _, el := range els {
		ok, err := visibleTextMatch(ctx, el, func(text string) bool {
			return containsAnyFold(text, s.Phrases)
		})
		if err != nil {
			return nil, err
		}
		if ok {
			return el, nil
		}
	}
	return nil, nil
}

// ByExactText поиск по точному совпадению текста (после trim, без учета регистра)
type ByExactText struct {
	Selector string
	Text     string
}

func (s ByExactText) locate(ctx context.Context, doc Document) (Element, error) {
	els, err := doc.FindAll(ctx, s.Selector)
	if err != nil {
		return nil, err
	}

	for _, el := range els {
		ok, err := visibleTextMatch(ctx, el, func(text string) bool {
			return strings.EqualFold(strings.TrimSpace(text), s.Text)
		})
		if err != nil {
			return nil, err
		}
		if ok {
			return el, nil
		}
	}
	return nil, nil
}

// ByCompositeChild поиск опции списка: среди элементов ItemSelector ищется
// элемент с текстом Label; предпочитается вложенный интерактивный элемент
// ChildSelector, иначе возвращается сам элемент списка
// Exact управляет точностью сравнения текста
type ByCompositeChild struct {
	ItemSelector  string
	ChildSelector string
	Label         string
	Exact         bool
}

func (s ByCompositeChild) locate(ctx context.Context, doc Document) (Element, error) {
	items, err := doc.FindAll(ctx, s.ItemSelector)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		visible, err := item.Visible(ctx)
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}

		child, err := item.Find(ctx, s.ChildSelector)
		if err != nil {
			return nil, err
		}
		if child != nil {
			text, err := child.Text(ctx)
			if err != nil {
				return nil, err
			}
			if s.textMatches(text) {
				return child, nil
			}
			continue
		}

		text, err := item.Text(ctx)
		if err != nil {
			return nil, err
		}
		if s.textMatches(text) {
			return item, nil
		}
	}
	return nil, nil
}

func (s ByCompositeChild) textMatches(text string) bool {
	text = strings.TrimSpace(text)
	if s.Exact {
		return text == s.Label
	}
	return containsAnyFold(text, []string{s.Label})
}

// Locate применяет стратегии по порядку и возвращает первый видимый
// подходящий элемент либо (nil, nil), если ни одна стратегия не сработала
func Locate(ctx context.Context, doc Document, strategies ...Strategy) (Element, error) {
	for _, s := range strategies {
		el, err := s.locate(ctx, doc)
		if err != nil {
			return nil, err
		}
		if el != nil {
			return el, nil
		}
	}
	return nil, nil
}

// LocateAll возвращает все видимые элементы селектора, текст которых
// содержит одну из фраз (без учета регистра)
// Без фраз возвращаются все видимые элементы селектора
func LocateAll(ctx context.Context, doc Document, selector string, phrases ...string) ([]Element, error) {
	els, err := doc.FindAll(ctx, selector)
	if err != nil {
		return nil, err
	}

	var matched []Element
	for _, el := range els {
		ok, err := visibleTextMatch(ctx, el, func(text string) bool {
			return containsAnyFold(text, phrases)
		})
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, el)
		}
	}
	return matched, nil
}

func firstVisible(ctx context.Context, els []Element) (Element, error) {
	for _, el := range els {
		visible, err := el.Visible(ctx)
		if err != nil {
			return nil, err
		}
		if visible {
			return el, nil
		}
	}
	return nil, nil
}

func visibleTextMatch(ctx context.Context, el Element, match func(string) bool) (bool, error) {
	visible, err := el.Visible(ctx)
	if err != nil {
		return false, err
	}
	if !visible {
		return false, nil
	}

	text, err := el.Text(ctx)
	if err != nil {
		return false, err
	}
	return match(text), nil
}

func containsAnyFold(text string, phrases []string) bool {
	if len(phrases) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
