package dom

import "context"

// Element дескриптор одного отрендеренного элемента страницы
// Реализации не обязаны переживать перестройку DOM: устаревший дескриптор
// возвращает ошибку при обращении
type Element interface {
	// Text возвращает видимый текст элемента
	Text(ctx context.Context) (string, error)

	// Attr возвращает значение атрибута и признак его наличия
	Attr(ctx context.Context, name string) (string, bool, error)

	// Visible возвращает true, если элемент имеет ненулевые размеры
	Visible(ctx context.Context) (bool, error)

	// Disabled возвращает true для отключенных интерактивных элементов
	Disabled(ctx context.Context) (bool, error)

	// Find ищет первый вложенный элемент по селектору
	// Возвращает (nil, nil), если элемент не найден
	Find(ctx context.Context, selector string) (Element, error)

	// FindAll ищет все вложенные элементы по селектору
	FindAll(ctx context.Context, selector string) ([]Element, error)
}

// Document способность запрашивать элементы страницы
// Абстрагирует реальный браузер, позволяя тестировать workflow
// на in-memory документе
type Document interface {
	// FindAll ищет все элементы документа по селектору
	FindAll(ctx context.Context, selector string) ([]Element, error)

	// Active возвращает элемент в фокусе или (nil, nil)
	Active(ctx context.Context) (Element, error)
}

// Events синтез пользовательских событий на элементах страницы
type Events interface {
	// Click диспатчит mousedown/mouseup/click и нативный клик
	Click(ctx context.Context, el Element) error

	// Hover диспатчит mouseover/mouseenter/mousemove
	Hover(ctx context.Context, el Element) error

	// TypeText очищает поле и вводит текст посимвольно,
	// с событием input после каждого символа, затем change и blur
	TypeText(ctx context.Context, el Element, text string) error

	// PressEscape диспатчит Escape на документ, body и элемент в фокусе
	PressEscape(ctx context.Context) error
}

// Page полная способность работы со страницей
type Page interface {
	Document
	Events
}
