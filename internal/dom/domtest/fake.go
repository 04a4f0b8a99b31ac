// Package domtest содержит in-memory реализацию dom.Page для тестов
// workflow и локатора без реального браузера.
//
// Поддерживается подмножество селекторов, используемое в коде:
// альтернативы через запятую и простые составные селекторы вида
// tag#id.class[attr], [attr="v"], [attr*="v"]. Комбинаторы потомков
// не поддерживаются.
package domtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/m04kA/WB-SupplyBot/internal/dom"
)

// Node узел фейкового DOM-дерева
type Node struct {
	Tag      string
	Attrs    map[string]string
	Text     string // собственный текст узла
	Hidden   bool
	Disabled bool
	Kids     []*Node
}

// El создает узел с атрибутами из пар ключ-значение
func El(tag string, attrPairs ...string) *Node {
	attrs := map[string]string{}
	for i := 0; i+1 < len(attrPairs); i += 2 {
		attrs[attrPairs[i]] = attrPairs[i+1]
	}
	return &Node{Tag: tag, Attrs: attrs}
}

// WithText устанавливает собственный текст узла
func (n *Node) WithText(text string) *Node {
	n.Text = text
	return n
}

// WithKids добавляет дочерние узлы
func (n *Node) WithKids(kids ...*Node) *Node {
	n.Kids = append(n.Kids, kids...)
	return n
}

// Invisible помечает узел скрытым (нулевые размеры)
func (n *Node) Invisible() *Node {
	n.Hidden = true
	return n
}

// FullText возвращает текст узла вместе с текстом потомков,
// построчно, как textContent
func (n *Node) FullText() string {
	var parts []string
	n.collectText(&parts)
	return strings.Join(parts, "\n")
}

func (n *Node) collectText(parts *[]string) {
	if n.Text != "" {
		*parts = append(*parts, n.Text)
	}
	for _, k := range n.Kids {
		k.collectText(parts)
	}
}

// Page фейковая страница: dom.Document + dom.Events
// Записывает все взаимодействия для проверок в тестах
// Мутации защищены мьютексом: воркфлоу работают со страницей
// из собственных горутин
type Page struct {
	mu sync.Mutex

	Root    *Node
	Focused *Node

	// Записанные взаимодействия
	Clicks  []*Node
	Hovers  []*Node
	Typed   map[*Node]string
	Escapes int

	// QueryCount количество обращений к Document.FindAll
	QueryCount int

	// OnClick хук, вызываемый при каждом клике (для имитации реакции страницы)
	OnClick func(n *Node)
}

// NewPage создает фейковую страницу с указанным корнем
func NewPage(root *Node) *Page {
	return &Page{Root: root, Typed: map[*Node]string{}}
}

var _ dom.Page = (*Page)(nil)

// FindAll реализует dom.Document
func (p *Page) FindAll(ctx context.Context, selector string) ([]dom.Element, error) {
	p.mu.Lock()
	p.QueryCount++
	p.mu.Unlock()
	sels, err := parseSelectorList(selector)
	if err != nil {
		return nil, err
	}

	var out []dom.Element
	walk(p.Root, func(n *Node) {
		if matchesAny(n, sels) {
			out = append(out, &element{node: n, page: p})
		}
	})
	return out, nil
}

// Active реализует dom.Document
func (p *Page) Active(ctx context.Context) (dom.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Focused == nil {
		return nil, nil
	}
	return &element{node: p.Focused, page: p}, nil
}

// Click реализует dom.Events
func (p *Page) Click(ctx context.Context, el dom.Element) error {
	n := mustNode(el)
	p.mu.Lock()
	p.Clicks = append(p.Clicks, n)
	hook := p.OnClick
	p.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return nil
}

// Hover реализует dom.Events
func (p *Page) Hover(ctx context.Context, el dom.Element) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Hovers = append(p.Hovers, mustNode(el))
	return nil
}

// TypeText реализует dom.Events
func (p *Page) TypeText(ctx context.Context, el dom.Element, text string) error {
	n := mustNode(el)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Focused = n
	p.Typed[n] = text
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs["value"] = text
	return nil
}

// PressEscape реализует dom.Events
func (p *Page) PressEscape(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Escapes++
	return nil
}

// ClickedTexts возвращает тексты кликнутых узлов (для проверок)
func (p *Page) ClickedTexts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Clicks))
	for _, n := range p.Clicks {
		out = append(out, strings.TrimSpace(n.FullText()))
	}
	return out
}

// EscapeCount возвращает число нажатий Escape (для проверок)
func (p *Page) EscapeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Escapes
}

type element struct {
	node *Node
	page *Page
}

func mustNode(el dom.Element) *Node {
	return el.(*element).node
}

func (e *element) Text(ctx context.Context) (string, error) {
	return e.node.FullText(), nil
}

func (e *element) Attr(ctx context.Context, name string) (string, bool, error) {
	v, ok := e.node.Attrs[name]
	return v, ok, nil
}

func (e *element) Visible(ctx context.Context) (bool, error) {
	return !e.node.Hidden, nil
}

func (e *element) Disabled(ctx context.Context) (bool, error) {
	return e.node.Disabled, nil
}

func (e *element) Find(ctx context.Context, selector string) (dom.Element, error) {
	els, err := e.FindAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, nil
	}
	return els[0], nil
}

func (e *element) FindAll(ctx context.Context, selector string) ([]dom.Element, error) {
	sels, err := parseSelectorList(selector)
	if err != nil {
		return nil, err
	}

	var out []dom.Element
	for _, kid := range e.node.Kids {
		walk(kid, func(n *Node) {
			if matchesAny(n, sels) {
				out = append(out, &element{node: n, page: e.page})
			}
		})
	}
	return out, nil
}

func walk(n *Node, visit func(*Node)) {
	visit(n)
	for _, kid := range n.Kids {
		walk(kid, visit)
	}
}

// ------- селекторы -------

type attrCond struct {
	name     string
	op       byte // 0 - наличие, '=' - равенство, '*' - вхождение
	value    string
}

type simpleSelector struct {
	tag     string
	id      string
	classes []string
	attrs   []attrCond
}

func matchesAny(n *Node, sels []simpleSelector) bool {
	for _, s := range sels {
		if s.matches(n) {
			return true
		}
	}
	return false
}

func (s simpleSelector) matches(n *Node) bool {
	if s.tag != "" && !strings.EqualFold(s.tag, n.Tag) {
		return false
	}
	if s.id != "" && n.Attrs["id"] != s.id {
		return false
	}
	classAttr := n.Attrs["class"]
	for _, c := range s.classes {
		if !hasClass(classAttr, c) {
			return false
		}
	}
	for _, a := range s.attrs {
		v, ok := n.Attrs[a.name]
		switch a.op {
		case 0:
			if !ok {
				return false
			}
		case '=':
			if v != a.value {
				return false
			}
		case '*':
			if !strings.Contains(v, a.value) {
				return false
			}
		}
	}
	return true
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}

func parseSelectorList(selector string) ([]simpleSelector, error) {
	var out []simpleSelector
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s, err := parseSimpleSelector(part)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("domtest: empty selector")
	}
	return out, nil
}

func parseSimpleSelector(s string) (simpleSelector, error) {
	if strings.ContainsAny(stripBracketed(s), " >+~") {
		return simpleSelector{}, fmt.Errorf("domtest: combinators are not supported: %q", s)
	}

	var sel simpleSelector
	i := 0
	for i < len(s) && s[i] != '#' && s[i] != '.' && s[i] != '[' {
		i++
	}
	sel.tag = s[:i]

	for i < len(s) {
		switch s[i] {
		case '#':
			j := i + 1
			for j < len(s) && s[j] != '.' && s[j] != '[' && s[j] != '#' {
				j++
			}
			sel.id = s[i+1 : j]
			i = j
		case '.':
			j := i + 1
			for j < len(s) && s[j] != '.' && s[j] != '[' && s[j] != '#' {
				j++
			}
			sel.classes = append(sel.classes, s[i+1:j])
			i = j
		case '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return simpleSelector{}, fmt.Errorf("domtest: unclosed attribute selector: %q", s)
			}
			cond, err := parseAttrCond(s[i+1 : i+j])
			if err != nil {
				return simpleSelector{}, err
			}
			sel.attrs = append(sel.attrs, cond)
			i += j + 1
		default:
			return simpleSelector{}, fmt.Errorf("domtest: unexpected char in selector: %q", s)
		}
	}
	return sel, nil
}

// stripBracketed убирает секции [...] перед проверкой на комбинаторы:
// значения атрибутов в кавычках могут содержать пробелы
func stripBracketed(s string) string {
	var b strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteByte(s[i])
			}
		}
	}
	return b.String()
}

func parseAttrCond(s string) (attrCond, error) {
	if eq := strings.Index(s, "*="); eq >= 0 {
		return attrCond{name: s[:eq], op: '*', value: unquote(s[eq+2:])}, nil
	}
	if eq := strings.IndexByte(s, '='); eq >= 0 {
		return attrCond{name: s[:eq], op: '=', value: unquote(s[eq+1:])}, nil
	}
	return attrCond{name: s}, nil
}

func unquote(s string) string {
	return strings.Trim(s, `"'`)
}
