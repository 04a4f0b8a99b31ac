package browser

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/m04kA/WB-SupplyBot/internal/dom"
)

// refAttr атрибут, которым сессия помечает найденные элементы
// Пометка делается на стороне страницы при каждом запросе, поэтому
// дескриптор остается валидным, пока жив сам узел
const refAttr = "data-wbx-ref"

var _ dom.Page = (*Session)(nil)

// FindAll реализует dom.Document: помечает все совпавшие элементы
// ref-атрибутами и возвращает их дескрипторы
func (s *Session) FindAll(ctx context.Context, selector string) ([]dom.Element, error) {
	js := fmt.Sprintf(`(function(){
		if (!window.__wbxRefSeq) { window.__wbxRefSeq = 1; }
		var out = [];
		var els;
		try { els = document.querySelectorAll(%s); } catch (e) { return out; }
		for (var i = 0; i < els.length; i++) {
			var el = els[i];
			var ref = el.getAttribute(%q);
			if (!ref) {
				ref = String(window.__wbxRefSeq++);
				el.setAttribute(%q, ref);
			}
			out.push(ref);
		}
		return out;
	})()`, jsString(selector), refAttr, refAttr)

	var refs []string
	if err := s.eval(ctx, js, &refs); err != nil {
		return nil, fmt.Errorf("FindAll %q: %w", selector, err)
	}

	els := make([]dom.Element, 0, len(refs))
	for _, ref := range refs {
		els = append(els, &element{session: s, ref: ref})
	}
	return els, nil
}

// Active реализует dom.Document: возвращает элемент в фокусе
func (s *Session) Active(ctx context.Context) (dom.Element, error) {
	js := fmt.Sprintf(`(function(){
		var el = document.activeElement;
		if (!el || el === document.body) { return ""; }
		if (!window.__wbxRefSeq) { window.__wbxRefSeq = 1; }
		var ref = el.getAttribute(%q);
		if (!ref) {
			ref = String(window.__wbxRefSeq++);
			el.setAttribute(%q, ref);
		}
		return ref;
	})()`, refAttr, refAttr)

	var ref string
	if err := s.eval(ctx, js, &ref); err != nil {
		return nil, fmt.Errorf("Active: %w", err)
	}
	if ref == "" {
		return nil, nil
	}
	return &element{session: s, ref: ref}, nil
}

// element дескриптор элемента, адресуемого по ref-атрибуту
type element struct {
	session *Session
	ref     string
}

func (e *element) selfJS() string {
	return fmt.Sprintf(`document.querySelector('[%s="%s"]')`, refAttr, e.ref)
}

func (e *element) Text(ctx context.Context) (string, error) {
	var text string
	js := fmt.Sprintf(`(function(){
		var el = %s;
		return el ? (el.textContent || "") : "";
	})()`, e.selfJS())
	if err := e.session.eval(ctx, js, &text); err != nil {
		return "", fmt.Errorf("element %s: Text: %w", e.ref, err)
	}
	return text, nil
}

func (e *element) Attr(ctx context.Context, name string) (string, bool, error) {
	var res struct {
		OK    bool   `json:"ok"`
		Value string `json:"value"`
	}
	js := fmt.Sprintf(`(function(){
		var el = %s;
		if (!el || !el.hasAttribute(%s)) { return {ok:false, value:""}; }
		return {ok:true, value: el.getAttribute(%s)};
	})()`, e.selfJS(), jsString(name), jsString(name))
	if err := e.session.eval(ctx, js, &res); err != nil {
		return "", false, fmt.Errorf("element %s: Attr %q: %w", e.ref, name, err)
	}
	return res.Value, res.OK, nil
}

func (e *element) Visible(ctx context.Context) (bool, error) {
	var visible bool
	js := fmt.Sprintf(`(function(){
		var el = %s;
		if (!el) { return false; }
		var r = el.getBoundingClientRect();
		return r.width > 0 && r.height > 0;
	})()`, e.selfJS())
	if err := e.session.eval(ctx, js, &visible); err != nil {
		return false, fmt.Errorf("element %s: Visible: %w", e.ref, err)
	}
	return visible, nil
}

func (e *element) Disabled(ctx context.Context) (bool, error) {
	var disabled bool
	js := fmt.Sprintf(`(function(){
		var el = %s;
		if (!el) { return false; }
		return !!el.disabled || el.classList.contains('disabled');
	})()`, e.selfJS())
	if err := e.session.eval(ctx, js, &disabled); err != nil {
		return false, fmt.Errorf("element %s: Disabled: %w", e.ref, err)
	}
	return disabled, nil
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
	js := fmt.Sprintf(`(function(){
		var root = %s;
		var out = [];
		if (!root) { return out; }
		if (!window.__wbxRefSeq) { window.__wbxRefSeq = 1; }
		var els;
		try { els = root.querySelectorAll(%s); } catch (e) { return out; }
		for (var i = 0; i < els.length; i++) {
			var el = els[i];
			var ref = el.getAttribute(%q);
			if (!ref) {
				ref = String(window.__wbxRefSeq++);
				el.setAttribute(%q, ref);
			}
			out.push(ref);
		}
		return out;
	})()`, e.selfJS(), jsString(selector), refAttr, refAttr)

	var refs []string
	if err := e.session.eval(ctx, js, &refs); err != nil {
		return nil, fmt.Errorf("element %s: FindAll %q: %w", e.ref, selector, err)
	}

	els := make([]dom.Element, 0, len(refs))
	for _, ref := range refs {
		els = append(els, &element{session: e.session, ref: ref})
	}
	return els, nil
}

// jsString кодирует Go-строку в JS-литерал
func jsString(s string) string {
	return strconv.Quote(s)
}

// evalAwait выполняет асинхронное JS-выражение, дожидаясь промиса
func (s *Session) evalAwait(ctx context.Context, js string, out interface{}) error {
	action := chromedp.Evaluate(js, out, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	})
	return s.run(ctx, action)
}
