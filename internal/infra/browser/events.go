package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/WB-SupplyBot/internal/dom"
)

var ErrForeignElement = errors.New("element does not belong to this browser session")

func (s *Session) own(el dom.Element) (*element, error) {
	e, ok := el.(*element)
	if !ok || e.session != s {
		return nil, ErrForeignElement
	}
	return e, nil
}

// Click диспатчит на элементе полную последовательность mousedown,
// mouseup, click, затем нативный click(), и на 300мс подсвечивает
// элемент, чтобы действие было видно при отладке с ui
func (s *Session) Click(ctx context.Context, el dom.Element) error {
	e, err := s.own(el)
	if err != nil {
		return fmt.Errorf("Click: %w", err)
	}

	js := fmt.Sprintf(`(function(){
		var el = %s;
		if (!el) { return false; }
		var r = el.getBoundingClientRect();
		var opts = {
			bubbles: true,
			cancelable: true,
			view: window,
			clientX: r.left + r.width / 2,
			clientY: r.top + r.height / 2
		};
		el.dispatchEvent(new MouseEvent('mousedown', opts));
		el.dispatchEvent(new MouseEvent('mouseup', opts));
		el.dispatchEvent(new MouseEvent('click', opts));
		if (typeof el.click === 'function') { el.click(); }
		var prevOutline = el.style.outline;
		var prevBg = el.style.backgroundColor;
		el.style.outline = '2px solid #cb11ab';
		el.style.backgroundColor = 'rgba(203, 17, 171, 0.15)';
		setTimeout(function(){
			el.style.outline = prevOutline;
			el.style.backgroundColor = prevBg;
		}, 300);
		return true;
	})()`, e.selfJS())

	var ok bool
	if err := s.eval(ctx, js, &ok); err != nil {
		return fmt.Errorf("Click: element %s: %w", e.ref, err)
	}
	if !ok {
		return fmt.Errorf("Click: element %s: %w", e.ref, ErrStaleElement)
	}
	return nil
}

// Hover диспатчит mouseover, mouseenter и mousemove, подсвечивая
// элемент рамкой на секунду
func (s *Session) Hover(ctx context.Context, el dom.Element) error {
	e, err := s.own(el)
	if err != nil {
		return fmt.Errorf("Hover: %w", err)
	}

	js := fmt.Sprintf(`(function(){
		var el = %s;
		if (!el) { return false; }
		var r = el.getBoundingClientRect();
		var opts = {
			bubbles: true,
			cancelable: true,
			view: window,
			clientX: r.left + r.width / 2,
			clientY: r.top + r.height / 2
		};
		el.dispatchEvent(new MouseEvent('mouseover', opts));
		el.dispatchEvent(new MouseEvent('mouseenter', opts));
		el.dispatchEvent(new MouseEvent('mousemove', opts));
		var prevOutline = el.style.outline;
		el.style.outline = '2px dashed #cb11ab';
		setTimeout(function(){ el.style.outline = prevOutline; }, 1000);
		return true;
	})()`, e.selfJS())

	var ok bool
	if err := s.eval(ctx, js, &ok); err != nil {
		return fmt.Errorf("Hover: element %s: %w", e.ref, err)
	}
	if !ok {
		return fmt.Errorf("Hover: element %s: %w", e.ref, ErrStaleElement)
	}
	return nil
}

// TypeText очищает поле, фокусирует его и вводит текст посимвольно
// с паузой между символами. После каждого символа диспатчится input,
// в конце change и blur, иначе React-формы не видят значение
func (s *Session) TypeText(ctx context.Context, el dom.Element, text string) error {
	e, err := s.own(el)
	if err != nil {
		return fmt.Errorf("TypeText: %w", err)
	}

	js := fmt.Sprintf(`(async function(){
		var el = %s;
		if (!el) { return false; }
		var sleep = function(ms){ return new Promise(function(r){ setTimeout(r, ms); }); };
		var setValue = function(value){
			var proto = el instanceof HTMLTextAreaElement
				? HTMLTextAreaElement.prototype
				: HTMLInputElement.prototype;
			var setter = Object.getOwnPropertyDescriptor(proto, 'value');
			if (setter && setter.set) { setter.set.call(el, value); }
			else { el.value = value; }
		};
		el.focus();
		setValue('');
		el.dispatchEvent(new Event('input', { bubbles: true }));
		var text = %s;
		for (var i = 0; i < text.length; i++) {
			setValue(el.value + text[i]);
			el.dispatchEvent(new Event('input', { bubbles: true }));
			await sleep(50);
		}
		el.dispatchEvent(new Event('change', { bubbles: true }));
		el.dispatchEvent(new Event('blur', { bubbles: true }));
		return true;
	})()`, e.selfJS(), jsString(text))

	var ok bool
	if err := s.evalAwait(ctx, js, &ok); err != nil {
		return fmt.Errorf("TypeText: element %s: %w", e.ref, err)
	}
	if !ok {
		return fmt.Errorf("TypeText: element %s: %w", e.ref, ErrStaleElement)
	}
	return nil
}

// PressEscape диспатчит keydown и keyup клавиши Escape на документ,
// body и элемент в фокусе. Порталы вешают обработчики модалок на
// разные цели, поэтому шлем на все три
func (s *Session) PressEscape(ctx context.Context) error {
	js := `(function(){
		var opts = {
			key: 'Escape',
			code: 'Escape',
			keyCode: 27,
			which: 27,
			bubbles: true,
			cancelable: true
		};
		var targets = [document, document.body];
		if (document.activeElement && document.activeElement !== document.body) {
			targets.push(document.activeElement);
		}
		for (var i = 0; i < targets.length; i++) {
			targets[i].dispatchEvent(new KeyboardEvent('keydown', opts));
			targets[i].dispatchEvent(new KeyboardEvent('keyup', opts));
		}
		return true;
	})()`

	var ok bool
	if err := s.eval(ctx, js, &ok); err != nil {
		return fmt.Errorf("PressEscape: %w", err)
	}
	return nil
}
