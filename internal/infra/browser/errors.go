package browser

import "errors"

var (
	// ErrStaleElement элемент исчез из DOM после перестройки страницы
	ErrStaleElement = errors.New("element is no longer attached to the document")
)
