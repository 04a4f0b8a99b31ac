package dom_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/WB-SupplyBot/internal/dom"
	"github.com/m04kA/WB-SupplyBot/internal/dom/domtest"
)

func TestLocate_BySelector(t *testing.T) {
	ctx := context.Background()
	page := domtest.NewPage(domtest.El("body").WithKids(
		domtest.El("button", "id", "hidden").WithText("Скрытая").Invisible(),
		domtest.El("button", "id", "visible").WithText("Видимая"),
	))

	el, err := dom.Locate(ctx, page, dom.BySelector{Selector: "button"})
	require.NoError(t, err)
	require.NotNil(t, el)

	// Первый видимый элемент, скрытые пропускаются
	text, _ := el.Text(ctx)
	assert.Equal(t, "Видимая", text)
}

func TestLocate_ByText(t *testing.T) {
	ctx := context.Background()
	page := domtest.NewPage(domtest.El("body").WithKids(
		domtest.El("button").WithText("Отмена"),
		domtest.El("button").WithText("Запланировать поставку"),
	))

	el, err := dom.Locate(ctx, page, dom.ByText{
		Selector: "button",
		Phrases:  []string{"запланировать"},
	})
	require.NoError(t, err)
	require.NotNil(t, el)

	text, _ := el.Text(ctx)
	assert.Equal(t, "Запланировать поставку", text)
}

func TestLocate_FirstStrategyWins(t *testing.T) {
	ctx := context.Background()
	page := domtest.NewPage(domtest.El("body").WithKids(
		domtest.El("button", "class", "button_primary").WithText("Первый"),
		domtest.El("button").WithText("Второй"),
	))

	el, err := dom.Locate(ctx, page,
		dom.BySelector{Selector: `button[class*="button_"]`},
		dom.ByText{Selector: "button", Phrases: []string{"Второй"}},
	)
	require.NoError(t, err)
	require.NotNil(t, el)

	text, _ := el.Text(ctx)
	assert.Equal(t, "Первый", text)
}

func TestLocate_AbsenceIsNotAnError(t *testing.T) {
	ctx := context.Background()
	page := domtest.NewPage(domtest.El("body"))

	el, err := dom.Locate(ctx, page, dom.ByText{Selector: "button", Phrases: []string{"нет такой"}})
	require.NoError(t, err)
	assert.Nil(t, el)
}

func TestLocate_ByExactText(t *testing.T) {
	ctx := context.Background()
	page := domtest.NewPage(domtest.El("body").WithKids(
		domtest.El("button").WithText("Выбрать все"),
		domtest.El("button").WithText("  Выбрать  "),
	))

	el, err := dom.Locate(ctx, page, dom.ByExactText{Selector: "button", Text: "Выбрать"})
	require.NoError(t, err)
	require.NotNil(t, el)

	text, _ := el.Text(ctx)
	assert.Equal(t, "  Выбрать  ", text)
}

func TestLocate_ByCompositeChild(t *testing.T) {
	ctx := context.Background()
	page := domtest.NewPage(domtest.El("ul").WithKids(
		domtest.El("li").WithKids(domtest.El("button").WithText("Коледино")),
		domtest.El("li").WithKids(domtest.El("button").WithText("Коледино СЦ")),
	))

	t.Run("exact equality does not match prefix", func(t *testing.T) {
		el, err := dom.Locate(ctx, page, dom.ByCompositeChild{
			ItemSelector:  "li",
			ChildSelector: "button",
			Label:         "Коледино СЦ",
			Exact:         true,
		})
		require.NoError(t, err)
		require.NotNil(t, el)

		text, _ := el.Text(ctx)
		assert.Equal(t, "Коледино СЦ", text)
	})

	t.Run("item without child returned as is", func(t *testing.T) {
		bare := domtest.NewPage(domtest.El("ul").WithKids(
			domtest.El("li").WithText("Тула"),
		))
		el, err := dom.Locate(ctx, bare, dom.ByCompositeChild{
			ItemSelector:  "li",
			ChildSelector: "button",
			Label:         "Тула",
			Exact:         true,
		})
		require.NoError(t, err)
		require.NotNil(t, el)
	})
}

func TestLocateAll(t *testing.T) {
	ctx := context.Background()
	page := domtest.NewPage(domtest.El("body").WithKids(
		domtest.El("button").WithText("Запланировать"),
		domtest.El("button").WithText("Запланировать поставку").Invisible(),
		domtest.El("button").WithText("Отмена"),
		domtest.El("button").WithText("запланировать"),
	))

	t.Run("phrase match is case insensitive and skips hidden", func(t *testing.T) {
		els, err := dom.LocateAll(ctx, page, "button", "запланировать")
		require.NoError(t, err)
		assert.Len(t, els, 2)
	})

	t.Run("no phrases returns all visible", func(t *testing.T) {
		els, err := dom.LocateAll(ctx, page, "button")
		require.NoError(t, err)
		assert.Len(t, els, 3)
	})
}
