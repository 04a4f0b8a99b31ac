package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/WB-SupplyBot/internal/dom/domtest"
)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

func TestParseRussianDate(t *testing.T) {
	now := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	t.Run("future date in current year", func(t *testing.T) {
		d := ParseRussianDate("13 октября, пн", now)
		require.NotNil(t, d)
		assert.Equal(t, 2025, d.Year())
		assert.Equal(t, time.October, d.Month())
		assert.Equal(t, 13, d.Day())
		// Нормализация к полудню
		assert.Equal(t, 12, d.Hour())
	})

	t.Run("passed date rolls to next year", func(t *testing.T) {
		d := ParseRussianDate("5 января", now)
		require.NotNil(t, d)
		assert.Equal(t, 2026, d.Year())
		assert.Equal(t, time.January, d.Month())
	})

	t.Run("today stays in current year", func(t *testing.T) {
		d := ParseRussianDate("1 марта", now)
		require.NotNil(t, d)
		assert.Equal(t, 2025, d.Year())
	})

	t.Run("unknown month", func(t *testing.T) {
		assert.Nil(t, ParseRussianDate("13 smarch", now))
	})

	t.Run("garbage", func(t *testing.T) {
		assert.Nil(t, ParseRussianDate("сегодня", now))
		assert.Nil(t, ParseRussianDate("", now))
		assert.Nil(t, ParseRussianDate("99 октября", now))
	})
}

func TestExtractAcceptanceInfo(t *testing.T) {
	tests := []struct {
		name string
		text string
		want AcceptanceInfo
	}{
		{
			name: "coefficient after acceptance marker",
			text: "13 октября, пн\nПриемка 5x",
			want: AcceptanceInfo{Label: "5x", Coefficient: 5},
		},
		{
			name: "free acceptance",
			text: "14 октября, вт\nПриемка Бесплатно",
			want: AcceptanceInfo{Label: "Бесплатно", IsFree: true},
		},
		{
			name: "percent converted to fraction",
			text: "15 октября, ср\nПриемка 75%",
			want: AcceptanceInfo{Label: "75%", Coefficient: 0.75},
		},
		{
			name: "unavailable wins over everything",
			text: "16 октября, чт\nНедоступно\nПриемка 5x",
			want: AcceptanceInfo{Label: "Пока недоступно"},
		},
		{
			name: "coefficient without acceptance marker",
			text: "17 октября 3x",
			want: AcceptanceInfo{Label: "3x", Coefficient: 3},
		},
		{
			name: "no acceptance data",
			text: "18 октября, сб",
			want: AcceptanceInfo{Label: "Неизвестно"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAcceptanceInfo(tt.text))
		})
	}
}

func TestDateExtractor_Extract(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	extractor := NewDateExtractor(fixedTime{now: now})

	newCell := func(root *domtest.Node) *domtest.Page {
		return domtest.NewPage(domtest.El("table").WithKids(root))
	}

	t.Run("cell with nested date span", func(t *testing.T) {
		cell := domtest.El("td", "class", "Calendar-cell").WithKids(
			domtest.El("span", "class", "Text--body-m").WithText("13 октября, пн"),
			domtest.El("span").WithText("Приемка 5x"),
		)
		page := newCell(cell)
		els, err := page.FindAll(ctx, "td")
		require.NoError(t, err)
		require.Len(t, els, 1)

		info, err := extractor.Extract(ctx, els[0])
		require.NoError(t, err)
		require.NotNil(t, info)

		assert.Equal(t, "13 октября, пн", info.Slot.DisplayText)
		require.NotNil(t, info.Slot.ResolvedDate)
		assert.Equal(t, time.October, info.Slot.ResolvedDate.Month())
		assert.Equal(t, "5x", info.Slot.AcceptanceLabel)
		assert.Equal(t, 5.0, info.Slot.Coefficient)
		assert.False(t, info.Slot.IsFree)
		assert.True(t, info.Slot.IsAvailable)
	})

	t.Run("unavailable cell skipped", func(t *testing.T) {
		cell := domtest.El("td").WithText("13 октября\nНедоступно")
		page := newCell(cell)
		els, _ := page.FindAll(ctx, "td")

		info, err := extractor.Extract(ctx, els[0])
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("cell without acceptance data skipped", func(t *testing.T) {
		cell := domtest.El("td").WithKids(
			domtest.El("span").WithText("13 октября, пн"),
		)
		page := newCell(cell)
		els, _ := page.FindAll(ctx, "td")

		info, err := extractor.Extract(ctx, els[0])
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("cell with unparseable date skipped", func(t *testing.T) {
		// Текст проходит шаблон даты, но день вне календаря
		cell := domtest.El("td").WithKids(
			domtest.El("span").WithText("45 октября, пн"),
			domtest.El("span").WithText("Приемка 5x"),
		)
		page := newCell(cell)
		els, _ := page.FindAll(ctx, "td")

		info, err := extractor.Extract(ctx, els[0])
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("free cell", func(t *testing.T) {
		cell := domtest.El("td").WithKids(
			domtest.El("span").WithText("20 октября, пн"),
			domtest.El("span").WithText("Приемка Бесплатно"),
		)
		page := newCell(cell)
		els, _ := page.FindAll(ctx, "td")

		info, err := extractor.Extract(ctx, els[0])
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.True(t, info.Slot.IsFree)
		assert.Equal(t, "Бесплатно", info.Slot.AcceptanceLabel)
	})
}

func TestSortByDate(t *testing.T) {
	now := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	late := &DateInfo{}
	late.Slot.ResolvedDate = ParseRussianDate("20 октября", now)
	early := &DateInfo{}
	early.Slot.ResolvedDate = ParseRussianDate("10 октября", now)
	broken := &DateInfo{}

	infos := []*DateInfo{broken, late, early}
	SortByDate(infos)

	assert.Equal(t, []*DateInfo{early, late, broken}, infos)
}
