package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoaddr/internal/domain"
	"geoaddr/internal/morph"
	"geoaddr/internal/normalizer"
)

func newTestCascade() *Cascade {
	return NewCascade(normalizer.New(morph.NewAnalyzer()), DefaultConfidences())
}

func TestCascade_StreetTypeFirst_WithPostalAfterCity(t *testing.T) {
	c := newTestCascade()
	text := "Зустріч за адресою вул. Хрещатик, 22, Київ, 01001."

	res, ok := c.Match(text, domain.LanguageUkrainian)
	require.True(t, ok)

	assert.Equal(t, StreetTypeFirst, res.Template)
	assert.Equal(t, "вулиця", res.Address.StreetType)
	assert.Equal(t, "Хрещатик", res.Address.StreetName)
	assert.Equal(t, "22", res.Address.Building)
	assert.Equal(t, "01001", res.Address.PostalCode)
	assert.Equal(t, "за адресою вул. Хрещатик, 22", res.Address.RawText)
	assert.InDelta(t, 0.8, res.Address.Confidence, 1e-9)
	assert.True(t, strings.Contains(text, res.Address.RawText))
}

func TestCascade_EarlierTemplateWinsOverEarlierPosition(t *testing.T) {
	c := newTestCascade()

	res, ok := c.Match("Садова вулиця, 5 та вулиця Шевченка, 7", domain.LanguageUkrainian)
	require.True(t, ok)

	assert.Equal(t, StreetTypeFirst, res.Template)
	assert.Equal(t, "Шевченко", res.Address.StreetName)
	assert.Equal(t, "7", res.Address.Building)
}

func TestCascade_StreetTypeLast(t *testing.T) {
	c := newTestCascade()

	res, ok := c.Match("Зустріч на Садовій вулиці 5", domain.LanguageUkrainian)
	require.True(t, ok)

	assert.Equal(t, StreetTypeLast, res.Template)
	assert.Equal(t, "вулиця", res.Address.StreetType)
	assert.Equal(t, "Садова", res.Address.StreetName)
	assert.Equal(t, "5", res.Address.Building)
}

func TestCascade_HouseMarkerBeforeNumber(t *testing.T) {
	c := newTestCascade()

	res, ok := c.Match("Привезите на ул. Пушкина, д. 10", domain.LanguageRussian)
	require.True(t, ok)

	assert.Equal(t, StreetTypeFirst, res.Template)
	assert.Equal(t, "улица", res.Address.StreetType)
	assert.Equal(t, "Пушкин", res.Address.StreetName)
	assert.Equal(t, "10", res.Address.Building)
}

func TestCascade_BuildingLetter(t *testing.T) {
	c := newTestCascade()

	t.Run("letter suffix is kept", func(t *testing.T) {
		res, ok := c.Match("вул. Садова, 5А", domain.LanguageUkrainian)
		require.True(t, ok)
		assert.Equal(t, "5А", res.Address.Building)
	})

	t.Run("first letter of next word is dropped", func(t *testing.T) {
		res, ok := c.Match("вул. Садова 5 кв. 3", domain.LanguageUkrainian)
		require.True(t, ok)
		assert.Equal(t, "5", res.Address.Building)
		assert.Equal(t, "3", res.Address.Apartment)
		assert.Equal(t, "вул. Садова 5", res.Address.RawText)
	})
}

func TestCascade_PrepositionTemplates(t *testing.T) {
	c := newTestCascade()

	res, ok := c.Match("стоимо біля Ринку, 12", domain.LanguageUkrainian)
	require.True(t, ok)
	assert.Equal(t, PrepositionComma, res.Template)
	assert.Equal(t, "12", res.Address.Building)
	assert.InDelta(t, 0.7, res.Address.Confidence, 1e-9)

	res, ok = c.Match("встретимся возле Ленина дом 5", domain.LanguageRussian)
	require.True(t, ok)
	assert.Equal(t, PrepositionBuilding, res.Template)
	assert.Equal(t, "5", res.Address.Building)
}

func TestCascade_StopWordRejected(t *testing.T) {
	c := newTestCascade()

	for _, text := range []string{"але, 22", "на але, 22", "Але, 22"} {
		_, ok := c.Match(text, domain.LanguageUkrainian)
		assert.False(t, ok, text)
	}
}

func TestCascade_CityFirst(t *testing.T) {
	c := newTestCascade()

	res, ok := c.Match("Одеса, Дерибасівська 10", domain.LanguageUkrainian)
	require.True(t, ok)

	assert.Equal(t, CityFirst, res.Template)
	assert.Equal(t, "Одеса", res.Address.City)
	assert.Equal(t, "10", res.Address.Building)
	assert.InDelta(t, 0.75, res.Address.Confidence, 1e-9)
}

func TestCascade_AddressLabelIsRawOnly(t *testing.T) {
	c := newTestCascade()

	res, ok := c.Match("Доставка по адресу: Ленина д. 5", domain.LanguageRussian)
	require.True(t, ok)

	assert.Equal(t, AddressLabel, res.Template)
	assert.Equal(t, "Ленина д. 5", res.Address.RawText)
	assert.Empty(t, res.Address.StreetName)
	assert.Empty(t, res.Address.StreetType)
	assert.InDelta(t, 0.6, res.Address.Confidence, 1e-9)
}

func TestCascade_BareName(t *testing.T) {
	c := newTestCascade()

	res, ok := c.Match("Шевченка, 12", domain.LanguageUkrainian)
	require.True(t, ok)
	assert.Equal(t, BareName, res.Template)
	assert.Equal(t, "Шевченко", res.Address.StreetName)
	assert.InDelta(t, 0.5, res.Address.Confidence, 1e-9)

	_, ok = c.Match("Бар, 12", domain.LanguageUkrainian)
	assert.False(t, ok, "short names are not streets")
}

func TestCascade_NoMatch(t *testing.T) {
	c := newTestCascade()

	_, ok := c.Match("Левый 2 белый рено и Мазда по дворам", domain.LanguageRussian)
	assert.False(t, ok)
}

func TestCascade_CustomConfidences(t *testing.T) {
	conf := DefaultConfidences()
	conf.StreetTypeFirst = 0.95
	c := NewCascade(normalizer.New(morph.NewAnalyzer()), conf)

	res, ok := c.Match("вул. Хрещатик, 22", domain.LanguageUkrainian)
	require.True(t, ok)
	assert.InDelta(t, 0.95, res.Address.Confidence, 1e-9)
	assert.Len(t, c.Templates(), 7)
}

func TestCascade_MatchTemplateInIsolation(t *testing.T) {
	c := newTestCascade()
	text := "Садова вулиця, 5"

	_, ok := c.MatchTemplate(StreetTypeFirst, text, domain.LanguageUkrainian)
	assert.False(t, ok)

	addr, ok := c.MatchTemplate(StreetTypeLast, text, domain.LanguageUkrainian)
	require.True(t, ok)
	assert.Equal(t, "Садова", addr.StreetName)
	assert.Equal(t, "5", addr.Building)

	_, ok = c.MatchTemplate("missing", text, domain.LanguageUkrainian)
	assert.False(t, ok)
}

func TestCascade_TemplatesBelowFloorDisabled(t *testing.T) {
	conf := DefaultConfidences()
	conf.BareName = 0.1
	c := NewCascade(normalizer.New(morph.NewAnalyzer()), conf)

	_, ok := c.Match("Шевченка, 12", domain.LanguageUkrainian)
	assert.False(t, ok)

	conf = DefaultConfidences()
	conf.Floor = 0.55
	c = NewCascade(normalizer.New(morph.NewAnalyzer()), conf)

	_, ok = c.Match("Шевченка, 12", domain.LanguageUkrainian)
	assert.False(t, ok, "bare name scores 0.5")
	res, ok := c.Match("вул. Хрещатик, 22", domain.LanguageUkrainian)
	require.True(t, ok)
	assert.Equal(t, StreetTypeFirst, res.Template)
}
