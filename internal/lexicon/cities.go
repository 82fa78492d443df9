package lexicon

import (
	"regexp"
	"sort"
	"strings"
)

// cityForms lists nominative city names with their known surface forms. Order matters
// when two cities share a form ("Львова"): the earlier entry wins.
var cityForms = []struct {
	name  string
	forms []string
}{
	{"Київ", []string{"Київ", "Києві", "Києва", "Києвом"}},
	{"Львів", []string{"Львів", "Львові", "Львова", "Львовом"}},
	{"Одеса", []string{"Одеса", "Одесі", "Одеси", "Одесу", "Одесою"}},
	{"Харків", []string{"Харків", "Харкові", "Харкова", "Харковом"}},
	{"Дніпро", []string{"Дніпро", "Дніпрі", "Дніпра", "Дніпром"}},
	{"Запоріжжя", []string{"Запоріжжя", "Запоріжжі"}},
	{"Вінниця", []string{"Вінниця", "Вінниці", "Вінницю", "Вінницею"}},
	{"Полтава", []string{"Полтава", "Полтаві", "Полтави", "Полтаву"}},
	{"Чернігів", []string{"Чернігів", "Чернігові", "Чернігова"}},
	{"Черкаси", []string{"Черкаси", "Черкасах", "Черкас"}},
	{"Суми", []string{"Суми", "Сумах", "Сум"}},
	{"Рівне", []string{"Рівне", "Рівному"}},
	{"Тернопіль", []string{"Тернопіль", "Тернополі", "Тернополя"}},
	{"Луцьк", []string{"Луцьк", "Луцьку", "Луцька"}},
	{"Ужгород", []string{"Ужгород", "Ужгороді", "Ужгорода"}},
	{"Миколаїв", []string{"Миколаїв", "Миколаєві", "Миколаєва"}},
	{"Хмельницький", []string{"Хмельницький", "Хмельницькому", "Хмельницького"}},
	{"Івано-Франківськ", []string{"Івано-Франківськ", "Івано-Франківську"}},
	{"Кропивницький", []string{"Кропивницький", "Кропивницькому"}},
	{"Житомир", []string{"Житомир", "Житомирі", "Житомира"}},
	{"Киев", []string{"Киев", "Киеве", "Киева", "Киевом"}},
	{"Днепр", []string{"Днепр", "Днепре", "Днепра", "Днепром"}},
	{"Харьков", []string{"Харьков", "Харькове", "Харькова", "Харьковом"}},
	{"Одесса", []string{"Одесса", "Одессе", "Одессы", "Одессу", "Одессой"}},
	{"Львов", []string{"Львов", "Львове", "Львова", "Львовом"}},
	{"Запорожье", []string{"Запорожье", "Запорожья"}},
}

type cityEntry struct {
	form    string
	name    string
	pattern *regexp.Regexp
}

var (
	cityLookup  map[string]string
	cityEntries []cityEntry
)

func init() {
	cityLookup = make(map[string]string)
	for _, c := range cityForms {
		for _, f := range c.forms {
			lower := strings.ToLower(f)
			if _, ok := cityLookup[lower]; ok {
				continue
			}
			cityLookup[lower] = c.name
		}
	}
	forms := make([]string, 0, len(cityLookup))
	for f := range cityLookup {
		forms = append(forms, f)
	}
	sortLongestFirst(forms)
	cityEntries = make([]cityEntry, 0, len(forms))
	for _, f := range forms {
		cityEntries = append(cityEntries, cityEntry{
			form:    f,
			name:    cityLookup[f],
			pattern: regexp.MustCompile(`(?:^|[\s,;.(])` + regexp.QuoteMeta(f) + `(?:[\s,;.!?)]|$)`),
		})
	}
}

// FindCity returns the nominative name of the first known city mentioned in text.
// Longer surface forms are tried first so "Львова" is not read as a shorter form.
func FindCity(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, e := range cityEntries {
		if e.pattern.MatchString(lower) {
			return e.name, true
		}
	}
	return "", false
}

// CanonicalCity maps any known surface form (case-insensitive) to its nominative name.
func CanonicalCity(form string) (string, bool) {
	name, ok := cityLookup[strings.ToLower(strings.TrimSpace(form))]
	return name, ok
}

// CityForms returns all lowercase city surface forms, longest first.
func CityForms() []string {
	out := make([]string, len(cityEntries))
	for i, e := range cityEntries {
		out[i] = e.form
	}
	return out
}

func sortLongestFirst(forms []string) {
	sort.Slice(forms, func(i, j int) bool {
		li, lj := len([]rune(forms[i])), len([]rune(forms[j]))
		if li != lj {
			return li > lj
		}
		return forms[i] < forms[j]
	})
}
