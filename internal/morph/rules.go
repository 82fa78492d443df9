package morph

import "geoaddr/internal/domain"

// rule rewrites an oblique-case ending to its nominative form.
type rule struct {
	suffix      string
	replacement string
	// after, when set, lists the runes allowed right before the suffix.
	after string
}

// Rules are tried in order; longer and more specific endings come first.
var ukrainianRules = []rule{
	{suffix: "енком", replacement: "енко"},
	{suffix: "енка", replacement: "енко"},
	{suffix: "енку", replacement: "енко"},
	{suffix: "ського", replacement: "ський"},
	{suffix: "ському", replacement: "ський"},
	{suffix: "ським", replacement: "ський"},
	{suffix: "ської", replacement: "ська"},
	{suffix: "ській", replacement: "ська"},
	{suffix: "ською", replacement: "ська"},
	{suffix: "ську", replacement: "ська"},
	{suffix: "цьку", replacement: "цька"},
	{suffix: "ого", replacement: "ий"},
	{suffix: "ому", replacement: "ий"},
	{suffix: "ої", replacement: "а"},
	{suffix: "ою", replacement: "а"},
	{suffix: "ову", replacement: "ова"},
	{suffix: "еву", replacement: "ева"},
	{suffix: "ій", replacement: "а", after: "вкнлт"},
	{suffix: "ові", replacement: ""},
	{suffix: "еві", replacement: ""},
	{suffix: "ику", replacement: "ик"},
	{suffix: "у", replacement: "", after: consonants},
}

var russianRules = []rule{
	{suffix: "ского", replacement: "ский"},
	{suffix: "цкого", replacement: "цкий"},
	{suffix: "скому", replacement: "ский"},
	{suffix: "цкому", replacement: "цкий"},
	{suffix: "ском", replacement: "ский"},
	{suffix: "цком", replacement: "цкий"},
	{suffix: "ской", replacement: "ская"},
	{suffix: "цкой", replacement: "цкая"},
	{suffix: "скую", replacement: "ская"},
	{suffix: "цкую", replacement: "цкая"},
	{suffix: "кого", replacement: "кий"},
	{suffix: "кому", replacement: "кий"},
	{suffix: "ного", replacement: "ный"},
	{suffix: "ному", replacement: "ный"},
	{suffix: "него", replacement: "ний"},
	{suffix: "ней", replacement: "няя"},
	{suffix: "ого", replacement: "ый"},
	{suffix: "ому", replacement: "ый"},
	{suffix: "его", replacement: "ий"},
	{suffix: "ему", replacement: "ий"},
	{suffix: "ым", replacement: "ый"},
	{suffix: "ой", replacement: "ая"},
	{suffix: "ую", replacement: "ая"},
	{suffix: "юю", replacement: "яя"},
	{suffix: "ом", replacement: "", after: consonants},
	{suffix: "е", replacement: "", after: consonants},
	{suffix: "у", replacement: "", after: consonants},
}

// exceptions covers first names in the genitive, which street names use
// ("вулиця Тараса Шевченка") and which suffix rules cannot tell apart from
// feminine nominatives.
var exceptions = map[domain.Language]map[string]string{
	domain.LanguageUkrainian: {
		"тараса":     "тарас",
		"богдана":    "богдан",
		"івана":      "іван",
		"петра":      "петро",
		"степана":    "степан",
		"дмитра":     "дмитро",
		"михайла":    "михайло",
		"олександра": "олександр",
		"миколи":     "микола",
		"юрія":       "юрій",
		"григорія":   "григорій",
		"василя":     "василь",
		"лесі":       "леся",
		"франка":     "франко",
	},
	domain.LanguageRussian: {
		"тараса":     "тарас",
		"богдана":    "богдан",
		"ивана":      "иван",
		"петра":      "петр",
		"степана":    "степан",
		"дмитрия":    "дмитрий",
		"михаила":    "михаил",
		"александра": "александр",
		"николая":    "николай",
		"юрия":       "юрий",
		"григория":   "григорий",
		"василия":    "василий",
		"пушкина":    "пушкин",
		"гоголя":     "гоголь",
	},
}

// consonants lists lowercase consonants that may precede a dropped nominal
// ending. "в" is left out so feminine accusatives like "Полтаву" stay intact.
const consonants = "бгґджзклмнпрстфхцчшщ"

func rulesFor(lang domain.Language) []rule {
	if lang == domain.LanguageUkrainian {
		return ukrainianRules
	}
	return russianRules
}
