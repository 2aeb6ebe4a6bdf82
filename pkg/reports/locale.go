package reports

import (
	"sort"
	"strings"

	"github.com/foomo/contentreports/content"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Locale a language with an optional region, e.g. "en" or "en_US"
type Locale struct {
	Lang   string
	Region string
}

// LocaleEnglish the last resort fallback
var LocaleEnglish = Locale{Lang: "en"}

// ParseLocale accepts "en", "en_US" and "en-US" style tags
func ParseLocale(tag string) Locale {
	tag = strings.ReplaceAll(tag, "-", "_")
	parts := strings.SplitN(tag, "_", 2)
	locale := Locale{Lang: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		locale.Region = strings.ToUpper(parts[1])
	}
	return locale
}

func (l Locale) String() string {
	if l.Region == "" {
		return l.Lang
	}
	return l.Lang + "_" + l.Region
}

// BCP47 the tag form understood by golang.org/x/text
func (l Locale) BCP47() string {
	if l.Region == "" {
		return l.Lang
	}
	return l.Lang + "-" + l.Region
}

// DisplayName the name of the locale's language in the given display locale
func (l Locale) DisplayName(in Locale) string {
	tag := language.Make(l.BCP47())
	if name := display.Tags(language.Make(in.BCP47())).Name(tag); name != "" {
		return name
	}
	return l.String()
}

// DisplayRegion the name of the locale's region in the given display
// locale, empty for locales without a region
func (l Locale) DisplayRegion(in Locale) string {
	if l.Region == "" {
		return ""
	}
	region, err := language.ParseRegion(l.Region)
	if err != nil {
		return l.Region
	}
	if name := display.Regions(language.Make(in.BCP47())).Name(region); name != "" {
		return name
	}
	return l.Region
}

// ResolveLocales resolves the active and default locale of a report
// execution. The resolution is total, it always yields a locale:
// the requested one if given, else the site default, else the first
// configured language in sorted order, else English.
func ResolveLocales(site *content.Site, requested string) (active, def Locale) {
	// configured locales by full tag, bare language tags fill the gaps
	localeMap := map[string]Locale{}
	sorted := site.SortedLanguages()
	for _, lang := range sorted {
		locale := ParseLocale(lang)
		localeMap[locale.String()] = locale
		if _, ok := localeMap[locale.Lang]; !ok {
			localeMap[locale.Lang] = locale
		}
	}

	var (
		siteDefault    Locale
		hasSiteDefault bool
	)
	if site.DefaultLanguage != "" {
		defaultLang := ParseLocale(site.DefaultLanguage).Lang
		for _, lang := range sorted {
			locale := ParseLocale(lang)
			if strings.EqualFold(locale.Lang, defaultLang) {
				siteDefault = locale
				hasSiteDefault = true
				break
			}
		}
	}

	switch {
	case requested != "":
		active = ParseLocale(requested)
	case hasSiteDefault:
		active = siteDefault
	case len(localeMap) > 0:
		keys := make([]string, 0, len(localeMap))
		for key := range localeMap {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		active = localeMap[keys[0]]
	default:
		active = LocaleEnglish
	}

	if hasSiteDefault {
		def = siteDefault
	} else {
		def = active
	}
	return active, def
}
