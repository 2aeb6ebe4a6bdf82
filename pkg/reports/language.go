package reports

import (
	"context"
	"sort"
	"strings"

	"github.com/foomo/contentreports/content"
)

// ------------------------------------------------------------------------------------------------
// ~ By language
// ------------------------------------------------------------------------------------------------

// ByLanguage describes the site's language configuration.
type ByLanguage struct {
	Base
}

func (r *ByLanguage) Execute(ctx context.Context, session Session, offset, limit int) error {
	return r.begin()
}

func (r *ByLanguage) Payload() map[string]interface{} {
	languages := r.site.SortedLanguages()
	items := make([]map[string]interface{}, 0, len(languages))
	for _, lang := range languages {
		locale := ParseLocale(lang)
		items = append(items, map[string]interface{}{
			"language":        locale.Lang,
			"displayLanguage": Locale{Lang: locale.Lang}.DisplayName(r.locale),
			"country":         locale.Region,
			"displayCountry":  locale.DisplayRegion(r.locale),
			"locale":          locale.String(),
			"displayName":     locale.DisplayName(r.locale),
			"availableEdit":   !r.site.IsLanguageInactive(lang),
			"availableLive":   !r.site.IsLiveLanguageInactive(lang),
		})
	}

	payload := r.basePayload()
	payload["languageItems"] = items
	return payload
}

// ------------------------------------------------------------------------------------------------
// ~ By language detailed
// ------------------------------------------------------------------------------------------------

// ByLanguageDetailed lists editorial content with its translation state
// for one requested language.
type ByLanguageDetailed struct {
	Base
	language string
	items    []map[string]interface{}
}

func (r *ByLanguageDetailed) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	r.fetch(ctx, session, r.scopeQuery(content.MixinEditorial, r.site.Root.Path), offset, limit, r.addItem)
	return nil
}

func (r *ByLanguageDetailed) addItem(node *content.Node) {
	translations := node.Translations()
	languages := make([]string, 0, len(translations))
	for lang := range translations {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	item := map[string]interface{}{
		"title":        node.PropertyString(content.PropTitle),
		"name":         node.Name,
		"displayTitle": r.displayName(node),
		"type":         shortType(node.Type),
		"typeName":     node.Type,
		"path":         node.Path,
		"identifier":   node.ID,
		"languages":    strings.Join(languages, ", "),
		"uniqueLang":   len(languages) == 1,
		"publishable":  !r.site.IsLiveLanguageInactive(r.language),
	}
	if translation := node.Translation(r.language); translation != nil {
		item["language"] = r.language
		item["path"] = translation.Path
		item["created"] = formatDay(translation.PropertyTime(content.PropCreated))
		item["lastModified"] = formatDay(translation.PropertyTime(content.PropLastModified))
		item["lastModifiedBy"] = translation.PropertyString(content.PropLastModifiedBy)
		item["published"] = translation.PropertyBool(content.PropPublished)
		item["langTitleOrText"] = translation.PropertyString(content.PropTitle)
	}
	r.items = append(r.items, item)
}

func (r *ByLanguageDetailed) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["language"] = r.language
	payload["items"] = emptyItems(r.items)
	return payload
}

// ------------------------------------------------------------------------------------------------
// ~ Untranslated content
// ------------------------------------------------------------------------------------------------

// untranslatedFillLimit result cap matching the external report contract
const untranslatedFillLimit = 1000

// Untranslated lists pages or editorial content lacking a translation into
// the requested language.
type Untranslated struct {
	Base
	scope    string
	pages    bool
	language string
	items    []map[string]interface{}
	total    int
}

func (r *Untranslated) Execute(ctx context.Context, session Session, offset, limit int) error {
	if err := r.begin(); err != nil {
		return err
	}
	nodeType := content.MixinEditorial
	if r.pages {
		nodeType = content.TypePage
	}
	r.fetchAll(ctx, session, r.scopeQuery(nodeType, r.scope), func(node *content.Node) {
		if node.Translation(r.language) != nil {
			return
		}
		r.total++
		if len(r.items) >= untranslatedFillLimit {
			return
		}
		r.items = append(r.items, map[string]interface{}{
			"title": r.displayName(node),
			"path":  node.Path,
			"type":  shortType(node.Type),
			"date":  formatDay(node.PropertyTime(content.PropCreated)),
		})
	})
	return nil
}

func (r *Untranslated) Payload() map[string]interface{} {
	payload := r.basePayload()
	payload["totalContent"] = r.total
	payload["items"] = emptyItems(r.items)
	return payload
}
