// Package mock provides a small content repository for tests.
package mock

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foomo/contentreports/content"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Now the evaluation time the mock content is built around
var Now = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

// GetMockData a server exposing the mock sites as JSON plus a temp dir
func GetMockData(tb testing.TB) (*httptest.Server, string) {
	tb.Helper()

	jsonBytes, err := json.Marshal(Sites())
	if err != nil {
		tb.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(time.Millisecond * 50)
		switch req.URL.Path {
		case "/missing":
			http.NotFound(w, req)
		case "/broken":
			_, _ = w.Write([]byte(`{"demo":`))
		case "/demo-only":
			demoBytes, err := json.Marshal(map[string]*content.Site{"demo": demoSite()})
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(demoBytes)
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(jsonBytes)
		}
	}))

	return server, tb.TempDir()
}

// Sites the mock site directory: a demo site with authored pages, visibility
// conditions, translations and users, plus a second site referenced across
// site boundaries
func Sites() map[string]*content.Site {
	return map[string]*content.Site{
		"demo":  demoSite(),
		"other": otherSite(),
	}
}

func demoSite() *content.Site {
	var (
		pageA = page("page-a", "a", "/demo/a", "alice", "2024-01-10T10:00:00Z")
		pageB = page("page-b", "b", "/demo/b", "alice", "2024-02-10T10:00:00Z")
		pageC = page("page-c", "c", "/demo/c", "alice", "2024-03-10T10:00:00Z")
		pageD = page("page-d", "d", "/demo/d", "bob", "2024-03-20T10:00:00Z")
		pageE = page("page-e", "e", "/demo/e", "bob", "2024-04-10T10:00:00Z")
	)

	// expired teaser, same name below two pages to exercise deduplication
	addChild(pageA, conditionedContent("teaser-a", "teaser", "/demo/a/teaser",
		dateCondition("cond-a", "/demo/a/teaser", "", "2024-01-01T00:00:00Z"),
	))
	addChild(pageB, conditionedContent("teaser-b", "teaser", "/demo/b/teaser",
		dateCondition("cond-b", "/demo/b/teaser", "", "2024-02-01T00:00:00Z"),
	))

	// expired by date but additionally constrained by a weekday condition
	promo := conditionedContent("promo-b", "promo", "/demo/b/promo",
		dateCondition("cond-promo-date", "/demo/b/promo", "", "2024-03-01T00:00:00Z"),
		node("cond-promo-day", "visible-on", "/demo/b/promo/visibility/visible-on", content.TypeDayOfWeekCondition, map[string]interface{}{
			content.PropDays: []string{"monday", "tuesday"},
		}),
	)
	addChild(pageB, promo)

	// not yet visible
	addChild(pageC, conditionedContent("banner-c", "banner", "/demo/c/banner",
		dateCondition("cond-c", "/demo/c/banner", "2024-12-01T00:00:00Z", ""),
	))

	// not yet visible by date but additionally constrained by a weekday condition
	addChild(pageC, conditionedContent("upcoming-c", "upcoming", "/demo/c/upcoming",
		dateCondition("cond-upcoming-date", "/demo/c/upcoming", "2024-11-01T00:00:00Z", ""),
		node("cond-upcoming-day", "fridays-only", "/demo/c/upcoming/visibility/fridays-only", content.TypeDayOfWeekCondition, map[string]interface{}{
			content.PropDays: []string{"friday"},
		}),
	))

	// currently visible and published
	intro := conditionedContent("intro-d", "intro", "/demo/d/intro",
		dateCondition("cond-d", "/demo/d/intro", "2024-01-01T00:00:00Z", "2024-12-31T00:00:00Z"),
	)
	intro.Properties[content.PropPublished] = true
	addChild(pageD, intro)

	// editorial content of a user that no longer exists
	addChild(pageE, editorialContent("note-e", "note", "/demo/e/note", "ghost"))

	// reference into the other site
	reference := node("ref-e", "press", "/demo/e/press", content.TypeContentReference, map[string]interface{}{
		content.PropReference: "other-article",
	})
	addChild(pageE, reference)

	users := node("users", "users", "/demo/users", content.TypeFolder, nil)
	addChild(users, node("user-alice", "alice", "/demo/users/alice", content.TypeUser, nil))
	addChild(users, node("user-bob", "bob", "/demo/users/bob", content.TypeUser, nil))

	root := node("root", "demo", "/demo", content.TypeFolder, nil)
	for _, childNode := range []*content.Node{pageA, pageB, pageC, pageD, pageE, users} {
		addChild(root, childNode)
	}

	return &content.Site{
		Key:                   "demo",
		Name:                  "demo",
		DisplayName:           "Demo Site",
		DefaultLanguage:       "en",
		Languages:             []string{"en", "de"},
		InactiveLiveLanguages: []string{"de"},
		Templates:             []string{"home", "article"},
		Root:                  root,
	}
}

func otherSite() *content.Site {
	article := editorialContent("other-article", "article", "/other/article", "alice")
	root := node("other-root", "other", "/other", content.TypeFolder, nil)
	addChild(root, article)

	return &content.Site{
		Key:             "other",
		Name:            "other",
		DisplayName:     "Other Site",
		DefaultLanguage: "en",
		Languages:       []string{"en"},
		Root:            root,
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Builders
// ------------------------------------------------------------------------------------------------

func node(id, name, path, nodeType string, properties map[string]interface{}) *content.Node {
	if properties == nil {
		properties = map[string]interface{}{}
	}
	return &content.Node{
		ID:         id,
		Name:       name,
		Path:       path,
		Type:       nodeType,
		Properties: properties,
		Nodes:      map[string]*content.Node{},
	}
}

func page(id, name, path, createdBy, created string) *content.Node {
	pageNode := node(id, name, path, content.TypePage, map[string]interface{}{
		content.PropCreatedBy:      createdBy,
		content.PropCreated:        created,
		content.PropLastModified:   created,
		content.PropLastModifiedBy: createdBy,
	})
	pageNode.Mixins = []string{content.MixinEditorial}

	translation := node(id+"-en", content.TranslationPrefix+"en", path+"/"+content.TranslationPrefix+"en", content.TypeTranslation, map[string]interface{}{
		content.PropTitle: "Title of " + name,
	})
	addChild(pageNode, translation)
	return pageNode
}

func editorialContent(id, name, path, createdBy string) *content.Node {
	contentNode := node(id, name, path, content.TypeContent, map[string]interface{}{
		content.PropCreatedBy:      createdBy,
		content.PropCreated:        "2024-04-01T10:00:00Z",
		content.PropLastModified:   "2024-04-02T10:00:00Z",
		content.PropLastModifiedBy: createdBy,
	})
	contentNode.Mixins = []string{content.MixinEditorial}
	return contentNode
}

func conditionedContent(id, name, path string, conditions ...*content.Node) *content.Node {
	contentNode := editorialContent(id, name, path, "alice")
	visibility := node(id+"-visibility", "visibility", path+"/visibility", content.TypeConditionalVisibility, nil)
	for _, condition := range conditions {
		addChild(visibility, condition)
	}
	addChild(contentNode, visibility)
	return contentNode
}

func dateCondition(id, parentPath, start, end string) *content.Node {
	properties := map[string]interface{}{}
	if start != "" {
		properties[content.PropStart] = start
	}
	if end != "" {
		properties[content.PropEnd] = end
	}
	return node(id, "date-range-"+id, parentPath+"/visibility/date-range-"+id, content.TypeStartEndDateCondition, properties)
}

func addChild(parent, child *content.Node) {
	parent.Nodes[child.Name] = child
	parent.Index = append(parent.Index, child.Name)
}
