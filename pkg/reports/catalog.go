package reports

import (
	"strings"
	"time"

	"github.com/foomo/contentreports/content"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	// Catalog builds report aggregates from their external ids
	Catalog struct {
		l   *zap.Logger
		now func() time.Time
	}
	CatalogOption func(*Catalog)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewCatalog(l *zap.Logger, opts ...CatalogOption) *Catalog {
	inst := &Catalog{
		l:   l,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// CatalogWithNow pins the evaluation time, used by deterministic tests
func CatalogWithNow(v func() time.Time) CatalogOption {
	return func(o *Catalog) {
		o.now = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Build configures the report registered under id. Unknown ids fail with
// ErrUnknownReport.
func (c *Catalog) Build(site *content.Site, id string, params Parameters, language string, sortColumn *int, sortDirection string) (Aggregate, error) {
	var (
		base       = newBase(c.l, id, site, language, c.now())
		rootPath   = site.Root.Path
		sortCol    = resolveSortColumn(params, sortColumn)
		descending = resolveDescending(params, sortDirection)
	)

	switch id {
	case "1":
		return &ByAuthor{
			Base:          base,
			scope:         params.Path(ParamPath, rootPath),
			pages:         typeSearchType(params, ParamTypeSearch) == content.TypePage,
			byCreation:    params.IsCreated(ParamTypeAuthor),
			useSystemUser: true,
		}, nil
	case "2":
		return &ByAllDate{
			Base:          base,
			scope:         params.Path(ParamPath, rootPath),
			byCreation:    params.IsCreated(ParamTypeAuthor),
			useSystemUser: true,
		}, nil
	case "3":
		return &BeforeDate{
			Base:  base,
			scope: params.Path(ParamPath, rootPath),
			date:  params.Time(ParamDate),
		}, nil
	case "4":
		return &ByType{Base: base, scope: params.Path(ParamPath, rootPath)}, nil
	case "5":
		return &ByType{Base: base, scope: params.Path(ParamPath, rootPath), detailed: true}, nil
	case "6":
		return &ByStatus{Base: base, scope: params.Path(ParamPath, rootPath)}, nil
	case "7":
		return &ByLanguage{Base: base}, nil
	case "8":
		return &ByLanguageDetailed{
			Base:     base,
			language: requestedLanguage(params, base),
		}, nil
	case "10":
		return &TranslatedProperty{
			Base:     base,
			property: content.PropTitle,
			language: params.Get(ParamLanguage),
		}, nil
	case "11":
		return NewPagesWithoutKeyword(base, sortCol, descending), nil
	case "12":
		return &TranslatedProperty{
			Base:     base,
			property: content.PropDescription,
			language: params.Get(ParamLanguage),
		}, nil
	case "13":
		return &FromAnotherSite{Base: base}, nil
	case "14":
		return &OrphanContent{Base: base}, nil
	case "15":
		return NewLockedContent(base, sortCol, descending), nil
	case "16":
		return &WaitingPublication{Base: base, scope: rootPath}, nil
	case "17":
		return &Overview{Base: base}, nil
	case "18":
		return &CustomCacheContent{Base: base, sortCol: sortCol, descending: descending}, nil
	case "19":
		return &ACLInheritanceStopped{Base: base}, nil
	case "20":
		return NewByDateAndAuthor(base, params, sortCol, descending), nil
	case "21":
		return &Untranslated{
			Base:     base,
			scope:    params.Path(ParamPath, rootPath),
			pages:    typeSearchType(params, ParamSelectType) == content.TypePage,
			language: params.Get(ParamSelectLanguage),
		}, nil
	case "22":
		return NewWorkInProgress(base, params, sortCol, descending), nil
	case "23":
		return &DisplayLinks{
			Base:            base,
			originPath:      params.Path(ParamPathOrigin, rootPath),
			destinationPath: params.Path(ParamPathDestination, rootPath),
		}, nil
	case "24":
		return &MarkedForDeletion{
			Base:       base,
			scope:      params.Path(ParamPath, rootPath),
			pages:      typeSearchType(params, ParamTypeSearch) == content.TypePage,
			sortCol:    sortCol,
			descending: descending,
		}, nil
	case "25":
		return &LiveContent{Base: base, scope: params.Path(ParamSearchPath, rootPath)}, nil
	case "26":
		return &ExpiredContent{Base: base, scope: params.Path(ParamSearchPath, rootPath)}, nil
	case "27":
		return &FutureContent{Base: base, scope: params.Path(ParamSearchPath, rootPath)}, nil
	}
	return nil, errors.Wrap(ErrUnknownReport, id)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

// resolveSortColumn the explicit sort column, falling back to the table
// order parameter
func resolveSortColumn(params Parameters, sortColumn *int) int {
	if sortColumn != nil {
		return *sortColumn
	}
	return params.Int(ParamOrderColumn, 0)
}

func resolveDescending(params Parameters, sortDirection string) bool {
	if sortDirection == "" {
		sortDirection = params.Get(ParamOrderDirection)
	}
	return strings.EqualFold(sortDirection, "desc")
}

// requestedLanguage the language requested for the report, falling back to
// the resolved report locale
func requestedLanguage(params Parameters, base Base) string {
	if lang := params.Get(ParamRequestLanguage); lang != "" {
		return lang
	}
	return base.locale.Lang
}
