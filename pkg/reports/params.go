package reports

import (
	"strconv"
	"strings"
	"time"

	"github.com/foomo/contentreports/requests"
)

// parameter names of the external report contract
const (
	ParamPath            = "pathTxt"
	ParamSearchPath      = "searchPath"
	ParamPathOrigin      = "pathTxtOrigin"
	ParamPathDestination = "pathTxtDestination"
	ParamTypeSearch      = "typeSearch"
	ParamTypeAuthor      = "typeAuthor"
	ParamTypeAuthorText  = "typeAuthorSearch"
	ParamDate            = "date"
	ParamDateBegin       = "dateBegin"
	ParamDateEnd         = "dateEnd"
	ParamSearchByDate    = "searchByDate"
	ParamTypeDateSearch  = "typeDateSearch"
	ParamSearchAuthor    = "searchAuthor"
	ParamSearchUsername  = "searchUsername"
	ParamLanguage        = "language"
	ParamRequestLanguage = "reqLang"
	ParamSelectLanguage  = "selectLanguageBU"
	ParamSelectType      = "selectTypeSearch"
	ParamOrderColumn     = "order[0][column]"
	ParamOrderDirection  = "order[0][dir]"
)

// parameter values
const (
	TypeSearchPages   = "pages"
	DateSearchCreated = "created"
)

// incoming date parameter format
const paramDateFormat = "2006-01-02"

// Parameters an ordered report parameter list
type Parameters []requests.Parameter

// Get the value of the first parameter with the given name
func (p Parameters) Get(name string) string {
	for _, parameter := range p {
		if parameter.Name == name {
			return parameter.Value
		}
	}
	return ""
}

// Bool true if the parameter value is "true", case insensitive
func (p Parameters) Bool(name string) bool {
	return strings.EqualFold(p.Get(name), "true")
}

// Path the cleaned path parameter value, fallback if unset
func (p Parameters) Path(name, fallback string) string {
	if value := CleanPath(p.Get(name)); value != "" {
		return value
	}
	return fallback
}

// Time the parameter parsed as date, zero time if unset or unparsable
func (p Parameters) Time(name string) time.Time {
	value := p.Get(name)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(paramDateFormat, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}

// Int the parameter parsed as int, fallback if unset or unparsable
func (p Parameters) Int(name string, fallback int) int {
	if n, err := strconv.Atoi(p.Get(name)); err == nil {
		return n
	}
	return fallback
}

// IsPages does the type search parameter select pages
func (p Parameters) IsPages(name string) bool {
	return strings.EqualFold(p.Get(name), TypeSearchPages)
}

// IsCreated does the date type parameter select the creation date
func (p Parameters) IsCreated(name string) bool {
	return isCreated(p.Get(name))
}

func isCreated(v string) bool {
	return strings.EqualFold(v, DateSearchCreated)
}

// CleanPath strips single quotes from path values
func CleanPath(v string) string {
	return strings.ReplaceAll(v, "'", "")
}
