package content

import "sort"

// Site a content site with its language configuration and content tree
type Site struct {
	Key                   string   `json:"key"`
	Name                  string   `json:"name"`
	DisplayName           string   `json:"displayName"`
	DefaultLanguage       string   `json:"defaultLanguage"`
	Languages             []string `json:"languages"`
	InactiveLanguages     []string `json:"inactiveLanguages,omitempty"`
	InactiveLiveLanguages []string `json:"inactiveLiveLanguages,omitempty"`
	Templates             []string `json:"templates,omitempty"`
	Root                  *Node    `json:"root"`
}

// SortedLanguages the configured languages in stable order
func (s *Site) SortedLanguages() []string {
	languages := make([]string, len(s.Languages))
	copy(languages, s.Languages)
	sort.Strings(languages)
	return languages
}

// IsLanguageInactive is editing disabled for the language
func (s *Site) IsLanguageInactive(lang string) bool {
	for _, inactive := range s.InactiveLanguages {
		if inactive == lang {
			return true
		}
	}
	return false
}

// IsLiveLanguageInactive is the live workspace disabled for the language
func (s *Site) IsLiveLanguageInactive(lang string) bool {
	for _, inactive := range s.InactiveLiveLanguages {
		if inactive == lang {
			return true
		}
	}
	return false
}
