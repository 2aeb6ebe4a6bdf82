package responses

// Site a site summary without its content tree
type Site struct {
	Key             string   `json:"key"`
	Name            string   `json:"name"`
	DisplayName     string   `json:"displayName"`
	DefaultLanguage string   `json:"defaultLanguage"`
	Languages       []string `json:"languages"`
}
