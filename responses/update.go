package responses

// Update - information about an update
type Update struct {
	// did it work or not
	Success bool `json:"success"`
	// this is for humans
	ErrorMessage string `json:"errorMessage"`
	Stats        Stats  `json:"stats"`
}

// Stats update statistics
type Stats struct {
	NumberOfNodes int `json:"numberOfNodes"`
	NumberOfSites int `json:"numberOfSites"`
	// seconds
	RepoRuntime float64 `json:"repoRuntime"`
	// seconds
	OwnRuntime float64 `json:"ownRuntime"`
}
