package employee

// PositionResponse is one entry of the admin live-map seed.
type PositionResponse struct {
	EmployeeID string  `json:"employee_id"`
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	SiteID     *string `json:"site_id,omitempty"`
	SiteName   *string `json:"site_name,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	IsOnSite   bool    `json:"is_on_site"`
	RecordedAt string  `json:"recorded_at"`
}

// ListPositionsResponse wraps the live-map seed payload.
type ListPositionsResponse struct {
	TotalCount int                `json:"total_count"`
	Positions  []PositionResponse `json:"positions"`
}
