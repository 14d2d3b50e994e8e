package presence

// SSETokenResponse represents the short-lived stream token response
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
