package packets

// returned by signup and signin; the caller keeps access_token for the
// Authorization header on every protected request.
type AuthResponse struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	CreatedAt   string `json:"created_at"`
	AccessToken string `json:"access_token"`
}
