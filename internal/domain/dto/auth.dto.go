package dto

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	Status  string `json:"status"`
	Role    string `json:"role,omitempty"`
	Message string `json:"message"`
}
