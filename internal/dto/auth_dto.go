package dto

// LoginRequest is the POST /api/login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the POST /api/register payload. Registration always
// creates a teacher account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// FirstSetupResponse answers GET /api/check-first-setup.
type FirstSetupResponse struct {
	NeedsFirstSetup bool `json:"needsFirstSetup"`
}
