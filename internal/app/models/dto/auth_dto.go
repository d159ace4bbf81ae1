package dto

// LoginRequest carries credentials for token issuance.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"planning@secchub.edu"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// TokenResponse carries the issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn" example:"3600"`
	TokenType    string `json:"tokenType" example:"Bearer"`
}
