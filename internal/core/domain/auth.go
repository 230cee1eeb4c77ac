package domain

// TokenClaims is the payload of an operational API token.
// The mirror has no user accounts; tokens identify the calling system.
type TokenClaims struct {
	Subject   string `json:"subject"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}
