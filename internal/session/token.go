package session

import (
	"github.com/google/uuid"

	"go-dairy-ledger/pkg/jwt"
)

// CookieName holds the signed session token.
const CookieName = "dairy_session"

// Encode signs the identity into a session token.
func Encode(signer *jwt.Signer, i Identity) (string, error) {
	var adminID, dairyID string
	if i.AdminID != nil {
		adminID = i.AdminID.String()
	}
	if i.DairyID != nil {
		dairyID = i.DairyID.String()
	}
	return signer.GenerateToken(adminID, dairyID, i.DairyName, i.Username)
}

// Decode verifies a session token and rebuilds the identity it carries.
func Decode(signer *jwt.Signer, token string) (Identity, error) {
	claims, err := signer.ValidateToken(token)
	if err != nil {
		return Identity{}, err
	}

	var i Identity
	if claims.AdminID != "" {
		id, err := uuid.Parse(claims.AdminID)
		if err != nil {
			return Identity{}, jwt.ErrInvalidToken
		}
		i.AdminID = &id
	}
	if claims.DairyID != "" {
		id, err := uuid.Parse(claims.DairyID)
		if err != nil {
			return Identity{}, jwt.ErrInvalidToken
		}
		i.DairyID = &id
	}
	i.DairyName = claims.DairyName
	i.Username = claims.Username
	return i, nil
}
