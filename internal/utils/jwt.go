package utils // token helpers for anonymous player identities

import (
    "crypto/rand"
    "encoding/hex"
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// playerClaim marks a token as a player token; anything else is rejected.
const playerClaim = "player"

// PlayerToken is a signed player identity together with its expiry.  One
// token corresponds to one browser profile: the client stores it and sends
// it as a Bearer token on every call.
type PlayerToken struct {
    Token    string    // serialized JWT
    PlayerID string    // the identity the token carries
    Exp      time.Time // UTC expiration time
}

// NewPlayerID returns a fresh random 32-character player identifier.
func NewPlayerID() (string, error) {
    buf := make([]byte, 16)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}

// NewPlayerToken builds and signs an HS256 JWT for a player.  Claims:
// subject (sub) = player ID, kind = "player", exp and iat.  Player tokens
// live long (ttlDays) because losing one means losing the stats history.
func NewPlayerToken(secret, playerID string, ttlDays int) (PlayerToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "sub":  playerID,
        "kind": playerClaim,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return PlayerToken{}, err
    }
    return PlayerToken{Token: signed, PlayerID: playerID, Exp: exp}, nil
}

// ParsePlayerToken validates a raw token and returns the player ID it
// carries.  Only HMAC-signed tokens with the player kind are accepted.
func ParsePlayerToken(secret, raw string) (string, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errors.New("unexpected signing method")
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return "", errors.New("invalid token")
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return "", errors.New("invalid claims")
    }
    if kind, _ := claims["kind"].(string); kind != playerClaim {
        return "", errors.New("not a player token")
    }
    sub, _ := claims["sub"].(string)
    if sub == "" {
        return "", errors.New("missing subject")
    }
    return sub, nil
}
