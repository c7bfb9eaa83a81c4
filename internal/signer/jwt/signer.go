package jwtsigner

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const pkg = "jwtSigner/"

type Signer struct {
	secret    []byte
	method    jwt.SigningMethod
	expiresIn time.Duration
}

type Config struct {
	Secret    string
	Algorithm string
	ExpiresIn time.Duration
}

func New(cfg Config) (*Signer, error) {
	op := pkg + "New"

	var method jwt.SigningMethod

	switch cfg.Algorithm {
	case "HS256", "":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%s: unsupported algorithm %q", op, cfg.Algorithm)
	}

	if cfg.Secret == "" {
		return nil, fmt.Errorf("%s: empty signing secret", op)
	}

	return &Signer{
		secret:    []byte(cfg.Secret),
		method:    method,
		expiresIn: cfg.ExpiresIn,
	}, nil
}

// Sign produces a time-bound token over the payload claims.
func (s *Signer) Sign(payload map[string]any) (string, error) {
	op := pkg + "Sign"

	claims := jwt.MapClaims{}

	for k, v := range payload {
		claims[k] = v
	}

	if s.expiresIn > 0 {
		claims["exp"] = time.Now().Add(s.expiresIn).Unix()
	}

	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}
