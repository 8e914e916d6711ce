// Package auth issues and parses the signed bearer tokens handed out on
// successful authentication.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the registered claims (sub, iat, exp) and the
// numeric account id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"id"`
}

var supportedMethods = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// SupportedAlgorithm reports whether alg names a symmetric signing method
// the issuer can use.
func SupportedAlgorithm(alg string) bool {
	_, ok := supportedMethods[alg]
	return ok
}

// Issuer signs and parses tokens with one symmetric secret and algorithm.
type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewIssuer validates the secret and algorithm and returns an Issuer.
func NewIssuer(secretKey []byte, algorithm string) (*Issuer, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("empty signing secret")
	}
	method, ok := supportedMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &Issuer{secret: secretKey, method: method, now: time.Now}, nil
}

// Issue returns a signed token for subjectID valid for validityDuration from
// now, and the expiry it carries. Timestamps have seconds resolution.
func (i *Issuer) Issue(subjectID int64, validityDuration time.Duration) (string, time.Time, error) {
	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(validityDuration)

	token := jwt.NewWithClaims(i.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: subjectID,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Parse verifies signature, algorithm and expiry of tokenString and returns
// its claims. Expired tokens yield common.ErrTokenExpired; every other failure
// yields common.ErrInvalidToken.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
