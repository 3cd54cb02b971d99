package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrMissingPlayer = errors.New("token has no player id")
)

// PlayerClaims 玩家令牌Claims
type PlayerClaims struct {
	PlayerID string `json:"player_id"`
	jwt.RegisteredClaims
}

// JWTManager JWT管理器，只接受HS256
type JWTManager struct {
	secretKey   string
	issuer      string
	tokenExpiry time.Duration
}

// NewJWTManager 创建JWT管理器，issuer为空时不校验签发者
func NewJWTManager(secretKey, issuer string, expiry time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:   secretKey,
		issuer:      issuer,
		tokenExpiry: expiry,
	}
}

// GenerateToken 为玩家生成访问令牌
func (j *JWTManager) GenerateToken(playerID string) (string, error) {
	now := time.Now()
	claims := &PlayerClaims{
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   playerID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ValidateToken 验证令牌并返回Claims
func (j *JWTManager) ValidateToken(tokenString string) (*PlayerClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.secretKey), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, err
	}

	claims, ok := token.Claims.(*PlayerClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// 兼容只填sub的签发方
	if claims.PlayerID == "" {
		claims.PlayerID = claims.Subject
	}
	if claims.PlayerID == "" {
		return nil, ErrMissingPlayer
	}

	return claims, nil
}

// GetTokenExpiry 获取令牌有效期
func (j *JWTManager) GetTokenExpiry() time.Duration {
	return j.tokenExpiry
}
