package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

// JWTTestSuite JWT工具测试套件
type JWTTestSuite struct {
	suite.Suite
	manager *JWTManager
}

func (suite *JWTTestSuite) SetupTest() {
	suite.manager = NewJWTManager("test-secret-key", "slot-engine", time.Hour)
}

// 测试生成并验证令牌
func (suite *JWTTestSuite) TestGenerateAndValidate() {
	token, err := suite.manager.GenerateToken("player-789")
	suite.NoError(err)
	suite.NotEmpty(token)

	claims, err := suite.manager.ValidateToken(token)
	suite.NoError(err)
	suite.Equal("player-789", claims.PlayerID)
	suite.Equal("player-789", claims.Subject)
	suite.Equal(time.Hour, suite.manager.GetTokenExpiry())
}

// 测试验证无效令牌
func (suite *JWTTestSuite) TestValidateInvalidToken() {
	// 无效格式的令牌
	claims, err := suite.manager.ValidateToken("invalid.token.format")
	suite.Error(err)
	suite.Nil(claims)

	// 错误的签名
	wrongManager := NewJWTManager("wrong-secret", "slot-engine", time.Hour)
	token, _ := wrongManager.GenerateToken("player-1")
	claims, err = suite.manager.ValidateToken(token)
	suite.Error(err)
	suite.Nil(claims)
}

// 测试签发者不匹配
func (suite *JWTTestSuite) TestWrongIssuer() {
	other := NewJWTManager("test-secret-key", "someone-else", time.Hour)
	token, _ := other.GenerateToken("player-1")
	_, err := suite.manager.ValidateToken(token)
	suite.Error(err)

	// 不配置签发者时不校验
	lenient := NewJWTManager("test-secret-key", "", time.Hour)
	claims, err := lenient.ValidateToken(token)
	suite.NoError(err)
	suite.Equal("player-1", claims.PlayerID)
}

// 测试过期令牌
func (suite *JWTTestSuite) TestExpiredToken() {
	expiredManager := NewJWTManager("test-secret-key", "slot-engine", -time.Hour)
	token, _ := expiredManager.GenerateToken("expired")

	claims, err := suite.manager.ValidateToken(token)
	suite.ErrorIs(err, ErrExpiredToken)
	suite.Nil(claims)
}

// 测试拒绝非HS256算法
func (suite *JWTTestSuite) TestRejectOtherAlgorithm() {
	claims := &PlayerClaims{
		PlayerID:         "player-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "slot-engine"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret-key"))
	suite.Require().NoError(err)

	_, err = suite.manager.ValidateToken(token)
	suite.Error(err)
}

// 测试只有sub的令牌
func (suite *JWTTestSuite) TestSubjectFallback() {
	claims := jwt.RegisteredClaims{
		Issuer:    "slot-engine",
		Subject:   "player-sub",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
	suite.Require().NoError(err)

	parsed, err := suite.manager.ValidateToken(token)
	suite.NoError(err)
	suite.Equal("player-sub", parsed.PlayerID)

	// 两者都没有
	claims.Subject = ""
	token, _ = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
	_, err = suite.manager.ValidateToken(token)
	suite.ErrorIs(err, ErrMissingPlayer)
}

// 测试并发生成令牌
func (suite *JWTTestSuite) TestConcurrentTokenGeneration() {
	done := make(chan bool, 10)

	for i := 0; i < 10; i++ {
		go func(id int) {
			token, err := suite.manager.GenerateToken(fmt.Sprintf("player-%d", id))
			suite.NoError(err)
			suite.NotEmpty(token)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestJWTSuite(t *testing.T) {
	suite.Run(t, new(JWTTestSuite))
}
