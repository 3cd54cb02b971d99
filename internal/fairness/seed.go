// Package fairness 可验证公平的种子与熵流。
//
// 服务端在旋转前公布服务端种子的SHA-256承诺，每次旋转的熵来自
// HKDF(服务端种子, 客户端种子, nonce)，轮换种子后公开原种子供玩家复算。
package fairness

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// ServerSeedBytes 服务端种子字节数
	ServerSeedBytes = 32
	// ClientSeedBytes 默认客户端种子字节数
	ClientSeedBytes = 16
	// MaxClientSeedLen 客户端种子最大长度
	MaxClientSeedLen = 64
)

var (
	ErrInvalidSeed  = errors.New("无效的种子")
	ErrSeedMismatch = errors.New("种子与承诺不匹配")
)

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("生成随机种子失败: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateServerSeed 生成32字节随机服务端种子（hex）
func GenerateServerSeed() (string, error) {
	return randomHex(ServerSeedBytes)
}

// GenerateClientSeed 生成默认客户端种子（hex）
func GenerateClientSeed() (string, error) {
	return randomHex(ClientSeedBytes)
}

// Commit 服务端种子的承诺值：hex(SHA-256(seed))
func Commit(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}

// VerifyCommitment 校验公开的服务端种子与之前公布的承诺是否一致
func VerifyCommitment(serverSeed, commitment string) error {
	got := Commit(serverSeed)
	if subtle.ConstantTimeCompare([]byte(got), []byte(commitment)) != 1 {
		return ErrSeedMismatch
	}
	return nil
}

// ValidateServerSeed 服务端种子必须是32字节的hex串
func ValidateServerSeed(seed string) error {
	b, err := hex.DecodeString(seed)
	if err != nil || len(b) != ServerSeedBytes {
		return fmt.Errorf("%w: 服务端种子必须为%d字节hex", ErrInvalidSeed, ServerSeedBytes)
	}
	return nil
}

// ValidateClientSeed 客户端种子非空且不超过最大长度
func ValidateClientSeed(seed string) error {
	if seed == "" || len(seed) > MaxClientSeedLen {
		return fmt.Errorf("%w: 客户端种子长度须在1到%d之间", ErrInvalidSeed, MaxClientSeedLen)
	}
	return nil
}
