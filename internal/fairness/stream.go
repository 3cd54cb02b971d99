package fairness

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/hkdf"

	"github.com/wfunc/slot-engine/internal/game/slot"
)

// Stream 单次旋转的确定性熵流，实现slot.Source。非并发安全。
//
//	prk     = HKDF-Extract(SHA-256, ikm=serverSeed, salt=clientSeed)
//	block k = HKDF-Expand(prk, info="slot-spin:<nonce>:<k>")
//
// 每个块最多输出255*32字节，读完后自动切换到下一个块。
type Stream struct {
	prk   []byte
	nonce uint64
	block uint64
	r     io.Reader
	buf   [8]byte
}

// NewStream 创建熵流
func NewStream(serverSeed, clientSeed string, nonce uint64) *Stream {
	s := &Stream{
		prk:   hkdf.Extract(sha256.New, []byte(serverSeed), []byte(clientSeed)),
		nonce: nonce,
	}
	s.r = s.expand()
	return s
}

func (s *Stream) expand() io.Reader {
	info := fmt.Sprintf("slot-spin:%d:%d", s.nonce, s.block)
	return hkdf.Expand(sha256.New, s.prk, []byte(info))
}

// Uint64 返回下一个大端序8字节字
func (s *Stream) Uint64() uint64 {
	for {
		if _, err := io.ReadFull(s.r, s.buf[:]); err == nil {
			return binary.BigEndian.Uint64(s.buf[:])
		}
		// 当前块耗尽（块长度是8的整数倍，不会跨块拼接）
		s.block++
		s.r = s.expand()
	}
}

// Verify 使用公开的种子重新计算某次旋转的结果
func Verify(engine *slot.Engine, serverSeed, clientSeed string, nonce uint64, bet decimal.Decimal) (*slot.Outcome, error) {
	if err := ValidateServerSeed(serverSeed); err != nil {
		return nil, err
	}
	if err := ValidateClientSeed(clientSeed); err != nil {
		return nil, err
	}
	return engine.SpinWith(bet, NewStream(serverSeed, clientSeed, nonce))
}
