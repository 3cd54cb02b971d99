package slot

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	randv2 "math/rand/v2"
	"sort"
)

// Source 熵源，与math/rand/v2的Source约定一致
type Source interface {
	Uint64() uint64
}

// CryptoSource 基于crypto/rand的熵源，无状态，可并发使用
type CryptoSource struct{}

// NewCryptoSource 创建加密随机源
func NewCryptoSource() CryptoSource {
	return CryptoSource{}
}

// Uint64 读取8字节加密随机数
func (CryptoSource) Uint64() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("crypto/rand 读取失败: %v", err))
	}
	return binary.BigEndian.Uint64(b[:])
}

// NewSeededSource 创建可复现的PCG随机源，非并发安全
func NewSeededSource(seed1, seed2 uint64) Source {
	return randv2.NewPCG(seed1, seed2)
}

// uniform 无偏地返回[0, n)内的整数（拒绝采样）
func uniform(src Source, n uint64) uint64 {
	if n == 0 {
		panic("uniform: n 必须大于0")
	}
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		v := src.Uint64()
		if v < limit {
			return v % n
		}
	}
}

// Distribution 累积权重分布，构造后只读
type Distribution struct {
	symbols    []Symbol
	cumulative []uint64
	total      uint64
}

// NewDistribution 按目录定义顺序构建累积分布
func NewDistribution(catalog *Catalog) (*Distribution, error) {
	defs := catalog.Defs()
	d := &Distribution{
		symbols:    make([]Symbol, 0, len(defs)),
		cumulative: make([]uint64, 0, len(defs)),
	}
	for _, def := range defs {
		if def.Weight <= 0 {
			continue
		}
		d.total += uint64(def.Weight)
		d.symbols = append(d.symbols, def.Symbol)
		d.cumulative = append(d.cumulative, d.total)
	}
	if d.total == 0 {
		return nil, configErrorf("catalog", "总权重为0")
	}
	return d, nil
}

// Total 总权重
func (d *Distribution) Total() uint64 {
	return d.total
}

// Draw 把u∈[0,total)映射到累积区间包含u的符号
func (d *Distribution) Draw(u uint64) Symbol {
	if u >= d.total {
		panic(fmt.Sprintf("Draw: u=%d 超出范围 [0,%d)", u, d.total))
	}
	i := sort.Search(len(d.cumulative), func(i int) bool {
		return d.cumulative[i] > u
	})
	return d.symbols[i]
}

// Probability 符号出现概率
func (d *Distribution) Probability(s Symbol) float64 {
	var prev uint64
	for i, c := range d.cumulative {
		if d.symbols[i] == s {
			return float64(c-prev) / float64(d.total)
		}
		prev = c
	}
	return 0
}

// Generator 盘面生成器
type Generator struct {
	dist *Distribution
}

// NewGenerator 创建盘面生成器
func NewGenerator(catalog *Catalog) (*Generator, error) {
	dist, err := NewDistribution(catalog)
	if err != nil {
		return nil, err
	}
	return &Generator{dist: dist}, nil
}

// Distribution 返回底层分布
func (g *Generator) Distribution() *Distribution {
	return g.dist
}

// Generate 按列优先（逐卷轴、自上而下）独立抽取15个格子
func (g *Generator) Generate(src Source) Grid {
	var grid Grid
	for col := 0; col < Reels; col++ {
		for row := 0; row < Rows; row++ {
			grid[col][row] = g.dist.Draw(uniform(src, g.dist.total))
		}
	}
	return grid
}
