package slot

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Engine 老虎机结果引擎：生成盘面、评估支付线、检测特殊功能。
// 构造后只读，可并发使用。
type Engine struct {
	tables    *Tables
	generator *Generator
	evaluator *LineEvaluator
	detector  *FeatureDetector
}

// NewEngine 创建老虎机引擎
func NewEngine(tables *Tables) (*Engine, error) {
	if tables == nil || tables.Catalog == nil || tables.PayTable == nil {
		return nil, configErrorf("tables", "游戏表为空")
	}
	tables = tables.clone()
	generator, err := NewGenerator(tables.Catalog)
	if err != nil {
		return nil, err
	}
	detector, err := NewFeatureDetector(tables.Catalog, tables.Features)
	if err != nil {
		return nil, err
	}
	return &Engine{
		tables:    tables,
		generator: generator,
		evaluator: NewLineEvaluator(tables.Catalog, tables.PayTable, tables.Paylines),
		detector:  detector,
	}, nil
}

// NewDefaultEngine 使用内置表创建引擎
func NewDefaultEngine() *Engine {
	e, err := NewEngine(DefaultTables())
	if err != nil {
		panic(err)
	}
	return e
}

// Tables 引擎使用的游戏表副本，修改副本不影响引擎
func (e *Engine) Tables() *Tables {
	return e.tables.clone()
}

// Spin 使用加密随机源执行一次旋转
func (e *Engine) Spin(bet decimal.Decimal) (*Outcome, error) {
	return e.SpinWith(bet, CryptoSource{})
}

// SpinWith 使用指定熵源执行一次旋转，相同熵源输出得到相同结果
func (e *Engine) SpinWith(bet decimal.Decimal, src Source) (*Outcome, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}
	grid := e.generator.Generate(src)
	return e.assemble(grid, bet), nil
}

// Evaluate 对给定盘面计算结果
func (e *Engine) Evaluate(grid Grid, bet decimal.Decimal) (*Outcome, error) {
	if err := validateBet(bet); err != nil {
		return nil, err
	}
	for col := 0; col < Reels; col++ {
		for row := 0; row < Rows; row++ {
			if s := grid[col][row]; !e.tables.Catalog.Contains(s) {
				return nil, fmt.Errorf("%w: 第%d行第%d列未知符号 %q", ErrInvalidGrid, row, col, s)
			}
		}
	}
	return e.assemble(grid, bet), nil
}

func (e *Engine) assemble(grid Grid, bet decimal.Decimal) *Outcome {
	winLines := e.evaluator.EvaluateAll(grid, bet)
	features := e.detector.Detect(grid)
	return newOutcome(grid, bet, winLines, features)
}

func validateBet(bet decimal.Decimal) error {
	if !bet.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidBet, bet.String())
	}
	return nil
}
