package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wfunc/slot-engine/internal/errors"
	"github.com/wfunc/slot-engine/internal/fairness"
	"github.com/wfunc/slot-engine/internal/game/slot"
	"github.com/wfunc/slot-engine/internal/logger"
	"github.com/wfunc/slot-engine/internal/metrics"
	"github.com/wfunc/slot-engine/internal/models"
	"github.com/wfunc/slot-engine/internal/repository"
)

// 推送消息类型，与websocket包保持一致
const (
	messageSpinResult  = "spin_result"
	messageSeedRotated = "seed_rotated"
)

// spinService 旋转服务实现
type spinService struct {
	repos     *repository.Manager
	engine    atomic.Pointer[slot.Engine]
	cfg       atomic.Pointer[Config]
	metrics   *metrics.Metrics
	publisher Publisher
	log       *zap.Logger
}

// NewSpinService 创建旋转服务
func NewSpinService(repos *repository.Manager, engine *slot.Engine, cfg *Config, m *metrics.Metrics, publisher Publisher) (SpinService, error) {
	if engine == nil {
		return nil, &slot.ConfigError{Component: "engine", Reason: "引擎为空"}
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &spinService{
		repos:     repos,
		metrics:   m,
		publisher: publisher,
		log:       logger.GetModuleLogger("service"),
	}
	if err := s.storeConfig(cfg); err != nil {
		return nil, err
	}
	s.engine.Store(engine)
	return s, nil
}

// Spin 使用玩家当前种子对执行一次旋转并持久化
func (s *spinService) Spin(ctx context.Context, playerID string, bet decimal.Decimal) (*SpinReceipt, error) {
	if err := s.checkBet(bet); err != nil {
		s.metrics.ObserveSpinError("invalid_bet")
		return nil, err
	}
	engine := s.engine.Load()

	var (
		receipt *SpinReceipt
		record  *models.SpinRecord
	)
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		pair, err := s.activePair(ctx, tx.SeedPairs(), playerID)
		if err != nil {
			return err
		}
		nonce, err := tx.SeedPairs().ConsumeNonce(ctx, pair.ID)
		if err != nil {
			// 种子对在旋转过程中被轮换时同样可重试
			return errors.Wrapf(err, errors.ErrTransaction, "占用nonce失败: seed_pair=%d", pair.ID)
		}

		outcome, err := engine.SpinWith(bet, fairness.NewStream(pair.ServerSeed, pair.ClientSeed, nonce))
		if err != nil {
			return err
		}
		payload, err := json.Marshal(outcome)
		if err != nil {
			return fmt.Errorf("序列化结果失败: %w", err)
		}

		record = &models.SpinRecord{
			SpinID:           uuid.NewString(),
			PlayerID:         playerID,
			SeedPairID:       pair.ID,
			ServerSeedHash:   pair.ServerSeedHash,
			ClientSeed:       pair.ClientSeed,
			Nonce:            nonce,
			Bet:              outcome.Bet(),
			TotalWin:         outcome.TotalWin(),
			WinLines:         len(outcome.WinLines()),
			ScatterCount:     outcome.ScatterCount(),
			BonusCount:       outcome.BonusCount(),
			FreeSpinsAwarded: outcome.FreeSpinsAwarded(),
			BonusTriggered:   outcome.BonusTriggered(),
			Outcome:          models.RawJSON(payload),
		}
		if err := tx.SpinRecords().Create(ctx, record); err != nil {
			return errors.Wrap(err, errors.ErrDatabaseInsert, "保存旋转记录失败")
		}

		receipt = &SpinReceipt{
			SpinID:         record.SpinID,
			Outcome:        outcome,
			ServerSeedHash: pair.ServerSeedHash,
			ClientSeed:     pair.ClientSeed,
			Nonce:          nonce,
			CreatedAt:      record.CreatedAt,
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveSpinError("internal")
		return nil, err
	}

	outcome := receipt.Outcome
	s.metrics.ObserveSpin(outcome.Bet(), outcome.TotalWin(), outcome.FreeSpinsAwarded(), outcome.BonusTriggered())
	logger.LogSpin(record.SpinID, playerID, record.Nonce, record.Bet, record.TotalWin, record.WinLines)
	s.publish(playerID, messageSpinResult, receipt)

	return receipt, nil
}

// CurrentSeed 返回玩家当前种子对，没有时创建
func (s *spinService) CurrentSeed(ctx context.Context, playerID string) (*SeedInfo, error) {
	var info *SeedInfo
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		pair, err := s.activePair(ctx, tx.SeedPairs(), playerID)
		if err != nil {
			return err
		}
		info = seedInfo(pair)
		return nil
	})
	return info, err
}

// RotateSeed 公开当前服务端种子并启用新的种子对，clientSeed为空时使用默认值
func (s *spinService) RotateSeed(ctx context.Context, playerID, clientSeed string) (*SeedRotation, error) {
	if clientSeed != "" {
		if err := fairness.ValidateClientSeed(clientSeed); err != nil {
			return nil, err
		}
	}

	rotation := &SeedRotation{}
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		seeds := tx.SeedPairs()
		old, err := seeds.FindActive(ctx, playerID)
		switch {
		case err == nil:
			now := time.Now()
			if err := seeds.Reveal(ctx, old.ID, now); err != nil {
				return errors.Wrapf(err, errors.ErrTransaction, "公开种子对失败: seed_pair=%d", old.ID)
			}
			rotation.Previous = &RevealedSeed{
				ServerSeed:     old.ServerSeed,
				ServerSeedHash: old.ServerSeedHash,
				ClientSeed:     old.ClientSeed,
				Spins:          old.Nonce,
				RevealedAt:     now,
			}
		case stderrors.Is(err, repository.ErrSeedPairNotFound):
			// 首次使用，直接创建
		default:
			return errors.Wrap(err, errors.ErrDatabaseQuery, "查询激活种子对失败")
		}

		pair, err := s.newPair(playerID, clientSeed)
		if err != nil {
			return err
		}
		if err := seeds.Create(ctx, pair); err != nil {
			return errors.Wrap(err, errors.ErrDatabaseInsert, "保存种子对失败")
		}
		rotation.Current = seedInfo(pair)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveSeedRotation()
	if rotation.Previous != nil {
		logger.LogSeedRotation(playerID, rotation.Previous.ServerSeedHash, rotation.Current.ServerSeedHash, rotation.Previous.Spins)
	}
	s.publish(playerID, messageSeedRotated, rotation)
	return rotation, nil
}

// RevealedSeeds 分页查询已公开的种子对
func (s *spinService) RevealedSeeds(ctx context.Context, playerID string, page, pageSize int) (*SeedPage, error) {
	p := repository.NewPagination(page, pageSize)
	pairs, err := s.repos.SeedPairs().FindRevealed(ctx, playerID, p)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}

	items := make([]*RevealedSeed, 0, len(pairs))
	for _, pair := range pairs {
		item := &RevealedSeed{
			ServerSeed:     pair.ServerSeed,
			ServerSeedHash: pair.ServerSeedHash,
			ClientSeed:     pair.ClientSeed,
			Spins:          pair.Nonce,
		}
		if pair.RevealedAt != nil {
			item.RevealedAt = *pair.RevealedAt
		}
		items = append(items, item)
	}
	return &SeedPage{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
	}, nil
}

// Verify 用公开的种子重算结果，提供哈希时同时校验承诺
func (s *spinService) Verify(_ context.Context, req *VerifyRequest) (*VerifyResult, error) {
	if req.ServerSeedHash != "" {
		if err := fairness.VerifyCommitment(req.ServerSeed, req.ServerSeedHash); err != nil {
			return nil, err
		}
	}

	outcome, err := fairness.Verify(s.engine.Load(), req.ServerSeed, req.ClientSeed, req.Nonce, req.Bet)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		ServerSeedHash: fairness.Commit(req.ServerSeed),
		Outcome:        outcome,
	}, nil
}

// History 分页查询旋转记录
func (s *spinService) History(ctx context.Context, playerID string, page, pageSize int) (*HistoryPage, error) {
	p := repository.NewPagination(page, pageSize)
	records, err := s.repos.SpinRecords().FindByPlayer(ctx, playerID, p)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}
	if records == nil {
		records = []*models.SpinRecord{}
	}
	return &HistoryPage{
		Items:      records,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
	}, nil
}

// GetSpin 查询玩家自己的一条旋转记录
func (s *spinService) GetSpin(ctx context.Context, playerID, spinID string) (*models.SpinRecord, error) {
	record, err := s.repos.SpinRecords().FindBySpinID(ctx, spinID)
	if err != nil {
		return nil, err
	}
	if record.PlayerID != playerID {
		return nil, repository.ErrSpinRecordNotFound
	}
	return record, nil
}

// Stats 玩家旋转统计
func (s *spinService) Stats(ctx context.Context, playerID string) (*repository.SpinStatistics, error) {
	stats, err := s.repos.SpinRecords().GetPlayerStatistics(ctx, playerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery)
	}
	return stats, nil
}

// Tables 当前配置表
func (s *spinService) Tables() *TablesInfo {
	cfg := s.cfg.Load()
	return &TablesInfo{
		Tables:     s.engine.Load().Tables().Spec(),
		MinBet:     cfg.MinBet,
		MaxBet:     cfg.MaxBet,
		DefaultBet: cfg.DefaultBet,
	}
}

// ReloadTables 用新表替换引擎，失败时保留原引擎
func (s *spinService) ReloadTables(tables *slot.Tables) error {
	engine, err := slot.NewEngine(tables)
	s.metrics.ObserveTableReload(err)
	if err != nil {
		s.log.Error("重载游戏表失败，继续使用原配置", zap.Error(err))
		return err
	}
	s.engine.Store(engine)
	s.log.Info("游戏表已重载", zap.Int("symbols", len(tables.Catalog.Symbols())))
	return nil
}

// UpdateConfig 热更新下注范围和默认种子，校验失败时保留原配置
func (s *spinService) UpdateConfig(cfg *Config) error {
	if err := s.storeConfig(cfg); err != nil {
		s.log.Error("更新服务配置失败，继续使用原配置", zap.Error(err))
		return err
	}
	s.log.Info("服务配置已更新",
		zap.String("min_bet", cfg.MinBet.String()),
		zap.String("max_bet", cfg.MaxBet.String()),
		zap.String("default_bet", s.cfg.Load().DefaultBet.String()))
	return nil
}

// storeConfig 校验并保存配置副本
func (s *spinService) storeConfig(cfg *Config) error {
	c := *cfg
	if err := c.Validate(); err != nil {
		return err
	}
	s.cfg.Store(&c)
	return nil
}

// checkBet 校验下注范围
func (s *spinService) checkBet(bet decimal.Decimal) error {
	cfg := s.cfg.Load()
	if bet.LessThan(cfg.MinBet) || bet.GreaterThan(cfg.MaxBet) {
		return fmt.Errorf("%w: %s 不在 [%s, %s] 内", slot.ErrInvalidBet, bet, cfg.MinBet, cfg.MaxBet)
	}
	return nil
}

// activePair 获取激活的种子对，没有时创建
func (s *spinService) activePair(ctx context.Context, seeds repository.SeedPairRepository, playerID string) (*models.SeedPair, error) {
	pair, err := seeds.FindActive(ctx, playerID)
	if err == nil {
		return pair, nil
	}
	if !stderrors.Is(err, repository.ErrSeedPairNotFound) {
		return nil, err
	}

	pair, err = s.newPair(playerID, "")
	if err != nil {
		return nil, err
	}
	if err := seeds.Create(ctx, pair); err != nil {
		return nil, errors.Wrap(err, errors.ErrDatabaseInsert, "保存种子对失败")
	}
	s.log.Info("创建种子对",
		zap.String("player_id", playerID),
		zap.String("server_seed_hash", pair.ServerSeedHash))
	return pair, nil
}

// newPair 生成新的种子对（未入库）
func (s *spinService) newPair(playerID, clientSeed string) (*models.SeedPair, error) {
	serverSeed, err := fairness.GenerateServerSeed()
	if err != nil {
		return nil, err
	}
	if clientSeed == "" {
		clientSeed = s.cfg.Load().ClientSeedDefault
	}
	if clientSeed == "" {
		if clientSeed, err = fairness.GenerateClientSeed(); err != nil {
			return nil, err
		}
	}
	return &models.SeedPair{
		PlayerID:       playerID,
		ServerSeed:     serverSeed,
		ServerSeedHash: fairness.Commit(serverSeed),
		ClientSeed:     clientSeed,
		Active:         true,
	}, nil
}

// publish 推送给在线玩家，失败只记录日志
func (s *spinService) publish(playerID, msgType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishToPlayer(playerID, msgType, data); err != nil {
		s.log.Debug("推送失败",
			zap.String("player_id", playerID),
			zap.String("type", msgType),
			zap.Error(err))
	}
}

func seedInfo(pair *models.SeedPair) *SeedInfo {
	return &SeedInfo{
		ServerSeedHash: pair.ServerSeedHash,
		ClientSeed:     pair.ClientSeed,
		Nonce:          pair.Nonce,
	}
}
