package governance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	governancedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/governance"
)

////////////////////// Конфигурация DAO //////////////////////////

// InitDaoConfig создает конфиг один раз, вызвавший становится администратором
func (governanceUc *DefaultGovernanceUsecase) InitDaoConfig(ctx context.Context, caller domain.Principal, input *governancedto.InitDaoConfigInput) (*domain.DaoConfig, error) {
	if input.MinVoteDuration <= 0 || input.MinVoteDuration > input.MaxVoteDuration {
		return nil, domain.ErrInvalidWindow
	}
	if input.Treasury == "" {
		return nil, domain.ErrInvalidTreasury
	}

	now := governanceUc.clock.Now()
	cfg := &domain.DaoConfig{
		Admin:            caller.ID,
		Treasury:         input.Treasury,
		LightFee:         input.LightFee,
		MajorFee:         input.MajorFee,
		VoteFee:          input.VoteFee,
		MinVoteDuration:  input.MinVoteDuration,
		MaxVoteDuration:  input.MaxVoteDuration,
		EligibilityFlags: input.EligibilityFlags,
		ExecutionDelay:   domain.DefaultExecutionDelay,
		CancelGrace:      domain.DefaultCancelGrace,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	start := time.Now()
	err := governanceUc.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := governanceUc.governanceRepo.CreateDaoConfig(ctx, cfg); err != nil {
			return err
		}
		return governanceUc.outbox.AppendEvents(ctx, daoEvent(domain.EventDaoInitialized, now, map[string]any{
			"admin":             cfg.Admin,
			"treasury":          cfg.Treasury,
			"light_fee":         cfg.LightFee,
			"major_fee":         cfg.MajorFee,
			"vote_fee":          cfg.VoteFee,
			"min_vote_duration": cfg.MinVoteDuration.String(),
			"max_vote_duration": cfg.MaxVoteDuration.String(),
			"eligibility_flags": cfg.EligibilityFlags,
		}))
	})
	governanceUc.metrics.RecordOperation("governance", "init", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}
	governanceUc.logger.Info("dao initialized", slog.String("admin", cfg.Admin), slog.String("treasury", cfg.Treasury))
	return cfg, nil
}

// SetParams - частичное обновление, незаданные поля не меняются
func (governanceUc *DefaultGovernanceUsecase) SetParams(ctx context.Context, caller domain.Principal, input *governancedto.SetParamsInput) (*domain.DaoConfig, error) {
	return governanceUc.processConfigOperation(ctx, "set_params", caller,
		func(ctx context.Context, cfg *domain.DaoConfig, now time.Time) (*feeTransfer, []domain.Event, error) {
			changed := map[string]any{}
			if input.LightFee != nil {
				cfg.LightFee = *input.LightFee
				changed["light_fee"] = cfg.LightFee
			}
			if input.MajorFee != nil {
				cfg.MajorFee = *input.MajorFee
				changed["major_fee"] = cfg.MajorFee
			}
			if input.VoteFee != nil {
				cfg.VoteFee = *input.VoteFee
				changed["vote_fee"] = cfg.VoteFee
			}
			if input.MinVoteDuration != nil {
				cfg.MinVoteDuration = *input.MinVoteDuration
				changed["min_vote_duration"] = cfg.MinVoteDuration.String()
			}
			if input.MaxVoteDuration != nil {
				cfg.MaxVoteDuration = *input.MaxVoteDuration
				changed["max_vote_duration"] = cfg.MaxVoteDuration.String()
			}
			if input.EligibilityFlags != nil {
				cfg.EligibilityFlags = *input.EligibilityFlags
				changed["eligibility_flags"] = cfg.EligibilityFlags
			}
			if input.ExecutionDelay != nil {
				cfg.ExecutionDelay = *input.ExecutionDelay
				changed["execution_delay"] = cfg.ExecutionDelay.String()
			}
			if input.CancelGrace != nil {
				cfg.CancelGrace = *input.CancelGrace
				changed["cancel_grace"] = cfg.CancelGrace.String()
			}
			if cfg.MinVoteDuration <= 0 || cfg.MinVoteDuration > cfg.MaxVoteDuration {
				return nil, nil, domain.ErrInvalidWindow
			}
			if cfg.ExecutionDelay < 0 || cfg.CancelGrace < 0 {
				return nil, nil, domain.ErrInvalidWindow
			}
			return nil, []domain.Event{daoEvent(domain.EventDaoParamsUpdated, now, changed)}, nil
		})
}

func (governanceUc *DefaultGovernanceUsecase) SetPause(ctx context.Context, caller domain.Principal, paused bool) (*domain.DaoConfig, error) {
	cfg, err := governanceUc.processConfigOperation(ctx, "set_pause", caller,
		func(ctx context.Context, cfg *domain.DaoConfig, now time.Time) (*feeTransfer, []domain.Event, error) {
			cfg.Paused = paused
			return nil, []domain.Event{daoEvent(domain.EventDaoPauseChanged, now, map[string]any{"paused": paused})}, nil
		})
	if err != nil {
		return nil, err
	}
	governanceUc.logger.Warn("dao pause changed", slog.Bool("paused", paused), slog.String("admin", caller.ID))
	return cfg, nil
}

// SetMember регистрирует участника или меняет его премиум-статус и репутацию
func (governanceUc *DefaultGovernanceUsecase) SetMember(ctx context.Context, caller domain.Principal, input *governancedto.SetMemberInput) (*domain.Member, error) {
	if input.Account == "" {
		return nil, domain.ErrMemberNotFound
	}
	var member *domain.Member
	_, err := governanceUc.processConfigOperation(ctx, "set_member", caller,
		func(ctx context.Context, cfg *domain.DaoConfig, now time.Time) (*feeTransfer, []domain.Event, error) {
			existing, err := governanceUc.member(ctx, input.Account)
			if err != nil {
				return nil, nil, err
			}
			if existing == nil {
				existing = &domain.Member{Account: input.Account, JoinedAt: now}
			}
			if input.Premium != nil {
				existing.Premium = *input.Premium
			}
			if input.ReputationScore != nil {
				existing.ReputationScore = *input.ReputationScore
			}
			if err := governanceUc.governanceRepo.SaveMember(ctx, existing); err != nil {
				return nil, nil, fmt.Errorf("save member: %w", err)
			}
			member = existing
			return nil, []domain.Event{daoEvent(domain.EventMemberEligibilityUpdated, now, map[string]any{
				"account":          existing.Account,
				"premium":          existing.Premium,
				"reputation_score": existing.ReputationScore,
			})}, nil
		})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// WithdrawTreasury выводит средства казны по решению администратора
func (governanceUc *DefaultGovernanceUsecase) WithdrawTreasury(ctx context.Context, caller domain.Principal, input *governancedto.WithdrawTreasuryInput) error {
	if input.To == "" || input.Amount == 0 {
		return domain.ErrInvalidAmount
	}
	_, err := governanceUc.processConfigOperation(ctx, "withdraw_treasury", caller,
		func(ctx context.Context, cfg *domain.DaoConfig, now time.Time) (*feeTransfer, []domain.Event, error) {
			return &feeTransfer{From: cfg.Treasury, To: input.To, Amount: input.Amount},
				[]domain.Event{daoEvent(domain.EventTreasuryWithdrawn, now, map[string]any{
					"to":     input.To,
					"amount": input.Amount,
				})}, nil
		})
	if err != nil {
		return err
	}
	governanceUc.logger.Info("treasury withdrawn", slog.String("to", input.To), slog.Uint64("amount", input.Amount))
	return nil
}
