package grpcapi

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/grpcapi/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	governancedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/governance"
	"google.golang.org/grpc"
)

const GovernanceServiceName = "escrow.v1.GovernanceService"

type GovernanceHandler struct {
	governanceUsecase usecase.GovernanceUsecase
}

func NewGovernanceHandler(governanceUsecase usecase.GovernanceUsecase) *GovernanceHandler {
	return &GovernanceHandler{governanceUsecase: governanceUsecase}
}

// Длительности передаются в секундах
type initDaoConfigRequest struct {
	Treasury               string `json:"treasury"`
	LightFee               uint64 `json:"light_fee"`
	MajorFee               uint64 `json:"major_fee"`
	VoteFee                uint64 `json:"vote_fee"`
	MinVoteDurationSeconds int64  `json:"min_vote_duration_seconds"`
	MaxVoteDurationSeconds int64  `json:"max_vote_duration_seconds"`
	EligibilityFlags       uint8  `json:"eligibility_flags"`
}

type setParamsRequest struct {
	LightFee               *uint64 `json:"light_fee"`
	MajorFee               *uint64 `json:"major_fee"`
	VoteFee                *uint64 `json:"vote_fee"`
	MinVoteDurationSeconds *int64  `json:"min_vote_duration_seconds"`
	MaxVoteDurationSeconds *int64  `json:"max_vote_duration_seconds"`
	EligibilityFlags       *uint8  `json:"eligibility_flags"`
	ExecutionDelaySeconds  *int64  `json:"execution_delay_seconds"`
	CancelGraceSeconds     *int64  `json:"cancel_grace_seconds"`
}

type setPauseRequest struct {
	Paused bool `json:"paused"`
}

type setMemberRequest struct {
	Account         string  `json:"account"`
	Premium         *bool   `json:"premium"`
	ReputationScore *uint64 `json:"reputation_score"`
}

type withdrawTreasuryRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type createProposalRequest struct {
	Kind string `json:"kind"`
	URI  string `json:"uri"`
	// hex, 32 байта
	TitleHash     string `json:"title_hash"`
	WindowSeconds int64  `json:"window_seconds"`
}

type castVoteRequest struct {
	ProposalID uint64 `json:"proposal_id"`
	Choice     string `json:"choice"`
}

type proposalIDRequest struct {
	ProposalID uint64 `json:"proposal_id"`
}

type listProposalsRequest struct {
	Creator string   `json:"creator"`
	States  []string `json:"states"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}

func (h *GovernanceHandler) Desc() grpc.ServiceDesc {
	return serviceDesc(GovernanceServiceName, []method{
		{"InitDaoConfig", unary(h.InitDaoConfig)},
		{"SetParams", unary(h.SetParams)},
		{"SetPause", unary(h.SetPause)},
		{"SetMember", unary(h.SetMember)},
		{"WithdrawTreasury", unary(h.WithdrawTreasury)},
		{"CreateProposal", unary(h.CreateProposal)},
		{"CastVote", unary(h.CastVote)},
		{"FinalizeProposal", unary(h.FinalizeProposal)},
		{"CancelProposal", unary(h.CancelProposal)},
		{"ExecuteProposal", unary(h.ExecuteProposal)},
		{"GetDaoConfig", unary(h.GetDaoConfig)},
		{"GetProposal", unary(h.GetProposal)},
		{"ListProposals", unary(h.ListProposals)},
	})
}

func seconds(s int64) time.Duration {
	return time.Duration(s) * time.Second
}

func optionalSeconds(s *int64) *time.Duration {
	if s == nil {
		return nil
	}
	d := seconds(*s)
	return &d
}

func (h *GovernanceHandler) InitDaoConfig(ctx context.Context, r *initDaoConfigRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := h.governanceUsecase.InitDaoConfig(ctx, caller, &governancedto.InitDaoConfigInput{
		Treasury:         r.Treasury,
		LightFee:         r.LightFee,
		MajorFee:         r.MajorFee,
		VoteFee:          r.VoteFee,
		MinVoteDuration:  seconds(r.MinVoteDurationSeconds),
		MaxVoteDuration:  seconds(r.MaxVoteDurationSeconds),
		EligibilityFlags: r.EligibilityFlags,
	})
	if err != nil {
		return nil, err
	}
	return mappers.DaoConfigToMap(cfg), nil
}

func (h *GovernanceHandler) SetParams(ctx context.Context, r *setParamsRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := h.governanceUsecase.SetParams(ctx, caller, &governancedto.SetParamsInput{
		LightFee:         r.LightFee,
		MajorFee:         r.MajorFee,
		VoteFee:          r.VoteFee,
		MinVoteDuration:  optionalSeconds(r.MinVoteDurationSeconds),
		MaxVoteDuration:  optionalSeconds(r.MaxVoteDurationSeconds),
		EligibilityFlags: r.EligibilityFlags,
		ExecutionDelay:   optionalSeconds(r.ExecutionDelaySeconds),
		CancelGrace:      optionalSeconds(r.CancelGraceSeconds),
	})
	if err != nil {
		return nil, err
	}
	return mappers.DaoConfigToMap(cfg), nil
}

func (h *GovernanceHandler) SetPause(ctx context.Context, r *setPauseRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := h.governanceUsecase.SetPause(ctx, caller, r.Paused)
	if err != nil {
		return nil, err
	}
	return mappers.DaoConfigToMap(cfg), nil
}

func (h *GovernanceHandler) SetMember(ctx context.Context, r *setMemberRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	member, err := h.governanceUsecase.SetMember(ctx, caller, &governancedto.SetMemberInput{
		Account:         r.Account,
		Premium:         r.Premium,
		ReputationScore: r.ReputationScore,
	})
	if err != nil {
		return nil, err
	}
	return mappers.MemberToMap(member), nil
}

func (h *GovernanceHandler) WithdrawTreasury(ctx context.Context, r *withdrawTreasuryRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.governanceUsecase.WithdrawTreasury(ctx, caller, &governancedto.WithdrawTreasuryInput{
		To:     r.To,
		Amount: r.Amount,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"to": r.To, "amount": r.Amount}, nil
}

func (h *GovernanceHandler) CreateProposal(ctx context.Context, r *createProposalRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	titleHash, err := hex.DecodeString(r.TitleHash)
	if err != nil {
		return nil, fmt.Errorf("%w: title_hash is not hex", domain.ErrInvalidTitleHash)
	}
	proposal, err := h.governanceUsecase.CreateProposal(ctx, caller, &governancedto.CreateProposalInput{
		Kind:      r.Kind,
		URI:       r.URI,
		TitleHash: titleHash,
		Window:    seconds(r.WindowSeconds),
	})
	if err != nil {
		return nil, err
	}
	return mappers.ProposalToMap(proposal), nil
}

func (h *GovernanceHandler) CastVote(ctx context.Context, r *castVoteRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	vote, err := h.governanceUsecase.CastVote(ctx, caller, &governancedto.CastVoteInput{
		ProposalID: r.ProposalID,
		Choice:     r.Choice,
	})
	if err != nil {
		return nil, err
	}
	return mappers.VoteToMap(vote), nil
}

// FinalizeProposal доступен любому, в том числе без токена
func (h *GovernanceHandler) FinalizeProposal(ctx context.Context, r *proposalIDRequest) (map[string]any, error) {
	proposal, err := h.governanceUsecase.FinalizeProposal(ctx, r.ProposalID)
	if err != nil {
		return nil, err
	}
	return mappers.ProposalToMap(proposal), nil
}

func (h *GovernanceHandler) CancelProposal(ctx context.Context, r *proposalIDRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	proposal, err := h.governanceUsecase.CancelProposal(ctx, caller, r.ProposalID)
	if err != nil {
		return nil, err
	}
	return mappers.ProposalToMap(proposal), nil
}

func (h *GovernanceHandler) ExecuteProposal(ctx context.Context, r *proposalIDRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	proposal, err := h.governanceUsecase.ExecuteProposal(ctx, caller, r.ProposalID)
	if err != nil {
		return nil, err
	}
	return mappers.ProposalToMap(proposal), nil
}

func (h *GovernanceHandler) GetDaoConfig(ctx context.Context, _ *empty) (map[string]any, error) {
	cfg, err := h.governanceUsecase.GetDaoConfig(ctx)
	if err != nil {
		return nil, err
	}
	return mappers.DaoConfigToMap(cfg), nil
}

func (h *GovernanceHandler) GetProposal(ctx context.Context, r *proposalIDRequest) (map[string]any, error) {
	out, err := h.governanceUsecase.GetProposal(ctx, r.ProposalID)
	if err != nil {
		return nil, err
	}
	return mappers.ProposalDetailsToMap(out.Proposal, out.Votes), nil
}

func (h *GovernanceHandler) ListProposals(ctx context.Context, r *listProposalsRequest) (map[string]any, error) {
	out, err := h.governanceUsecase.ListProposals(ctx, &governancedto.ListProposalsInput{
		Creator: r.Creator,
		States:  r.States,
		Page:    r.Page,
		Limit:   r.Limit,
	})
	if err != nil {
		return nil, err
	}
	return mappers.ProposalListToMap(out.Proposals, out.Page, out.Limit), nil
}
