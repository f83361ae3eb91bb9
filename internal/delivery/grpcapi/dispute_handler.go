package grpcapi

import (
	"context"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/grpcapi/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
	"google.golang.org/grpc"
)

const DisputeServiceName = "escrow.v1.DisputeService"

type DisputeHandler struct {
	disputeUsecase usecase.DisputeUsecase
}

func NewDisputeHandler(disputeUsecase usecase.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{disputeUsecase: disputeUsecase}
}

type openDisputeRequest struct {
	Parties []string          `json:"parties"`
	URI     string            `json:"uri"`
	Reason  string            `json:"reason"`
	Escrow  *escrowRefRequest `json:"escrow"`
	Fee     uint64            `json:"fee"`
}

type formPanelRequest struct {
	DisputeID      uint64   `json:"dispute_id"`
	Members        []string `json:"members"`
	Seed           uint64   `json:"seed"`
	RequiredQuorum uint8    `json:"required_quorum"`
}

type castPanelVoteRequest struct {
	DisputeID uint64 `json:"dispute_id"`
	Choice    string `json:"choice"`
}

type voteEvidenceRequest struct {
	Voter  string `json:"voter"`
	Choice string `json:"choice"`
}

type finalizeJudgmentRequest struct {
	DisputeID          uint64                `json:"dispute_id"`
	VoteRecords        []voteEvidenceRequest `json:"vote_records"`
	ClientSharePercent *uint16               `json:"client_share_percent"`
}

type disputeIDRequest struct {
	DisputeID uint64 `json:"dispute_id"`
}

type daoMemberRequest struct {
	Account string `json:"account"`
}

type setQuorumRequest struct {
	Quorum uint8 `json:"quorum"`
}

type setDisputeFeeRequest struct {
	Fee uint64 `json:"fee"`
}

type listDisputesRequest struct {
	Party    string `json:"party"`
	Reason   string `json:"reason"`
	OpenOnly bool   `json:"open_only"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
}

func (h *DisputeHandler) Desc() grpc.ServiceDesc {
	return serviceDesc(DisputeServiceName, []method{
		{"OpenDispute", unary(h.OpenDispute)},
		{"FormPanel", unary(h.FormPanel)},
		{"CastPanelVote", unary(h.CastPanelVote)},
		{"FinalizeJudgment", unary(h.FinalizeJudgment)},
		{"ExecuteJudgment", unary(h.ExecuteJudgment)},
		{"CancelDispute", unary(h.CancelDispute)},
		{"AddDaoMember", unary(h.AddDaoMember)},
		{"RemoveDaoMember", unary(h.RemoveDaoMember)},
		{"SetQuorum", unary(h.SetQuorum)},
		{"SetDisputeCreationFee", unary(h.SetDisputeCreationFee)},
		{"GetDispute", unary(h.GetDispute)},
		{"ListDisputes", unary(h.ListDisputes)},
		{"GetArbitrationConfig", unary(h.GetArbitrationConfig)},
		{"ListDaoMembers", unary(h.ListDaoMembers)},
	})
}

func (h *DisputeHandler) OpenDispute(ctx context.Context, r *openDisputeRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	input := &disputedto.OpenDisputeInput{
		Parties: r.Parties,
		URI:     r.URI,
		Reason:  r.Reason,
		Fee:     r.Fee,
	}
	if r.Escrow != nil {
		input.Escrow = &disputedto.EscrowLink{Client: r.Escrow.Client, ID: r.Escrow.ID}
	}
	dispute, err := h.disputeUsecase.OpenDispute(ctx, caller, input)
	if err != nil {
		return nil, err
	}
	return mappers.DisputeToMap(dispute), nil
}

func (h *DisputeHandler) FormPanel(ctx context.Context, r *formPanelRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	panel, err := h.disputeUsecase.FormPanel(ctx, caller, &disputedto.FormPanelInput{
		DisputeID:      r.DisputeID,
		Members:        r.Members,
		Seed:           r.Seed,
		RequiredQuorum: r.RequiredQuorum,
	})
	if err != nil {
		return nil, err
	}
	return mappers.PanelToMap(panel), nil
}

func (h *DisputeHandler) CastPanelVote(ctx context.Context, r *castPanelVoteRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	dispute, err := h.disputeUsecase.CastPanelVote(ctx, caller, &disputedto.CastPanelVoteInput{
		DisputeID: r.DisputeID,
		Choice:    r.Choice,
	})
	if err != nil {
		return nil, err
	}
	return mappers.DisputeToMap(dispute), nil
}

func (h *DisputeHandler) FinalizeJudgment(ctx context.Context, r *finalizeJudgmentRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]disputedto.VoteEvidence, 0, len(r.VoteRecords))
	for _, v := range r.VoteRecords {
		records = append(records, disputedto.VoteEvidence{Voter: v.Voter, Choice: v.Choice})
	}
	dispute, err := h.disputeUsecase.FinalizeJudgment(ctx, caller, &disputedto.FinalizeJudgmentInput{
		DisputeID:          r.DisputeID,
		VoteRecords:        records,
		ClientSharePercent: r.ClientSharePercent,
	})
	if err != nil {
		return nil, err
	}
	return mappers.DisputeToMap(dispute), nil
}

func (h *DisputeHandler) ExecuteJudgment(ctx context.Context, r *disputeIDRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	dispute, err := h.disputeUsecase.ExecuteJudgment(ctx, caller, r.DisputeID)
	if err != nil {
		return nil, err
	}
	return mappers.DisputeToMap(dispute), nil
}

func (h *DisputeHandler) CancelDispute(ctx context.Context, r *disputeIDRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	dispute, err := h.disputeUsecase.CancelDispute(ctx, caller, r.DisputeID)
	if err != nil {
		return nil, err
	}
	return mappers.DisputeToMap(dispute), nil
}

func (h *DisputeHandler) AddDaoMember(ctx context.Context, r *daoMemberRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.disputeUsecase.AddDaoMember(ctx, caller, r.Account); err != nil {
		return nil, err
	}
	return map[string]any{"account": r.Account, "member": true}, nil
}

func (h *DisputeHandler) RemoveDaoMember(ctx context.Context, r *daoMemberRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.disputeUsecase.RemoveDaoMember(ctx, caller, r.Account); err != nil {
		return nil, err
	}
	return map[string]any{"account": r.Account, "member": false}, nil
}

func (h *DisputeHandler) SetQuorum(ctx context.Context, r *setQuorumRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := h.disputeUsecase.SetQuorum(ctx, caller, r.Quorum)
	if err != nil {
		return nil, err
	}
	return mappers.ArbitrationConfigToMap(cfg), nil
}

func (h *DisputeHandler) SetDisputeCreationFee(ctx context.Context, r *setDisputeFeeRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := h.disputeUsecase.SetDisputeCreationFee(ctx, caller, r.Fee)
	if err != nil {
		return nil, err
	}
	return mappers.ArbitrationConfigToMap(cfg), nil
}

func (h *DisputeHandler) GetDispute(ctx context.Context, r *disputeIDRequest) (map[string]any, error) {
	out, err := h.disputeUsecase.GetDispute(ctx, r.DisputeID)
	if err != nil {
		return nil, err
	}
	return mappers.DisputeDetailsToMap(out.Dispute, out.Panel, out.Votes), nil
}

func (h *DisputeHandler) ListDisputes(ctx context.Context, r *listDisputesRequest) (map[string]any, error) {
	out, err := h.disputeUsecase.ListDisputes(ctx, &disputedto.ListDisputesInput{
		Party:    r.Party,
		Reason:   r.Reason,
		OpenOnly: r.OpenOnly,
		Page:     r.Page,
		Limit:    r.Limit,
	})
	if err != nil {
		return nil, err
	}
	return mappers.DisputeListToMap(out.Disputes, out.Page, out.Limit), nil
}

func (h *DisputeHandler) GetArbitrationConfig(ctx context.Context, _ *empty) (map[string]any, error) {
	cfg, err := h.disputeUsecase.GetArbitrationConfig(ctx)
	if err != nil {
		return nil, err
	}
	return mappers.ArbitrationConfigToMap(cfg), nil
}

func (h *DisputeHandler) ListDaoMembers(ctx context.Context, _ *empty) (map[string]any, error) {
	members, err := h.disputeUsecase.ListDaoMembers(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]any, 0, len(members))
	for _, m := range members {
		items = append(items, m)
	}
	return map[string]any{"members": items}, nil
}
