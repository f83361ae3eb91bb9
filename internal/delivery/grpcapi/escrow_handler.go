package grpcapi

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/grpcapi/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
	"google.golang.org/grpc"
)

const EscrowServiceName = "escrow.v1.EscrowService"

type EscrowHandler struct {
	escrowUsecase usecase.EscrowUsecase
}

func NewEscrowHandler(escrowUsecase usecase.EscrowUsecase) *EscrowHandler {
	return &EscrowHandler{escrowUsecase: escrowUsecase}
}

type escrowRefRequest struct {
	Client string `json:"client"`
	ID     uint64 `json:"id"`
}

func (r escrowRefRequest) ref() escrowdto.EscrowRef {
	return escrowdto.EscrowRef{Client: r.Client, ID: r.ID}
}

type createEscrowRequest struct {
	ID         uint64     `json:"id"`
	Freelancer string     `json:"freelancer"`
	Amount     uint64     `json:"amount"`
	Deadline   *time.Time `json:"deadline"`
}

type submitSignatureRequest struct {
	escrowRefRequest
	// hex
	Signature string `json:"signature"`
}

type listEscrowsRequest struct {
	Party  string   `json:"party"`
	States []string `json:"states"`
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
}

func (h *EscrowHandler) Desc() grpc.ServiceDesc {
	return serviceDesc(EscrowServiceName, []method{
		{"CreateEscrow", unary(h.CreateEscrow)},
		{"AcceptProposal", unary(h.transition(h.escrowUsecase.AcceptProposal))},
		{"SubmitSignature", unary(h.SubmitSignature)},
		{"MarkDelivered", unary(h.transition(h.escrowUsecase.MarkDelivered))},
		{"CompleteEscrow", unary(h.transition(h.escrowUsecase.CompleteEscrow))},
		{"CancelEscrow", unary(h.transition(h.escrowUsecase.CancelEscrow))},
		{"GetEscrow", unary(h.GetEscrow)},
		{"ListEscrows", unary(h.ListEscrows)},
	})
}

func (h *EscrowHandler) CreateEscrow(ctx context.Context, r *createEscrowRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	job, err := h.escrowUsecase.CreateEscrow(ctx, caller, &escrowdto.CreateEscrowInput{
		ID:         r.ID,
		Freelancer: r.Freelancer,
		Amount:     r.Amount,
		Deadline:   r.Deadline,
	})
	if err != nil {
		return nil, err
	}
	return mappers.EscrowToMap(job), nil
}

// transition оборачивает переходы, которым нужен только адрес задачи
func (h *EscrowHandler) transition(
	op func(ctx context.Context, caller domain.Principal, ref escrowdto.EscrowRef) (*domain.EscrowJob, error),
) func(ctx context.Context, r *escrowRefRequest) (map[string]any, error) {
	return func(ctx context.Context, r *escrowRefRequest) (map[string]any, error) {
		caller, err := callerFrom(ctx)
		if err != nil {
			return nil, err
		}
		job, err := op(ctx, caller, r.ref())
		if err != nil {
			return nil, err
		}
		return mappers.EscrowToMap(job), nil
	}
}

func (h *EscrowHandler) SubmitSignature(ctx context.Context, r *submitSignatureRequest) (map[string]any, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	sig, err := hex.DecodeString(r.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: signature is not hex", domain.ErrInvalidSignature)
	}
	job, err := h.escrowUsecase.SubmitSignature(ctx, caller, &escrowdto.SubmitSignatureInput{
		EscrowRef: r.ref(),
		Signature: sig,
	})
	if err != nil {
		return nil, err
	}
	return mappers.EscrowToMap(job), nil
}

func (h *EscrowHandler) GetEscrow(ctx context.Context, r *escrowRefRequest) (map[string]any, error) {
	job, err := h.escrowUsecase.GetEscrow(ctx, r.ref())
	if err != nil {
		return nil, err
	}
	return mappers.EscrowToMap(job), nil
}

func (h *EscrowHandler) ListEscrows(ctx context.Context, r *listEscrowsRequest) (map[string]any, error) {
	out, err := h.escrowUsecase.ListEscrows(ctx, &escrowdto.ListEscrowsInput{
		Party:  r.Party,
		States: r.States,
		Page:   r.Page,
		Limit:  r.Limit,
	})
	if err != nil {
		return nil, err
	}
	return mappers.EscrowListToMap(out.Escrows, out.Page, out.Limit), nil
}
