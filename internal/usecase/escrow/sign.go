package escrow

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	escrowdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/escrow"
)

var zeroSignature = make([]byte, domain.SignatureSize)

// SubmitSignature записывает подпись стороны. Когда подписали обе стороны,
// сделка становится ACTIVE.
func (escrowUc *DefaultEscrowUsecase) SubmitSignature(ctx context.Context, caller domain.Principal, input *escrowdto.SubmitSignatureInput) (*domain.EscrowJob, error) {
	res, err := escrowUc.processEscrowOperation(ctx, "sign", domain.EscrowKey(input.Client, input.ID),
		func(job *domain.EscrowJob, now time.Time) (*LedgerOperation, []domain.Event, error) {
			var slot *[]byte
			switch caller.ID {
			case job.Client:
				slot = &job.ClientSignature
			case job.Freelancer:
				slot = &job.FreelancerSignature
			default:
				return nil, nil, domain.ErrUnauthorized
			}
			if len(*slot) > 0 {
				return nil, nil, domain.ErrSignatureAlreadySubmitted
			}
			if job.State != domain.EscrowAwaitingSignatures {
				return nil, nil, domain.ErrInvalidState
			}
			if !escrowUc.validSignature(caller, job, input.Signature) {
				return nil, nil, domain.ErrInvalidSignature
			}
			*slot = bytes.Clone(input.Signature)

			events := []domain.Event{
				escrowEvent(domain.EventSignatureSubmitted, job, now, map[string]any{"signer": caller.ID}),
			}
			if len(job.ClientSignature) > 0 && len(job.FreelancerSignature) > 0 {
				signedAt := now
				job.SignedAt = &signedAt
				job.State = domain.EscrowActive
				events = append(events, escrowEvent(domain.EventEscrowActivated, job, now, map[string]any{
					"signed_at": signedAt,
				}))
			}
			return nil, events, nil
		})
	if err != nil {
		return nil, err
	}
	escrowUc.recordTransition(res, 0)
	if res.job.State == domain.EscrowActive {
		escrowUc.logger.Info("escrow activated", slog.String("escrow_key", res.job.Key))
	}
	return res.job, nil
}

func (escrowUc *DefaultEscrowUsecase) validSignature(caller domain.Principal, job *domain.EscrowJob, sig []byte) bool {
	if len(sig) != domain.SignatureSize || bytes.Equal(sig, zeroSignature) {
		return false
	}
	return escrowUc.ledger.VerifySignature(caller.PublicKey, job.SigningPayload(), sig)
}
