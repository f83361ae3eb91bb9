package escrowdto

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type ListEscrowsOutput struct {
	Escrows []*domain.EscrowJob
	Page    int
	Limit   int
}
