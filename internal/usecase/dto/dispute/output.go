package disputedto

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type DisputeOutput struct {
	Dispute *domain.Dispute
	Panel   *domain.DisputePanel
	Votes   []*domain.PanelVoteRecord
}

type ListDisputesOutput struct {
	Disputes []*domain.Dispute
	Page     int
	Limit    int
}
