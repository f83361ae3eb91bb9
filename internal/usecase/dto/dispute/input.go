package disputedto

type EscrowLink struct {
	Client string
	ID     uint64
}

type OpenDisputeInput struct {
	Parties []string
	URI     string
	Reason  string
	Escrow  *EscrowLink
	// Fee offered by a non-admin opener.
	Fee uint64
}

type FormPanelInput struct {
	DisputeID      uint64
	Members        []string
	Seed           uint64
	RequiredQuorum uint8
}

type CastPanelVoteInput struct {
	DisputeID uint64
	Choice    string
}

type VoteEvidence struct {
	Voter  string
	Choice string
}

type FinalizeJudgmentInput struct {
	DisputeID   uint64
	VoteRecords []VoteEvidence
	// ClientSharePercent records a split judgment when set.
	ClientSharePercent *uint16
}

type ListDisputesInput struct {
	Party    string
	Reason   string
	OpenOnly bool
	Page     int
	Limit    int
}
