package escrowdto

import "time"

type CreateEscrowInput struct {
	ID         uint64
	Freelancer string
	Amount     uint64
	Deadline   *time.Time
}

// EscrowRef addresses a job by its natural identifiers.
type EscrowRef struct {
	Client string
	ID     uint64
}

type SubmitSignatureInput struct {
	EscrowRef
	Signature []byte
}

type ListEscrowsInput struct {
	Party  string
	States []string
	Page   int
	Limit  int
}
