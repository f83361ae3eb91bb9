package request

type TransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type HoldRequest struct {
	Account string `json:"account"`
	HoldID  string `json:"hold_id"`
	Amount  uint64 `json:"amount"`
}

type Payout struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type ReleaseRequest struct {
	Payouts []Payout `json:"payouts"`
}
