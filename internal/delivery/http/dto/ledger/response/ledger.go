package response

type BalanceResponse struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
	Held    uint64 `json:"held"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}
