package models

type GetBalanceResponse struct {
	Username string `json:"username"`
	Balance  string `json:"balance"`
}
