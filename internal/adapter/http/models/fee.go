package models

type FeeQuoteResponse struct {
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
	Total  string `json:"total"`
}
