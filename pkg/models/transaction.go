package models

// TransactionSummary is the slice of a transaction row the dashboard needs
// to ask "which stage comes next". All values arrive as free text from the
// hosted database layer.
type TransactionSummary struct {
	ID                  string `json:"id"`
	ProductType         string `json:"product_type"`
	ProcessType         string `json:"process_type,omitempty"`
	Status              string `json:"status"`
	InitiatingChannel   string `json:"initiating_channel,omitempty"`
	BusinessApplication string `json:"business_application,omitempty"`
}
