package domain

// SubmitInput is the body of POST /checks
type SubmitInput struct {
	Text string `json:"text" validate:"required,max=512" example:"1BoatSLRHtKNngkdXEeobR76b53LETtpyT"`
}

// ChoiceInput is the body of POST /checks/{id}/choice; label or code
type ChoiceInput struct {
	Blockchain string `json:"blockchain" validate:"required,chaincode" example:"Bitcoin"`
}

// CallbackInput carries a raw chat callback payload "<request id>:<code>"
type CallbackInput struct {
	Data string `json:"data" validate:"required,max=128" example:"0f8fad5bd9cb469fa16570867728950e:BTC"`
}

// HistoryInput filters GET /history
type HistoryInput struct {
	Address string `json:"address"`
	Limit   int    `json:"limit"`
}
