package types

// Recognized signal directions. Anything else coming back from the model is
// coerced to NEUTRAL during sanitization.
const (
	DirectionLong    = "LONG"
	DirectionShort   = "SHORT"
	DirectionNeutral = "NEUTRAL"
	DirectionStayOut = "STAY_OUT"
)

// MailRef is the lightweight view of a mailbox candidate returned by a list
// query: enough to decide novelty without fetching the full body.
type MailRef struct {
	ID           string
	InternalDate int64 // ms since epoch, mailbox-assigned
	Unread       bool
}

// NormalizedMail is the flat, decoded record of one mailbox message. It is
// immutable once built; an empty ID never reaches this type (the normalizer
// fails first).
type NormalizedMail struct {
	ID           string            `json:"id"`
	ThreadID     string            `json:"threadId"`
	Subject      string            `json:"subject"`
	Snippet      string            `json:"snippet"`
	From         string            `json:"from"`
	To           string            `json:"to"`
	Date         string            `json:"date"` // raw Date header
	PlainText    string            `json:"plainText"`
	HTMLText     string            `json:"htmlText"`
	Headers      map[string]string `json:"headers"` // keys lower-cased
	InternalDate int64             `json:"internalDate"`
}

// TradingSignal is one symbol's extracted recommendation.
//
// EntryScore is a pointer because absence is meaningful: a score outside
// [0,100] or a non-numeric value is dropped, never clamped.
type TradingSignal struct {
	Symbol      string   `json:"symbol"`
	Direction   string   `json:"direction"`
	Entry       string   `json:"entry,omitempty"`
	StopLoss    string   `json:"stopLoss,omitempty"`
	TakeProfits []string `json:"takeProfits"`
	Reason      string   `json:"reason,omitempty"`
	Timeframe   string   `json:"timeframe,omitempty"`
	EntryScore  *int     `json:"entryScore,omitempty"`
}

// ActionItem is a follow-up task the model found in the mail.
type ActionItem struct {
	Title    string `json:"title"`
	Owner    string `json:"owner,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// AnalysisResult is the full extraction for one mail. Built once per
// successful model call and never mutated afterwards.
type AnalysisResult struct {
	MailID      string          `json:"mailId"`
	Subject     string          `json:"subject"`
	Sender      string          `json:"sender"`
	Summary     string          `json:"summary"`
	ActionItems []ActionItem    `json:"actionItems"`
	Confidence  float64         `json:"confidence"`
	Signals     []TradingSignal `json:"signals"`
}

// IntPtr is a convenience for building optional scores in literals.
func IntPtr(v int) *int { return &v }
