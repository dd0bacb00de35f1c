package gmail

// ReceivedTimeLayout formats Email.ReceivedTime.
const ReceivedTimeLayout = "2006-01-02 15:04:05"

// Email is the flat record returned for listed and searched messages.
type Email struct {
	ID           string   `json:"id"`
	Sender       string   `json:"sender"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
	Attachments  []string `json:"attachments"`
	ReceivedTime string   `json:"received_time"`
}

// Draft is a message to be stored as a draft.
type Draft struct {
	To          string
	Subject     string
	Body        string
	Attachments []string // local file paths
}
