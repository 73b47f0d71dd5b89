package whatsapp

// SendTextInput is a free-form session message.
type SendTextInput struct {
	PhoneNumber string // E.164 without '+', e.g. "919876543210"
	Body        string
	PreviewURL  bool
}

// SendTemplateInput is an approved template message with positional body
// parameters.
type SendTemplateInput struct {
	PhoneNumber  string
	TemplateName string
	Language     string
	Parameters   []string
}

type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Contacts []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Error *ErrorResponse `json:"error"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}
