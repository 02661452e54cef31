package protocol

// Payload tags carried in the "type" field of an envelope payload.
const (
	TypePromptTextRequest   = "prompt_text_request"
	TypePromptFormRequest   = "prompt_form_request"
	TypeShowToastRequest    = "show_toast_request"
	TypeOpenSettingsRequest = "open_settings_request"

	TypePromptTextResponse = "prompt_text_response"
	TypePromptFormResponse = "prompt_form_response"
)

// Payload is the closed union of envelope payload variants. Dispatch is a
// type switch over the concrete pointer types.
type Payload interface {
	PayloadType() string
}

type PromptTextRequest struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Placeholder  string `json:"placeholder,omitempty"`
	Label        string `json:"label,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

func (*PromptTextRequest) PayloadType() string { return TypePromptTextRequest }

// FormInput describes one field of a form prompt. Key is the identifier the
// entered value is reported under in the response.
type FormInput struct {
	Key          string `json:"key"`
	Label        string `json:"label,omitempty"`
	Placeholder  string `json:"placeholder,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

type PromptFormRequest struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Inputs      []FormInput `json:"inputs"`
	ConfirmText string      `json:"confirmText,omitempty"`
	CancelText  string      `json:"cancelText,omitempty"`
}

func (*PromptFormRequest) PayloadType() string { return TypePromptFormRequest }

// ShowToastRequest is a single-shot notification. It is never correlated
// and has no response variant.
type ShowToastRequest struct {
	Message string `json:"message"`
	Color   string `json:"color,omitempty"`
	Icon    string `json:"icon,omitempty"`
	// Timeout in milliseconds; zero means the receiver's default.
	Timeout int64 `json:"timeout,omitempty"`
	// At is an optional free-form timestamp attached by the sender.
	At string `json:"at,omitempty"`
}

func (*ShowToastRequest) PayloadType() string { return TypeShowToastRequest }

type OpenSettingsRequest struct{}

func (*OpenSettingsRequest) PayloadType() string { return TypeOpenSettingsRequest }

// PromptTextResponse answers a PromptTextRequest. A nil Value means the
// user cancelled.
type PromptTextResponse struct {
	Value *string `json:"value"`
}

func (*PromptTextResponse) PayloadType() string { return TypePromptTextResponse }

// PromptFormResponse answers a PromptFormRequest. A nil Values map means
// the user cancelled; otherwise it maps input keys to entered values.
type PromptFormResponse struct {
	Values map[string]string `json:"values"`
}

func (*PromptFormResponse) PayloadType() string { return TypePromptFormResponse }

// Toast colors understood by the UI.
const (
	ColorDefault = "default"
	ColorPrimary = "primary"
	ColorSuccess = "success"
	ColorNotice  = "notice"
	ColorWarning = "warning"
	ColorDanger  = "danger"
)
