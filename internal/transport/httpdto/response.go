package httpdto

const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeChatNotFound     = "CHAT_NOT_FOUND"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA"
	CodeInternal         = "INTERNAL_ERROR"
	CodeUnhealthy        = "UNHEALTHY"
)

// ChatNotFoundDetail is the client-visible text of every 404.
const ChatNotFoundDetail = "Chat not found"

// ErrorResponse keeps the "detail" key clients of the chat API already parse.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func NewErrorResponse(detail string, code string) ErrorResponse {
	return ErrorResponse{
		Detail: detail,
		Code:   code,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
