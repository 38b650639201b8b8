package api

import "context"

type ChatRequest struct {
	Message        string  `json:"message" validate:"required"`
	ConversationID *string `json:"conversation_id,omitempty" validate:"omitempty,uuid"`
}

type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

type ConversationSummary struct {
	ID        string  `json:"id"`
	Title     *string `json:"title,omitempty"`
	CreatedAt *string `json:"created_at,omitempty"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

type ConversationListResponse = Page[ConversationSummary]

type ChatMessage struct {
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	CreatedAt *string `json:"created_at,omitempty"`
}

type ConversationDetailResponse struct {
	ID       string        `json:"id"`
	Title    *string       `json:"title,omitempty"`
	Messages []ChatMessage `json:"messages"`
}

// ChatService talks to the AI schedule assistant.
type ChatService struct {
	c *Client
}

func (s *ChatService) Send(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return call[ChatResponse](ctx, s.c, &request{
		operation: "sendChatMessage",
		method:    "POST",
		url:       PathChat,
		body:      req,
		mediaType: MediaTypeJSON,
	})
}

func (s *ChatService) Conversations(ctx context.Context, page, size int) (*ConversationListResponse, error) {
	return call[ConversationListResponse](ctx, s.c, &request{
		operation: "listConversations",
		method:    "GET",
		url:       PathChatConversations,
		query:     pageQuery(page, size),
	})
}

func (s *ChatService) Conversation(ctx context.Context, conversationID string) (*ConversationDetailResponse, error) {
	return call[ConversationDetailResponse](ctx, s.c, &request{
		operation: "getConversation",
		method:    "GET",
		url:       PathChatConversation,
		path:      map[string]string{"conversation_id": conversationID},
	})
}

func (s *ChatService) DeleteConversation(ctx context.Context, conversationID string) error {
	return s.c.send(ctx, &request{
		operation: "deleteConversation",
		method:    "DELETE",
		url:       PathChatConversation,
		path:      map[string]string{"conversation_id": conversationID},
	}, nil)
}
