package api

import (
	"context"
	"strconv"
)

type MessageParticipantResponse struct {
	ID   string  `json:"id"`
	UID  string  `json:"uid"`
	Name *string `json:"name,omitempty"`
}

type MessageListItem struct {
	ID             int                        `json:"id"`
	Subject        string                     `json:"subject"`
	ContentPreview string                     `json:"content_preview"`
	Sender         MessageParticipantResponse `json:"sender"`
	Recipient      MessageParticipantResponse `json:"recipient"`
	IsRead         bool                       `json:"is_read"`
	CreatedAt      string                     `json:"created_at"`
	ReplyCount     int                        `json:"reply_count,omitempty"`
}

type MessageListResponse = Page[MessageListItem]

type MessageResponse struct {
	ID         int                        `json:"id"`
	Subject    string                     `json:"subject"`
	Content    string                     `json:"content"`
	Sender     MessageParticipantResponse `json:"sender"`
	Recipient  MessageParticipantResponse `json:"recipient"`
	ParentID   *int                       `json:"parent_id,omitempty"`
	IsRead     bool                       `json:"is_read"`
	ReadAt     *string                    `json:"read_at,omitempty"`
	CreatedAt  string                     `json:"created_at"`
	ReplyCount int                        `json:"reply_count,omitempty"`
}

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Content     string `json:"content" validate:"required"`
}

type ReplyMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type BatchMarkReadRequest struct {
	MessageIDs []int `json:"message_ids" validate:"required,min=1"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type MessageService struct {
	c *Client
}

func (s *MessageService) Send(ctx context.Context, req SendMessageRequest) (*MessageResponse, error) {
	return call[MessageResponse](ctx, s.c, &request{
		operation: "sendMessage",
		method:    "POST",
		url:       PathMessages,
		body:      req,
		mediaType: MediaTypeJSON,
	})
}

func (s *MessageService) Reply(ctx context.Context, messageID int, req ReplyMessageRequest) (*MessageResponse, error) {
	return call[MessageResponse](ctx, s.c, &request{
		operation: "replyMessage",
		method:    "POST",
		url:       PathMessageReply,
		path:      messagePath(messageID),
		body:      req,
		mediaType: MediaTypeJSON,
	})
}

func (s *MessageService) Inbox(ctx context.Context, page, size int) (*MessageListResponse, error) {
	return call[MessageListResponse](ctx, s.c, &request{
		operation: "getInbox",
		method:    "GET",
		url:       PathMessagesInbox,
		query:     pageQuery(page, size),
	})
}

func (s *MessageService) Sent(ctx context.Context, page, size int) (*MessageListResponse, error) {
	return call[MessageListResponse](ctx, s.c, &request{
		operation: "getSent",
		method:    "GET",
		url:       PathMessagesSent,
		query:     pageQuery(page, size),
	})
}

func (s *MessageService) UnreadCount(ctx context.Context) (*UnreadCountResponse, error) {
	return call[UnreadCountResponse](ctx, s.c, &request{
		operation: "getUnreadCount",
		method:    "GET",
		url:       PathMessagesUnread,
	})
}

func (s *MessageService) Get(ctx context.Context, messageID int) (*MessageResponse, error) {
	return call[MessageResponse](ctx, s.c, &request{
		operation: "getMessage",
		method:    "GET",
		url:       PathMessage,
		path:      messagePath(messageID),
	})
}

func (s *MessageService) Delete(ctx context.Context, messageID int) (*ActionResponse, error) {
	return call[ActionResponse](ctx, s.c, &request{
		operation: "deleteMessage",
		method:    "DELETE",
		url:       PathMessage,
		path:      messagePath(messageID),
	})
}

func (s *MessageService) MarkRead(ctx context.Context, messageID int) (*ActionResponse, error) {
	return call[ActionResponse](ctx, s.c, &request{
		operation: "markAsRead",
		method:    "PUT",
		url:       PathMessageRead,
		path:      messagePath(messageID),
	})
}

func (s *MessageService) BatchMarkRead(ctx context.Context, messageIDs ...int) (*ActionResponse, error) {
	return call[ActionResponse](ctx, s.c, &request{
		operation: "batchMarkAsRead",
		method:    "PUT",
		url:       PathMessagesBatchRead,
		body:      BatchMarkReadRequest{MessageIDs: messageIDs},
		mediaType: MediaTypeJSON,
	})
}

func messagePath(messageID int) map[string]string {
	return map[string]string{"message_id": strconv.Itoa(messageID)}
}
