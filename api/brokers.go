package api

import "context"

// The backend bridges two message brokers (Kafka and MQTT) behind the same
// status / publish / subscribe / history shape.

type BrokerStatusResponse struct {
	Connected     bool     `json:"connected"`
	Subscriptions []string `json:"subscriptions"`
}

type BrokerSubscribeRequest struct {
	Topic string `json:"topic" validate:"required"`
}

type BrokerSubscriptionResponse struct {
	Topic   string `json:"topic"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type BrokerMessage struct {
	ID         int     `json:"id"`
	Topic      string  `json:"topic"`
	Key        *string `json:"key,omitempty"`
	Payload    string  `json:"payload"`
	ReceivedAt *string `json:"received_at,omitempty"`
}

type BrokerMessageListResponse = Page[BrokerMessage]

type BrokerPublishResponse struct {
	Success bool   `json:"success"`
	Topic   string `json:"topic"`
	Message string `json:"message,omitempty"`
}

type KafkaProduceRequest struct {
	Topic string  `json:"topic" validate:"required"`
	Value string  `json:"value"`
	Key   *string `json:"key,omitempty"`
}

type MQTTPublishRequest struct {
	Topic   string `json:"topic" validate:"required"`
	Payload string `json:"payload"`
	QoS     int    `json:"qos,omitempty" validate:"min=0,max=2"`
}

// brokerService holds the calls both brokers share; they differ in path prefix
// and publish payload.
type brokerService struct {
	c      *Client
	name   string
	prefix string
}

func (s *brokerService) Status(ctx context.Context) (*BrokerStatusResponse, error) {
	return call[BrokerStatusResponse](ctx, s.c, &request{
		operation: s.name + "Status",
		method:    "GET",
		url:       s.prefix + "/status",
	})
}

func (s *brokerService) publish(ctx context.Context, path string, body any) (*BrokerPublishResponse, error) {
	return call[BrokerPublishResponse](ctx, s.c, &request{
		operation: s.name + "Publish",
		method:    "POST",
		url:       s.prefix + path,
		body:      body,
		mediaType: MediaTypeJSON,
	})
}

func (s *brokerService) Subscriptions(ctx context.Context) ([]string, error) {
	var out []string
	err := s.c.send(ctx, &request{
		operation: s.name + "ListSubscriptions",
		method:    "GET",
		url:       s.prefix + "/subscriptions",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *brokerService) Subscribe(ctx context.Context, topic string) (*BrokerSubscriptionResponse, error) {
	return call[BrokerSubscriptionResponse](ctx, s.c, &request{
		operation: s.name + "Subscribe",
		method:    "POST",
		url:       s.prefix + "/subscriptions",
		body:      BrokerSubscribeRequest{Topic: topic},
		mediaType: MediaTypeJSON,
	})
}

func (s *brokerService) Unsubscribe(ctx context.Context, topic string) (*BrokerSubscriptionResponse, error) {
	return call[BrokerSubscriptionResponse](ctx, s.c, &request{
		operation: s.name + "Unsubscribe",
		method:    "DELETE",
		url:       s.prefix + "/subscriptions/{topic}",
		path:      map[string]string{"topic": topic},
	})
}

// Messages lists stored messages, optionally for one topic. Size defaults to 50.
func (s *brokerService) Messages(ctx context.Context, topic string, page, size int) (*BrokerMessageListResponse, error) {
	if size < 1 {
		size = 50
	}
	query := pageQuery(page, size)
	if topic != "" {
		query.Set("topic", topic)
	}
	return call[BrokerMessageListResponse](ctx, s.c, &request{
		operation: s.name + "ListMessages",
		method:    "GET",
		url:       s.prefix + "/messages",
		query:     query,
	})
}


type KafkaService struct {
	brokerService
}

func (s *KafkaService) Produce(ctx context.Context, req KafkaProduceRequest) (*BrokerPublishResponse, error) {
	return s.publish(ctx, "/produce", req)
}

type MQTTService struct {
	brokerService
}

func (s *MQTTService) Publish(ctx context.Context, req MQTTPublishRequest) (*BrokerPublishResponse, error) {
	return s.publish(ctx, "/publish", req)
}
