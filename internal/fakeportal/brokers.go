package fakeportal

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-portal-client/api"
)

// publishHandler records published messages per broker ("kafka", "mqtt").
func (s *Server) publishHandler(broker string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg struct {
			Topic   string  `json:"topic"`
			Value   string  `json:"value"`
			Payload string  `json:"payload"`
			Key     *string `json:"key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil || msg.Topic == "" {
			writeValidation(w, "topic", "field required")
			return
		}
		payload := msg.Payload
		if broker == "kafka" {
			payload = msg.Value
		}

		s.mu.Lock()
		s.brokerMessages[broker] = append(s.brokerMessages[broker], api.BrokerMessage{
			ID:      len(s.brokerMessages[broker]) + 1,
			Topic:   msg.Topic,
			Key:     msg.Key,
			Payload: payload,
		})
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, api.BrokerPublishResponse{Success: true, Topic: msg.Topic})
	}
}

func (s *Server) brokerMessagesHandler(broker string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, size := pageParams(r)
		topic := r.URL.Query().Get("topic")

		s.mu.Lock()
		var matched []api.BrokerMessage
		for _, m := range s.brokerMessages[broker] {
			if topic == "" || m.Topic == topic {
				matched = append(matched, m)
			}
		}
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, paginate(matched, page, size))
	}
}
