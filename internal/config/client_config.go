package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	requestTimeoutKey = "request_timeout"
	pollIntervalKey   = "poll_interval"
	pageSizeKey       = "page_size"
	userAgentKey      = "user_agent"
)

type Client struct {
	v *viper.Viper
}

var _ ClientConfig = Client{}

func (c Client) GetRequestTimeout() time.Duration {
	return c.v.GetDuration(requestTimeoutKey)
}

func (c Client) GetPollInterval() time.Duration {
	interval := c.v.GetDuration(pollIntervalKey)
	if interval <= 0 {
		return 1500 * time.Millisecond
	}
	return interval
}

func (c Client) GetPageSize() int {
	size := c.v.GetInt(pageSizeKey)
	if size <= 0 {
		return 10
	}
	return size
}

func (c Client) GetUserAgent() string {
	return c.v.GetString(userAgentKey)
}
