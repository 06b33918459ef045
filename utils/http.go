package utils

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
)

const (
	DefaultTimeout             = 10 * time.Second
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
)

type HTTPClientConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	InsecureSkipVerify  bool          `mapstructure:"insecure_skip_verify"`
}

func NewDefaultHTTPClientConfig() *HTTPClientConfig {
	return &HTTPClientConfig{
		Timeout:             DefaultTimeout,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		InsecureSkipVerify:  false,
	}
}

// NewHTTPClientConfigFromMap decodes settings over the defaults. Duration
// values may be given as strings like "30s".
func NewHTTPClientConfigFromMap(settings map[string]any) (*HTTPClientConfig, error) {
	config := NewDefaultHTTPClientConfig()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("failed to decode http client config: %w", err)
	}

	return config, nil
}

func NewHttpClient(config HTTPClientConfig) *http.Client {
	return &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        config.MaxIdleConns,
			MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: config.InsecureSkipVerify,
			},
		},
	}
}

func NewDefaultHttpClient() *http.Client {
	return NewHttpClient(*NewDefaultHTTPClientConfig())
}

// HttpRequestWithBasicAuth sends body as application/json to url and returns
// the response status and body. Interpreting the status is the caller's job;
// only transport failures produce an error.
func HttpRequestWithBasicAuth(method string, url string, body []byte, client *http.Client, user string, password string) (int, []byte, error) {
	req, err := http.NewRequest(method, url, bytes.NewBuffer(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build %s request to %s: %w", method, url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(user, password)

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
