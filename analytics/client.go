package analytics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nextcloud-analytics/go-client/utils"
)

// TimeFormat is the RFC 2822 layout the Analytics API expects for timeline
// dates: unpadded day of month, numeric zone.
const TimeFormat = "Mon, 2 Jan 2006 15:04:05 -0700"

const addDataRoute = "apps/analytics/api/1.0/adddata/"

type dataPoint struct {
	Dimension1 string `json:"dimension1"`
	Dimension2 string `json:"dimension2"`
	Dimension3 string `json:"dimension3"`
}

type apiResponse struct {
	Success *bool `json:"success"`
	Error   struct {
		Message *string `json:"message"`
	} `json:"error"`
}

// Client inserts data points into one collection of a Nextcloud Analytics
// instance, for collections backed by the internal database. It holds no
// per-call state, so a single Client may be shared across goroutines.
type Client struct {
	url      string
	user     string
	password string
	client   *http.Client
}

// NewClient creates a client for the given Nextcloud base URL and collection
// index (the number shown in the Analytics interface URL). The password is
// expected to be an app password issued for the user, not the account
// password.
func NewClient(nextcloudUrl string, collection uint32, user string, password string) *Client {
	return &Client{
		url:      endpointUrl(nextcloudUrl, collection),
		user:     user,
		password: password,
		client:   utils.NewDefaultHttpClient(),
	}
}

func NewClientWithHttpConfig(nextcloudUrl string, collection uint32, user string, password string, config *utils.HTTPClientConfig) *Client {
	return &Client{
		url:      endpointUrl(nextcloudUrl, collection),
		user:     user,
		password: password,
		client:   utils.NewHttpClient(*config),
	}
}

func endpointUrl(nextcloudUrl string, collection uint32) string {
	if !strings.HasSuffix(nextcloudUrl, "/") {
		nextcloudUrl += "/"
	}
	return fmt.Sprintf("%s%s%d", nextcloudUrl, addDataRoute, collection)
}

// SendData inserts one data point. The first two dimensions are text, the
// third is the numeric value. For timeline collections dimension2 must be an
// RFC 2822 date; SendTimelineData takes care of the formatting.
func (c *Client) SendData(dimension1 string, dimension2 string, dimension3 float64) error {
	point := dataPoint{
		Dimension1: dimension1,
		Dimension2: dimension2,
		// The API wants the numeric dimension wrapped in quotes.
		Dimension3: strconv.FormatFloat(dimension3, 'f', -1, 64),
	}

	body, err := json.Marshal(point)
	if err != nil {
		return fmt.Errorf("failed to marshal data point: %w", err)
	}

	status, respBody, err := utils.HttpRequestWithBasicAuth(http.MethodPost, c.url, body, c.client, c.user, c.password)
	if err != nil {
		return fmt.Errorf("failed to send data point: %w", err)
	}

	if status != http.StatusOK {
		return &APIError{Message: fmt.Sprintf("unexpected status code %d: %s", status, string(respBody))}
	}

	var resp apiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("failed to parse API response: %w", err)
	}

	if resp.Success == nil {
		return &ContractError{Field: "success"}
	}
	if *resp.Success {
		return nil
	}
	if resp.Error.Message == nil {
		return &ContractError{Field: "error.message"}
	}
	return &APIError{Message: fmt.Sprintf("unexpected API response: %s", *resp.Error.Message)}
}

// SendTimelineData inserts value for key at the given time.
func (c *Client) SendTimelineData(key string, t time.Time, value float64) error {
	return c.SendData(key, t.Format(TimeFormat), value)
}

// SendTimelineNowData inserts value for key at the current UTC time.
func (c *Client) SendTimelineNowData(key string, value float64) error {
	return c.SendTimelineData(key, time.Now().UTC(), value)
}
