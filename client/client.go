package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	demoTypes "moneyticket-demo/types/demo"
)

// Client calls the demo verification API and keeps the active session in a
// SessionCache.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *SessionCache
}

// NewClient creates an API client. The cache may be nil when the caller
// manages the session itself.
func NewClient(baseURL string, cache *SessionCache) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		cache:   cache,
	}
}

// RequestDemoAccess asks for a new demo session and caches the token.
func (c *Client) RequestDemoAccess() (*demoTypes.AccessGrantResponse, error) {
	var grant demoTypes.AccessGrantResponse
	err := c.post("/demo/send-otp", demoTypes.SendOTPRequest{RequestDemoAccess: true}, &grant)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Save(demoTypes.SessionData{
			DemoToken: grant.DemoToken,
			IsDemo:    true,
			ExpiresAt: time.Now().Add(30 * time.Minute),
		}); err != nil {
			return &grant, err
		}
	}
	return &grant, nil
}

// SendOTP requests the demo code for the phone number under the given token.
func (c *Client) SendOTP(phoneNumber, demoToken string) (*demoTypes.SendOTPResponse, error) {
	var resp demoTypes.SendOTPResponse
	err := c.post("/demo/send-otp", demoTypes.SendOTPRequest{
		PhoneNumber: phoneNumber,
		DemoToken:   demoToken,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyOTP submits a code and updates the cached session on success.
func (c *Client) VerifyOTP(phoneNumber, code, demoToken string) (*demoTypes.VerifyOTPResponse, error) {
	var resp demoTypes.VerifyOTPResponse
	err := c.post("/demo/verify-otp", demoTypes.VerifyOTPRequest{
		PhoneNumber: phoneNumber,
		Code:        code,
		DemoToken:   demoToken,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && resp.Success {
		data := c.cache.Load()
		if data == nil {
			data = &demoTypes.SessionData{
				DemoToken: demoToken,
				IsDemo:    true,
				ExpiresAt: time.Now().Add(30 * time.Minute),
			}
		}
		data.PhoneNumber = resp.DemoInfo.PhoneNumber
		data.SMSVerified = true
		data.VerifiedAt = resp.DemoInfo.VerifiedAt
		if resp.SessionID != nil {
			data.SessionID = *resp.SessionID
		}
		if err := c.cache.Save(*data); err != nil {
			return &resp, err
		}
	}
	return &resp, nil
}

func (c *Client) post(path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr demoTypes.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("demo API returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return errors.New("demo API returned non-OK status: " + resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
