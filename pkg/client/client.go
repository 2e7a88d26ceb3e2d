// Package client 是 fleet_tracker REST API 的 Go 用戶端。
//
// 請求會自動帶上 access token；收到 401 時以 refresh token 換發一次並重送原請求，
// 換發失敗則清除登入狀態並回傳 ErrSessionExpired。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrSessionExpired refresh token 無效，需要重新登入
var ErrSessionExpired = errors.New("session expired, please log in again")

type Client struct {
	baseURL  string
	http     *http.Client
	onTokens func(Tokens)

	mu     sync.Mutex
	tokens Tokens
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokens 使用先前保存的登入狀態
func WithTokens(t Tokens) Option {
	return func(c *Client) { c.tokens = t }
}

// WithTokenHook token 變更（登入、換發、登出）時呼叫，可用於保存登入狀態
func WithTokenHook(fn func(Tokens)) Option {
	return func(c *Client) { c.onTokens = fn }
}

// New baseURL 為伺服器位址，例如 http://localhost:3000
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Tokens() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

func (c *Client) setTokens(t Tokens) {
	c.mu.Lock()
	c.tokens = t
	c.mu.Unlock()
	if c.onTokens != nil {
		c.onTokens(t)
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", nil, body, &res, false); err != nil {
		return nil, err
	}
	c.setTokens(res.Tokens)
	return &res, nil
}

func (c *Client) Register(ctx context.Context, email, password, name, role string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password, "name": name, "role": role}
	if err := c.call(ctx, http.MethodPost, "/api/auth/register", nil, body, &res, false); err != nil {
		return nil, err
	}
	c.setTokens(res.Tokens)
	return &res, nil
}

// Logout 伺服器端不保存 token，本地狀態一律清除
func (c *Client) Logout(ctx context.Context) error {
	err := c.call(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil, true)
	c.setTokens(Tokens{})
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh 以目前的 refresh token 換發新的一組 token
func (c *Client) Refresh(ctx context.Context) error {
	refresh := c.Tokens().RefreshToken
	if refresh == "" {
		return ErrSessionExpired
	}

	var tokens Tokens
	body := map[string]string{"refreshToken": refresh}
	if err := c.call(ctx, http.MethodPost, "/api/auth/refresh", nil, body, &tokens, false); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			c.setTokens(Tokens{})
			return ErrSessionExpired
		}
		return err
	}
	c.setTokens(tokens)
	return nil
}

func (c *Client) ListVehicles(ctx context.Context, opts ListVehiclesOptions) (*VehiclePage, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.SortBy != "" {
		q.Set("sortBy", opts.SortBy)
	}
	if opts.SortOrder != "" {
		q.Set("sortOrder", opts.SortOrder)
	}

	var page VehiclePage
	if err := c.call(ctx, http.MethodGet, "/api/vehicles", q, nil, &page, true); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetVehicle(ctx context.Context, id string) (*Vehicle, error) {
	var v Vehicle
	if err := c.call(ctx, http.MethodGet, "/api/vehicles/"+url.PathEscape(id), nil, nil, &v, true); err != nil {
		return nil, err
	}
	return &v, nil
}

// VehicleStatus date 為空時由伺服器使用今天
func (c *Client) VehicleStatus(ctx context.Context, id, date string) (*DayStatus, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	var day DayStatus
	if err := c.call(ctx, http.MethodGet, "/api/vehicles/"+url.PathEscape(id)+"/status", q, nil, &day, true); err != nil {
		return nil, err
	}
	return &day, nil
}

func (c *Client) RecordStatus(ctx context.Context, id string, in StatusInput) (*StatusRecord, error) {
	var rec StatusRecord
	if err := c.call(ctx, http.MethodPost, "/api/vehicles/"+url.PathEscape(id)+"/status", nil, in, &rec, true); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) CreateVehicle(ctx context.Context, in VehicleInput) (*Vehicle, error) {
	var v Vehicle
	if err := c.call(ctx, http.MethodPost, "/api/vehicles", nil, in, &v, true); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) UpdateVehicle(ctx context.Context, id string, in VehicleInput) (*Vehicle, error) {
	var v Vehicle
	if err := c.call(ctx, http.MethodPut, "/api/vehicles/"+url.PathEscape(id), nil, in, &v, true); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) DeleteVehicle(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/vehicles/"+url.PathEscape(id), nil, nil, nil, true)
}

// DownloadReport 下載 xlsx 或 csv 報表
func (c *Client) DownloadReport(ctx context.Context, req ReportRequest) (*Report, error) {
	path := "/api/reports/generate"
	if req.VehicleID != "" {
		path = "/api/reports/vehicle/" + url.PathEscape(req.VehicleID)
	}
	q := url.Values{"startDate": {req.StartDate}, "endDate": {req.EndDate}}
	if req.Status != "" {
		q.Set("status", req.Status)
	}
	if req.Format != "" {
		q.Set("format", req.Format)
	}

	resp, err := c.do(ctx, http.MethodGet, path, q, nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	report := &Report{ContentType: resp.Header.Get("Content-Type"), Data: data}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		report.Filename = params["filename"]
	}
	return report, nil
}

// call 送出 JSON 請求並將回應的 data 解到 out
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out interface{}, auth bool) error {
	resp, err := c.do(ctx, method, path, query, in, auth)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// do 需要驗證的請求收到 401 時換發 token 並重送一次
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in interface{}, auth bool) (*http.Response, error) {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	access := ""
	if auth {
		access = c.Tokens().AccessToken
	}
	resp, err := c.send(ctx, method, path, query, payload, access)
	if err != nil || !auth || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	resp.Body.Close()

	if err := c.refreshIfStale(ctx, access); err != nil {
		return nil, err
	}
	return c.send(ctx, method, path, query, payload, c.Tokens().AccessToken)
}

// refreshIfStale 其他請求已經換發過時直接使用新的 token
func (c *Client) refreshIfStale(ctx context.Context, used string) error {
	if current := c.Tokens().AccessToken; current != "" && current != used {
		return nil
	}
	return c.Refresh(ctx)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, access string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var env struct {
		Message string       `json:"message"`
		Errors  []FieldError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
		apiErr.Message = env.Message
		apiErr.Errors = env.Errors
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
