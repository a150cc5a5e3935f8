// Package api is the client for the remote storefront backend.
//
// Every method maps to one endpoint. Failures come back as
// *apperr.Error of kind Network carrying the server's "message" when the
// body has one, else the transport's error text. Reads may be retried
// (WithRetries, API_RETRIES); POST, including order placement, never is.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/http"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/state"
)

type Client struct {
	base    string
	timeout time.Duration
	retries int
}

// New returns a client for base (e.g. https://shop.example.com). A zero
// timeout leaves deadlines to the caller's context.
func New(base string, timeout time.Duration) *Client {
	return &Client{base: strings.TrimRight(base, "/"), timeout: timeout, retries: 1}
}

// WithRetries lets reads be attempted up to n times. Order placement is
// never retried.
func (c *Client) WithRetries(n int) *Client {
	c.retries = max(n, 1)
	return c
}

// FromConfig builds a client from API_BASE_URL, API_TIMEOUT and API_RETRIES.
func FromConfig() *Client {
	return New(config.APIBaseURL(), config.APITimeout()).WithRetries(config.APIRetries())
}

const retryWait = 200 * time.Millisecond

func (c *Client) BaseURL() string { return c.base }

func (c *Client) url(path string) string { return c.base + path }

func (c *Client) request(ctx context.Context, req *http.Request, token string) *http.Request {
	return req.WithContext(ctx).Timeout(c.timeout).Retry(c.retries, retryWait).Bearer(token)
}

// send executes req and decodes a 2xx body into dest (if non-nil).
func (c *Client) send(endpoint string, req *http.Request, dest any) error {
	start := time.Now()

	resp, err := req.Send()
	if err != nil {
		metrics.ObserveAPI(endpoint, "error", start)
		return apperr.NetworkErr(0, err.Error(), err)
	}
	metrics.ObserveAPI(endpoint, strconv.Itoa(resp.StatusCode), start)

	if !resp.OK() {
		return apperr.NetworkErr(resp.StatusCode, serverMessage(resp), nil)
	}
	if dest == nil {
		return nil
	}
	if err := resp.JSON(dest); err != nil {
		return apperr.NetworkErr(resp.StatusCode, "Unexpected response from server", err)
	}
	return nil
}

// serverMessage prefers the backend's {"message": "..."} text.
func serverMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(resp.Raw, &body) == nil && body.Message != "" {
		return body.Message
	}
	return fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	err := c.send("products.list", c.request(ctx, http.Get(c.url("/api/products")), ""), &out)
	if out == nil {
		out = []Product{}
	}
	return out, err
}

func (c *Client) Product(ctx context.Context, id string) (Product, error) {
	var out Product
	err := c.send("products.show", c.request(ctx, http.Get(c.url("/api/products/"+url.PathEscape(id))), ""), &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, cred Credentials) (state.Session, error) {
	var out state.Session
	err := c.send("users.login", c.request(ctx, http.Post(c.url("/api/users/login")).Body(cred), ""), &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, reg Registration) (state.Session, error) {
	var out state.Session
	err := c.send("users.register", c.request(ctx, http.Post(c.url("/api/users")).Body(reg), ""), &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, token string, upd ProfileUpdate) (state.Session, error) {
	var out state.Session
	err := c.send("users.profile", c.request(ctx, http.Put(c.url("/api/users/profile")).Body(upd), token), &out)
	return out, err
}

// Users lists every account. The backend only answers for admins.
func (c *Client) Users(ctx context.Context, token string) ([]User, error) {
	var out []User
	err := c.send("users.list", c.request(ctx, http.Get(c.url("/api/users")), token), &out)
	if out == nil {
		out = []User{}
	}
	return out, err
}

// CreateOrder posts req and returns the created order.
func (c *Client) CreateOrder(ctx context.Context, token string, req OrderRequest) (Order, error) {
	var out createdOrder
	if err := c.send("orders.create", c.request(ctx, http.Post(c.url("/api/orders")).Body(req), token), &out); err != nil {
		return Order{}, err
	}
	if out.Order.ID == "" {
		return Order{}, apperr.NetworkErr(0, "Unexpected response from server", fmt.Errorf("api: created order has no id"))
	}
	return out.Order, nil
}

func (c *Client) Order(ctx context.Context, token, id string) (Order, error) {
	var out Order
	err := c.send("orders.show", c.request(ctx, http.Get(c.url("/api/orders/"+url.PathEscape(id))), token), &out)
	return out, err
}

// MyOrders lists the caller's orders.
func (c *Client) MyOrders(ctx context.Context, token string) ([]Order, error) {
	var out []Order
	err := c.send("orders.mine", c.request(ctx, http.Get(c.url("/api/orders/myorders")), token), &out)
	if out == nil {
		out = []Order{}
	}
	return out, err
}
