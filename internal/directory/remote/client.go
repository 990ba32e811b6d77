// Package remote implements directory.Service against the SCA platform's
// management API: a single HTTP endpoint taking JSON bodies dispatched on
// requestType, authenticated with an administrative user key. The API
// reports failures through an errorCode/errorMessage envelope inside 200
// responses, so both the HTTP status and the envelope are checked.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"orgsync.dev/internal/directory"
	"orgsync.dev/internal/obs"
)

// Management API error codes treated as idempotent success, honouring the
// directory.Service contract (create-existing and delete-non-member are
// no-ops).
const (
	codeUserAlreadyExists  = 2013
	codeGroupAlreadyExists = 2014
	codeUserNotInOrg       = 2015
)

// Client wraps the management API endpoint. It is safe for concurrent use.
type Client struct {
	baseURL     string
	userKey     string
	globalToken string
	httpClient  *http.Client
}

// New creates a client with sensible defaults. A nil httpClient selects a
// default client with a 30s per-call timeout; request contexts cut calls
// shorter.
func New(baseURL, userKey, globalToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:     baseURL,
		userKey:     userKey,
		globalToken: globalToken,
		httpClient:  httpClient,
	}
}

// request is the union of fields the management API accepts; zero fields
// are omitted from the wire.
type request struct {
	RequestType  string     `json:"requestType"`
	UserKey      string     `json:"userKey"`
	OrgToken     string     `json:"orgToken,omitempty"`
	ProductToken string     `json:"productToken,omitempty"`
	RoleType     string     `json:"roleType,omitempty"`
	GroupName    string     `json:"groupName,omitempty"`
	UserEmail    string     `json:"userEmail,omitempty"`
	Group        *groupSpec `json:"group,omitempty"`
	Inviter      *userRef   `json:"inviter,omitempty"`
	AddedUser    *userSpec  `json:"addedUser,omitempty"`
}

type groupSpec struct {
	Name string `json:"name"`
}

type userRef struct {
	Email string `json:"email"`
}

type userSpec struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type productRecord struct {
	ProductName  string `json:"productName"`
	ProductToken string `json:"productToken"`
	OrgToken     string `json:"orgToken"`
}

type envelope struct {
	ErrorCode    int             `json:"errorCode"`
	ErrorMessage string          `json:"errorMessage"`
	Products     []productRecord `json:"products"`
}

// ListProducts fetches every product scope visible to the global token.
func (c *Client) ListProducts(ctx context.Context) ([]directory.Product, error) {
	env, err := c.call(ctx, request{
		RequestType: "getAllProducts",
		OrgToken:    c.globalToken,
	})
	if err != nil {
		return nil, err
	}
	products := make([]directory.Product, 0, len(env.Products))
	for _, rec := range env.Products {
		products = append(products, directory.Product{
			Name:     rec.ProductName,
			Token:    rec.ProductToken,
			OrgToken: rec.OrgToken,
		})
	}
	return products, nil
}

func (c *Client) CreateUser(ctx context.Context, orgToken, username, email, inviterEmail string) error {
	_, err := c.call(ctx, request{
		RequestType: "createUser",
		OrgToken:    orgToken,
		Inviter:     &userRef{Email: inviterEmail},
		AddedUser:   &userSpec{Name: username, Email: email},
	}, codeUserAlreadyExists)
	return err
}

func (c *Client) CreateGroup(ctx context.Context, orgToken, name string) error {
	_, err := c.call(ctx, request{
		RequestType: "createGroup",
		OrgToken:    orgToken,
		Group:       &groupSpec{Name: name},
	}, codeGroupAlreadyExists)
	return err
}

func (c *Client) AssignUserToGroup(ctx context.Context, orgToken, email, groupName string) error {
	_, err := c.call(ctx, request{
		RequestType: "addUsersToGroups",
		OrgToken:    orgToken,
		GroupName:   groupName,
		UserEmail:   email,
	})
	return err
}

func (c *Client) AssignGroupToScope(ctx context.Context, orgToken string, role directory.Role, groupName, scopeToken string) error {
	_, err := c.call(ctx, request{
		RequestType:  "setProductAssignments",
		OrgToken:     orgToken,
		ProductToken: scopeToken,
		RoleType:     string(role),
		GroupName:    groupName,
	})
	return err
}

// DeleteUser removes the user from one organization, or from the whole
// account when orgToken is empty.
func (c *Client) DeleteUser(ctx context.Context, email, orgToken string) error {
	rq := request{
		RequestType: "removeUserFromOrganization",
		OrgToken:    orgToken,
		UserEmail:   email,
	}
	if orgToken == "" {
		rq.RequestType = "deleteUser"
		rq.OrgToken = c.globalToken
	}
	_, err := c.call(ctx, rq, codeUserNotInOrg)
	return err
}

// call issues one management-API request and decodes the envelope. Error
// codes listed in benign are mapped to success.
func (c *Client) call(ctx context.Context, rq request, benign ...int) (env *envelope, err error) {
	start := time.Now()
	defer func() {
		obs.ObserveDirectoryRequest(rq.RequestType, err, time.Since(start))
	}()

	rq.UserKey = c.userKey
	body, err := json.Marshal(rq)
	if err != nil {
		return nil, &directory.CallError{Op: rq.RequestType, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &directory.CallError{Op: rq.RequestType, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &directory.CallError{Op: rq.RequestType, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, &directory.CallError{Op: rq.RequestType, Err: err}
	}
	if resp.StatusCode >= 300 {
		return nil, &directory.CallError{
			Op:  rq.RequestType,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(data, 256)),
		}
	}

	env = new(envelope)
	if len(data) > 0 {
		if err := json.Unmarshal(data, env); err != nil {
			return nil, &directory.CallError{Op: rq.RequestType, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	if env.ErrorCode != 0 {
		for _, code := range benign {
			if env.ErrorCode == code {
				return env, nil
			}
		}
		return nil, &directory.CallError{
			Op:  rq.RequestType,
			Err: fmt.Errorf("error %d: %s", env.ErrorCode, env.ErrorMessage),
		}
	}
	return env, nil
}

func truncate(data []byte, max int) string {
	if len(data) <= max {
		return string(data)
	}
	return string(data[:max]) + "..."
}
