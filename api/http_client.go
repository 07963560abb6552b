package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
	Logger "github.com/Jim-devENG/ispora-engine-sub002/utils/log"
	"github.com/pkg/errors"
)

// HttpClient is a thin wrapper around net/http carrying the header and
// cookies every request to the backend of record needs (auth token included).
type HttpClient struct {
	header  http.Header
	cookies []http.Cookie

	client *http.Client
}

func NewDefaultHttpClient() *HttpClient {
	return &HttpClient{header: http.Header{}, cookies: []http.Cookie{}, client: &http.Client{}}
}

func NewHttpClient(header http.Header, cookies []http.Cookie) *HttpClient {
	return &HttpClient{header: header, cookies: cookies, client: &http.Client{}}
}

func (c *HttpClient) Get(ctx context.Context, uri string, params map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header = c.header
	query := url.Values{}
	for k, v := range params {
		query.Add(k, v)
	}
	req.URL.RawQuery = query.Encode()
	for _, cookie := range c.cookies {
		req.AddCookie(&cookie)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if IsNon200HttpResponse(res) {
		MaybeLogNon200HttpError(res)
		return nil, errors.New(fmt.Sprintf("non-200 http code: %d", res.StatusCode))
	}

	return res, err
}

func (c *HttpClient) Post(ctx context.Context, uri string, body interface{}) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", uri, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header = c.header
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range c.cookies {
		req.AddCookie(&cookie)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if IsNon200HttpResponse(res) {
		MaybeLogNon200HttpError(res)
		return nil, errors.New(fmt.Sprintf("non-200 http code: %d", res.StatusCode))
	}

	return res, err
}

// Log http response if the error code is not 2XX
func MaybeLogNon200HttpError(res *http.Response) {
	if IsNon200HttpResponse(res) {
		Logger.Log.Errorf("non-200 http code: %d", res.StatusCode)
		LogHttpResponseBody(res)
	}
}

func IsNon200HttpResponse(res *http.Response) bool {
	return res.StatusCode >= 300
}

func LogHttpResponseBody(res *http.Response) {
	body, err := ioutil.ReadAll(res.Body)
	if err == nil {
		Logger.Log.Errorln("response body is: ", string(body))
	}
}

// HttpFeedClient implements ProjectReader, FeedReader and ProjectJoiner
// against the backend of record's REST API.
type HttpFeedClient struct {
	baseUrl string
	client  *HttpClient
}

func NewHttpFeedClient(baseUrl string, client *HttpClient) *HttpFeedClient {
	if client == nil {
		client = NewDefaultHttpClient()
	}
	return &HttpFeedClient{baseUrl: baseUrl, client: client}
}

type listFeedItemsResponse struct {
	Items []*model.FeedItem `json:"items"`
}

type listProjectsResponse struct {
	Projects []*model.Project `json:"projects"`
}

func (c *HttpFeedClient) ListFeedItems(ctx context.Context, limit int) ([]*model.FeedItem, error) {
	res, err := c.client.Get(ctx, c.baseUrl+"/api/feed", map[string]string{
		"limit": strconv.Itoa(limit),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to fetch feed items")
	}
	defer res.Body.Close()

	var decoded listFeedItemsResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "fail to decode feed items response")
	}
	return decoded.Items, nil
}

func (c *HttpFeedClient) ListProjects(ctx context.Context) ([]*model.Project, error) {
	res, err := c.client.Get(ctx, c.baseUrl+"/api/projects", nil)
	if err != nil {
		return nil, errors.Wrap(err, "fail to fetch projects")
	}
	defer res.Body.Close()

	var decoded listProjectsResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "fail to decode projects response")
	}
	return decoded.Projects, nil
}

// SubscriptionUrl returns the websocket address of the feed event stream.
func (c *HttpFeedClient) SubscriptionUrl() string {
	ws := strings.Replace(c.baseUrl, "http", "ws", 1)
	return ws + "/api/feed/subscription"
}

func (c *HttpFeedClient) JoinProject(ctx context.Context, projectId string, userId string) error {
	res, err := c.client.Post(ctx, c.baseUrl+"/api/projects/"+projectId+"/join", map[string]string{
		"userId": userId,
	})
	if err != nil {
		return errors.Wrap(err, "fail to join project "+projectId)
	}
	res.Body.Close()
	return nil
}
