// Package garage prepares a Garage cluster to hold recipe images
// through its v2 admin API.
package garage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	mHttp "github.com/matt-dz/foodgram/internal/http"
)

type role struct {
	Zone     string   `json:"zone"`
	Tags     []string `json:"tags"`
	Capacity int64    `json:"capacity"`
	ID       string   `json:"id"`
}

type node struct {
	ID       string  `json:"id"`
	Hostname *string `json:"hostname"`
	IsUp     *bool   `json:"isUp"`
}

type getClusterStatusResponse struct {
	LayoutVersion int    `json:"layoutVersion"`
	Nodes         []node `json:"nodes"`
}

type zoneRedundancy struct {
	AtLeast int64 `json:"atLeast"`
}

type layoutParameters struct {
	ZoneRedundancy zoneRedundancy `json:"zoneRedundancy"`
}

type updateClusterLayoutRequest struct {
	Parameters layoutParameters `json:"parameters"`
	Roles      []role           `json:"roles"`
}

type applyClusterLayoutRequest struct {
	Version int64 `json:"version"`
}

type createBucketRequest struct {
	GlobalAlias string `json:"globalAlias"`
}

type bucketInfo struct {
	ID string `json:"id"`
}

const (
	defaultZone           = "dc1"
	defaultCapacity int64 = 500_000_000_000 // 500 GB
)

var layoutTags = []string{"storage"}

type Client struct {
	http    mHttp.HTTPDoer
	baseURL string
	token   string
}

func NewClient(adminHost, adminToken string, doer mHttp.HTTPDoer) *Client {
	base := strings.TrimRight(adminHost, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		http:    doer,
		baseURL: base,
		token:   adminToken,
	}
}

func (c *Client) endpoint(name string) string {
	return c.baseURL + "/v2/" + name
}

// InitializeLayout assigns every known node a storage role and applies
// the layout. Clusters that already have a layout are left untouched.
func (c *Client) InitializeLayout(ctx context.Context) error {
	var status getClusterStatusResponse
	if err := mHttp.DoJSON(ctx, c.http, http.MethodGet, c.endpoint("GetClusterStatus"), c.token, nil, &status); err != nil {
		return fmt.Errorf("getting cluster status: %w", err)
	}
	if status.LayoutVersion > 0 {
		return nil
	}
	if len(status.Nodes) == 0 {
		return errors.New("no nodes found in garage cluster")
	}

	update := updateClusterLayoutRequest{
		Parameters: layoutParameters{ZoneRedundancy: zoneRedundancy{AtLeast: 1}},
		Roles:      make([]role, 0, len(status.Nodes)),
	}
	for _, n := range status.Nodes {
		update.Roles = append(update.Roles, role{
			Zone:     defaultZone,
			Tags:     layoutTags,
			Capacity: defaultCapacity,
			ID:       n.ID,
		})
	}
	if err := mHttp.DoJSON(ctx, c.http, http.MethodPost, c.endpoint("UpdateClusterLayout"), c.token, update, nil); err != nil {
		return fmt.Errorf("updating cluster layout: %w", err)
	}

	apply := applyClusterLayoutRequest{Version: int64(status.LayoutVersion + 1)}
	if err := mHttp.DoJSON(ctx, c.http, http.MethodPost, c.endpoint("ApplyClusterLayout"), c.token, apply, nil); err != nil {
		return fmt.Errorf("applying cluster layout: %w", err)
	}
	return nil
}

// EnsureBucket creates a bucket with the given global alias unless one
// already exists.
func (c *Client) EnsureBucket(ctx context.Context, alias string) error {
	var info bucketInfo
	lookup := c.endpoint("GetBucketInfo") + "?globalAlias=" + url.QueryEscape(alias)
	err := mHttp.DoJSON(ctx, c.http, http.MethodGet, lookup, c.token, nil, &info)
	if err == nil {
		return nil
	}
	var statusErr *mHttp.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		return fmt.Errorf("looking up bucket %q: %w", alias, err)
	}

	if err := mHttp.DoJSON(ctx, c.http, http.MethodPost, c.endpoint("CreateBucket"), c.token,
		createBucketRequest{GlobalAlias: alias}, nil); err != nil {
		return fmt.Errorf("creating bucket %q: %w", alias, err)
	}
	return nil
}
