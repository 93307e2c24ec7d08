package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"solarops/pkg/solar"
)

// AssetsClient wraps the asset, location, template and inventory
// endpoints of the monitoring API.
type AssetsClient struct {
	c *Client
}

// NewAssetsClient creates an AssetsClient on top of the shared client.
func NewAssetsClient(c *Client) *AssetsClient {
	return &AssetsClient{c: c}
}

func (a *AssetsClient) listQuery(params solar.ListParams) url.Values {
	q := url.Values{}
	intQuery(q, "skip", params.Skip)
	intQuery(q, "limit", params.Limit)
	strQuery(q, "search", params.Search)
	strQuery(q, "asset_type", string(params.AssetType))
	strQuery(q, "status", string(params.Status))
	strQuery(q, "category", string(params.Category))
	intQuery(q, "location_id", params.LocationID)
	intQuery(q, "parent_id", params.ParentID)
	intQuery(q, "template_id", params.TemplateID)
	return q
}

// List returns assets matching the filter parameters.
func (a *AssetsClient) List(ctx context.Context, params solar.ListParams) (*solar.Paginated[solar.Asset], error) {
	var out solar.Paginated[solar.Asset]
	if err := a.c.do(ctx, http.MethodGet, "/assets/", a.listQuery(params), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns a single asset by ID.
func (a *AssetsClient) Get(ctx context.Context, id int) (*solar.Asset, error) {
	var out solar.Asset
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/assets/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByUUID returns a single asset by its UUID.
func (a *AssetsClient) GetByUUID(ctx context.Context, assetUUID string) (*solar.Asset, error) {
	var out solar.Asset
	path := "/assets/uuid/" + url.PathEscape(assetUUID)
	if err := a.c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create creates an asset.
func (a *AssetsClient) Create(ctx context.Context, body solar.AssetCreate) (*solar.Asset, error) {
	var out solar.Asset
	if err := a.c.do(ctx, http.MethodPost, "/assets/", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies an asset. Nil fields in body are left unchanged.
func (a *AssetsClient) Update(ctx context.Context, id int, body solar.AssetUpdate) (*solar.Asset, error) {
	var out solar.Asset
	if err := a.c.do(ctx, http.MethodPut, fmt.Sprintf("/assets/%d", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an asset.
func (a *AssetsClient) Delete(ctx context.Context, id int) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/assets/%d", id), nil, nil, nil)
}

// Hierarchy returns the subtree rooted at the asset.
func (a *AssetsClient) Hierarchy(ctx context.Context, id int) (*solar.AssetHierarchy, error) {
	var out solar.AssetHierarchy
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/assets/%d/hierarchy", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ancestors returns the chain from the asset up to its plant root.
func (a *AssetsClient) Ancestors(ctx context.Context, id int) (*solar.AssetAncestors, error) {
	var out solar.AssetAncestors
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/assets/%d/ancestors", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Items lists the physical items deployed into an asset.
func (a *AssetsClient) Items(ctx context.Context, assetID int, params solar.ListParams) (*solar.Paginated[solar.Item], error) {
	var out solar.Paginated[solar.Item]
	path := fmt.Sprintf("/assets/%d/items", assetID)
	if err := a.c.do(ctx, http.MethodGet, path, a.listQuery(params), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sensors lists the measurement channels attached to an asset.
func (a *AssetsClient) Sensors(ctx context.Context, assetID int, params solar.ListParams) (*solar.Paginated[solar.Sensor], error) {
	var out solar.Paginated[solar.Sensor]
	path := fmt.Sprintf("/assets/%d/sensors", assetID)
	if err := a.c.do(ctx, http.MethodGet, path, a.listQuery(params), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListLocations returns locations matching the filter parameters.
func (a *AssetsClient) ListLocations(ctx context.Context, params solar.ListParams) (*solar.Paginated[solar.Location], error) {
	var out solar.Paginated[solar.Location]
	if err := a.c.do(ctx, http.MethodGet, "/assets/locations/", a.listQuery(params), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLocation returns a single location by ID.
func (a *AssetsClient) GetLocation(ctx context.Context, id int) (*solar.Location, error) {
	var out solar.Location
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/assets/locations/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLocation creates a location.
func (a *AssetsClient) CreateLocation(ctx context.Context, body solar.LocationCreate) (*solar.Location, error) {
	var out solar.Location
	if err := a.c.do(ctx, http.MethodPost, "/assets/locations/", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLocation modifies a location.
func (a *AssetsClient) UpdateLocation(ctx context.Context, id int, body solar.LocationUpdate) (*solar.Location, error) {
	var out solar.Location
	if err := a.c.do(ctx, http.MethodPut, fmt.Sprintf("/assets/locations/%d", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLocation removes a location.
func (a *AssetsClient) DeleteLocation(ctx context.Context, id int) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/assets/locations/%d", id), nil, nil, nil)
}

// ListTemplates returns asset templates matching the filter parameters.
func (a *AssetsClient) ListTemplates(ctx context.Context, params solar.ListParams) (*solar.Paginated[solar.AssetTemplate], error) {
	var out solar.Paginated[solar.AssetTemplate]
	if err := a.c.do(ctx, http.MethodGet, "/assets/templates/", a.listQuery(params), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTemplate returns a single asset template by ID.
func (a *AssetsClient) GetTemplate(ctx context.Context, id int) (*solar.AssetTemplate, error) {
	var out solar.AssetTemplate
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/assets/templates/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTemplate creates an asset template.
func (a *AssetsClient) CreateTemplate(ctx context.Context, body solar.TemplateCreate) (*solar.AssetTemplate, error) {
	var out solar.AssetTemplate
	if err := a.c.do(ctx, http.MethodPost, "/assets/templates/", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTemplate modifies an asset template.
func (a *AssetsClient) UpdateTemplate(ctx context.Context, id int, body solar.TemplateUpdate) (*solar.AssetTemplate, error) {
	var out solar.AssetTemplate
	if err := a.c.do(ctx, http.MethodPut, fmt.Sprintf("/assets/templates/%d", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTemplate removes an asset template.
func (a *AssetsClient) DeleteTemplate(ctx context.Context, id int) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/assets/templates/%d", id), nil, nil, nil)
}

// ListInventory returns stock entries matching the filter parameters.
func (a *AssetsClient) ListInventory(ctx context.Context, params solar.ListParams) (*solar.Paginated[solar.Inventory], error) {
	var out solar.Paginated[solar.Inventory]
	if err := a.c.do(ctx, http.MethodGet, "/assets/inventory/", a.listQuery(params), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInventory returns a single stock entry by ID.
func (a *AssetsClient) GetInventory(ctx context.Context, id int) (*solar.Inventory, error) {
	var out solar.Inventory
	if err := a.c.do(ctx, http.MethodGet, fmt.Sprintf("/assets/inventory/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateInventory creates a stock entry.
func (a *AssetsClient) CreateInventory(ctx context.Context, body solar.InventoryCreate) (*solar.Inventory, error) {
	var out solar.Inventory
	if err := a.c.do(ctx, http.MethodPost, "/assets/inventory/", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInventory modifies a stock entry.
func (a *AssetsClient) UpdateInventory(ctx context.Context, id int, body solar.InventoryUpdate) (*solar.Inventory, error) {
	var out solar.Inventory
	if err := a.c.do(ctx, http.MethodPut, fmt.Sprintf("/assets/inventory/%d", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInventory removes a stock entry.
func (a *AssetsClient) DeleteInventory(ctx context.Context, id int) error {
	return a.c.do(ctx, http.MethodDelete, fmt.Sprintf("/assets/inventory/%d", id), nil, nil, nil)
}
