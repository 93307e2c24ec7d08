package solar

import "time"

// AssetType classifies a node in the plant hierarchy.
type AssetType string

const (
	AssetPlant    AssetType = "plant"
	AssetSubPlant AssetType = "sub_plant"
	AssetInverter AssetType = "inverter"
	AssetString   AssetType = "string"
	AssetPanel    AssetType = "panel"
	AssetSensor   AssetType = "sensor"
)

// AssetStatus is the operational state of an asset.
type AssetStatus string

const (
	AssetActive         AssetStatus = "active"
	AssetInactive       AssetStatus = "inactive"
	AssetMaintenance    AssetStatus = "maintenance"
	AssetDecommissioned AssetStatus = "decommissioned"
)

// TemplateCategory classifies an asset template.
type TemplateCategory string

const (
	CategoryHardware   TemplateCategory = "hardware"
	CategoryConsumable TemplateCategory = "consumable"
	CategoryLicense    TemplateCategory = "license"
)

// Location is a physical site or area assets are assigned to.
type Location struct {
	ID          int       `json:"id"`
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	ParentID    *int      `json:"parent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AssetTemplate describes a model of equipment that assets and inventory
// entries are instantiated from.
type AssetTemplate struct {
	ID                  int              `json:"id"`
	UUID                string           `json:"uuid"`
	Name                string           `json:"name"`
	Code                string           `json:"code"`
	AssetType           AssetType        `json:"asset_type"`
	Category            TemplateCategory `json:"category"`
	Manufacturer        string           `json:"manufacturer,omitempty"`
	ModelNumber         string           `json:"model_number,omitempty"`
	Description         string           `json:"description,omitempty"`
	DefaultConfig       map[string]any   `json:"default_config"`
	UnitPrice           *float64         `json:"unit_price,omitempty"`
	LicenseDurationDays *int             `json:"license_duration_days,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// Asset is a node in the monitored plant hierarchy.
type Asset struct {
	ID               int            `json:"id"`
	UUID             string         `json:"uuid"`
	TemplateID       int            `json:"template_id"`
	Name             string         `json:"name"`
	Code             string         `json:"code"`
	AssetType        AssetType      `json:"asset_type"`
	Status           AssetStatus    `json:"status"`
	ParentID         *int           `json:"parent_id,omitempty"`
	LocationID       *int           `json:"location_id,omitempty"`
	InstallationDate *time.Time     `json:"installation_date,omitempty"`
	Config           map[string]any `json:"config"`
	RealtimeDataTag  string         `json:"realtime_data_tag,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	CreatedByID      int            `json:"created_by_id"`

	// Related objects, populated only by some endpoints.
	Template *AssetTemplate `json:"template,omitempty"`
	Location *Location      `json:"location,omitempty"`
	Children []Asset        `json:"children,omitempty"`
	Sensors  []Sensor       `json:"sensors,omitempty"`
}

// Item is a physical component deployed into an asset.
type Item struct {
	ID               int            `json:"id"`
	UUID             string         `json:"uuid"`
	AssetID          int            `json:"asset_id"`
	TemplateID       int            `json:"template_id"`
	Name             string         `json:"name"`
	Code             string         `json:"code"`
	Status           AssetStatus    `json:"status"`
	InstallationDate *time.Time     `json:"installation_date,omitempty"`
	Config           map[string]any `json:"config"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Sensor is a measurement channel attached to an asset.
type Sensor struct {
	ID         int            `json:"id"`
	UUID       string         `json:"uuid"`
	AssetID    int            `json:"asset_id"`
	Name       string         `json:"name"`
	Code       string         `json:"code"`
	SensorType string         `json:"sensor_type"`
	Unit       string         `json:"unit"`
	DataType   string         `json:"data_type"`
	Config     map[string]any `json:"config"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Inventory is a stock entry for a template at a location.
type Inventory struct {
	ID                int        `json:"id"`
	UUID              string     `json:"uuid"`
	TemplateID        int        `json:"template_id"`
	Quantity          int        `json:"quantity"`
	AvailableQuantity int        `json:"available_quantity"`
	ReservedQuantity  int        `json:"reserved_quantity"`
	LocationID        *int       `json:"location_id,omitempty"`
	BatchNumber       string     `json:"batch_number,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Template *AssetTemplate `json:"template,omitempty"`
	Location *Location      `json:"location,omitempty"`
}

// Paginated is the list envelope used by the assets API.
type Paginated[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// AssetHierarchy is the subtree rooted at an asset.
type AssetHierarchy struct {
	Asset    Asset   `json:"asset"`
	Children []Asset `json:"children"`
}

// AssetAncestors is the chain from an asset up to its plant root.
type AssetAncestors struct {
	Asset     Asset   `json:"asset"`
	Ancestors []Asset `json:"ancestors"`
}

// AssetCreate is the body for creating an asset.
type AssetCreate struct {
	TemplateID       int            `json:"template_id"`
	Name             string         `json:"name"`
	Code             string         `json:"code"`
	AssetType        AssetType      `json:"asset_type"`
	Status           AssetStatus    `json:"status"`
	ParentID         *int           `json:"parent_id,omitempty"`
	LocationID       *int           `json:"location_id,omitempty"`
	InstallationDate *time.Time     `json:"installation_date,omitempty"`
	Config           map[string]any `json:"config"`
	RealtimeDataTag  string         `json:"realtime_data_tag,omitempty"`
}

// AssetUpdate is the body for updating an asset. Nil fields are left
// unchanged.
type AssetUpdate struct {
	TemplateID       *int            `json:"template_id,omitempty"`
	Name             *string         `json:"name,omitempty"`
	Code             *string         `json:"code,omitempty"`
	AssetType        *AssetType      `json:"asset_type,omitempty"`
	Status           *AssetStatus    `json:"status,omitempty"`
	ParentID         *int            `json:"parent_id,omitempty"`
	LocationID       *int            `json:"location_id,omitempty"`
	InstallationDate *time.Time      `json:"installation_date,omitempty"`
	Config           *map[string]any `json:"config,omitempty"`
	RealtimeDataTag  *string         `json:"realtime_data_tag,omitempty"`
}

// LocationCreate is the body for creating a location.
type LocationCreate struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	ParentID    *int   `json:"parent_id,omitempty"`
}

// LocationUpdate is the body for updating a location.
type LocationUpdate struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
	ParentID    *int    `json:"parent_id,omitempty"`
}

// TemplateCreate is the body for creating an asset template.
type TemplateCreate struct {
	Name                string           `json:"name"`
	Code                string           `json:"code"`
	AssetType           AssetType        `json:"asset_type"`
	Category            TemplateCategory `json:"category"`
	Manufacturer        string           `json:"manufacturer,omitempty"`
	ModelNumber         string           `json:"model_number,omitempty"`
	Description         string           `json:"description,omitempty"`
	DefaultConfig       map[string]any   `json:"default_config"`
	UnitPrice           *float64         `json:"unit_price,omitempty"`
	LicenseDurationDays *int             `json:"license_duration_days,omitempty"`
}

// TemplateUpdate is the body for updating an asset template.
type TemplateUpdate struct {
	Name                *string           `json:"name,omitempty"`
	Code                *string           `json:"code,omitempty"`
	AssetType           *AssetType        `json:"asset_type,omitempty"`
	Category            *TemplateCategory `json:"category,omitempty"`
	Manufacturer        *string           `json:"manufacturer,omitempty"`
	ModelNumber         *string           `json:"model_number,omitempty"`
	Description         *string           `json:"description,omitempty"`
	DefaultConfig       *map[string]any   `json:"default_config,omitempty"`
	UnitPrice           *float64          `json:"unit_price,omitempty"`
	LicenseDurationDays *int              `json:"license_duration_days,omitempty"`
}

// InventoryCreate is the body for creating an inventory entry.
type InventoryCreate struct {
	TemplateID  int        `json:"template_id"`
	Quantity    int        `json:"quantity"`
	LocationID  *int       `json:"location_id,omitempty"`
	BatchNumber string     `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

// InventoryUpdate is the body for updating an inventory entry.
type InventoryUpdate struct {
	Quantity    *int       `json:"quantity,omitempty"`
	LocationID  *int       `json:"location_id,omitempty"`
	BatchNumber *string    `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

// ListParams are the common query parameters for asset-side list
// endpoints. Zero values are omitted from the request.
type ListParams struct {
	Skip       int
	Limit      int
	Search     string
	AssetType  AssetType
	Status     AssetStatus
	Category   TemplateCategory
	LocationID int
	ParentID   int
	TemplateID int
}
