package ledger

import "time"

// CostCenter is a node in a company's cost-center tree.
type CostCenter struct {
	ID             string    `json:"id"`
	CostCenterName string    `json:"cost_center_name"`
	Company        string    `json:"company"`
	ParentID       string    `json:"parent_cost_center,omitempty"`
	IsGroup        bool      `json:"is_group"`
	CreatedAt      time.Time `json:"created_at"`
}

// Warehouse is a stock location owned by a company.
type Warehouse struct {
	ID            string    `json:"id"`
	WarehouseName string    `json:"warehouse_name"`
	Company       string    `json:"company"`
	ParentID      string    `json:"parent_warehouse,omitempty"`
	IsGroup       bool      `json:"is_group"`
	WarehouseType string    `json:"warehouse_type,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	WarehouseTypeTransit = "Transit"
	WarehouseTypeScrap   = "Scrap"

	AllWarehouses = "All Warehouses"
)

// CompanyScopedName renders the host's "<name> - <abbr>" record naming.
func CompanyScopedName(name, abbr string) string {
	if abbr == "" {
		return name
	}
	return name + " - " + abbr
}
