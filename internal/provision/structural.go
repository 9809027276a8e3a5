package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/store"
)

const (
	StepStructural = "defaults.structural"

	// LegacyMainCostCenter is the primary cost center name older installs used
	// regardless of the company abbreviation.
	LegacyMainCostCenter = "Main - FE"
	mainCostCenterName   = "Main"
)

// StructuralResolver bootstraps the cost-center tree and the default warehouses.
type StructuralResolver struct {
	repo       Repository
	warehouses []WarehouseBlueprint
}

func NewStructuralResolver(repo Repository, warehouses []WarehouseBlueprint) *StructuralResolver {
	return &StructuralResolver{repo: repo, warehouses: warehouses}
}

// Resolve ensures the structure exists and returns the cost-center and warehouse
// fields it could fill.
func (r *StructuralResolver) Resolve(ctx context.Context, company string) (ledger.Defaults, error) {
	c, err := r.repo.GetCompany(ctx, company)
	if err != nil {
		return nil, err
	}

	defaults := ledger.Defaults{}

	if _, err := r.ensureCostCenterTree(ctx, c); err != nil {
		return nil, err
	}
	primary, err := r.primaryCostCenter(ctx, c)
	if err != nil {
		return nil, err
	}
	if primary != "" {
		defaults[ledger.FieldCostCenter] = primary
		defaults[ledger.FieldRoundOffCostCenter] = primary
		defaults[ledger.FieldDepreciationCostCenter] = primary
	}

	for _, wb := range r.warehouses {
		id, err := r.ensureWarehouse(ctx, c, wb)
		if err != nil {
			return nil, fmt.Errorf("warehouse %s: %w", wb.WarehouseName, err)
		}
		defaults[wb.Field] = id
	}
	return defaults, nil
}

// ensureCostCenterTree creates "<company> - <abbr>" and its child "Main - <abbr>" when
// missing and returns the child's id.
func (r *StructuralResolver) ensureCostCenterTree(ctx context.Context, c *ledger.Company) (string, error) {
	rootID := ledger.CompanyScopedName(c.Name, c.Abbr)
	exists, err := r.repo.CostCenterExists(ctx, rootID)
	if err != nil {
		return "", err
	}
	if !exists {
		root := &ledger.CostCenter{ID: rootID, CostCenterName: c.Name, Company: c.Name, IsGroup: true}
		if err := r.repo.CreateCostCenter(ctx, root); err != nil {
			return "", err
		}
	}

	mainID := ledger.CompanyScopedName(mainCostCenterName, c.Abbr)
	exists, err = r.repo.CostCenterExists(ctx, mainID)
	if err != nil {
		return "", err
	}
	if !exists {
		mainCC := &ledger.CostCenter{ID: mainID, CostCenterName: mainCostCenterName, Company: c.Name, ParentID: rootID}
		if err := r.repo.CreateCostCenter(ctx, mainCC); err != nil {
			return "", err
		}
	}
	return mainID, nil
}

// primaryCostCenter tolerates legacy naming: "Main - FE", then "Main - <abbr>", then any
// leaf named "Main", then any leaf at all, and finally a freshly bootstrapped tree.
func (r *StructuralResolver) primaryCostCenter(ctx context.Context, c *ledger.Company) (string, error) {
	leaf := false
	lookups := []store.CostCenterFilter{
		{Company: c.Name, ID: LegacyMainCostCenter, IsGroup: &leaf},
		{Company: c.Name, ID: ledger.CompanyScopedName(mainCostCenterName, c.Abbr), IsGroup: &leaf},
		{Company: c.Name, CostCenterName: mainCostCenterName, IsGroup: &leaf},
		{Company: c.Name, IsGroup: &leaf},
	}
	for _, f := range lookups {
		cc, err := r.repo.FindCostCenter(ctx, f)
		if errors.Is(err, ledger.ErrCostCenterNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		return cc.ID, nil
	}
	return r.ensureCostCenterTree(ctx, c)
}

func (r *StructuralResolver) ensureWarehouse(ctx context.Context, c *ledger.Company, wb WarehouseBlueprint) (string, error) {
	existing, err := r.repo.FindWarehouse(ctx, store.WarehouseFilter{Company: c.Name, WarehouseName: wb.WarehouseName})
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, ledger.ErrWarehouseNotFound) {
		return "", err
	}

	parent, err := r.warehouseParent(ctx, c)
	if err != nil {
		return "", err
	}
	if wb.WarehouseType != "" {
		if err := r.repo.EnsureWarehouseType(ctx, wb.WarehouseType); err != nil {
			return "", err
		}
	}

	w := &ledger.Warehouse{
		WarehouseName: wb.WarehouseName,
		Company:       c.Name,
		ParentID:      parent,
		WarehouseType: wb.WarehouseType,
	}
	if err := r.repo.CreateWarehouse(ctx, w); err != nil {
		return "", err
	}
	return w.ID, nil
}

// warehouseParent returns "All Warehouses", any group warehouse, or a new root group.
func (r *StructuralResolver) warehouseParent(ctx context.Context, c *ledger.Company) (string, error) {
	group := true
	for _, f := range []store.WarehouseFilter{
		{Company: c.Name, WarehouseName: ledger.AllWarehouses},
		{Company: c.Name, IsGroup: &group},
	} {
		w, err := r.repo.FindWarehouse(ctx, f)
		if err == nil {
			return w.ID, nil
		}
		if !errors.Is(err, ledger.ErrWarehouseNotFound) {
			return "", err
		}
	}

	root := &ledger.Warehouse{WarehouseName: ledger.AllWarehouses, Company: c.Name, IsGroup: true}
	if err := r.repo.CreateWarehouse(ctx, root); err != nil {
		return "", err
	}
	return root.ID, nil
}
