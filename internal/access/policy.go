package access

import "github.com/artemvolkov/furnistock-backend/pkg/enums"

// Operation names a role-gated API action.
type Operation string

const (
	OpFurnitureCreate  Operation = "furniture.create"
	OpFurnitureUpdate  Operation = "furniture.update"
	OpFurnitureDelete  Operation = "furniture.delete"
	OpFurnitureSell    Operation = "furniture.sell"
	OpFurnitureArrival Operation = "furniture.arrival"
	OpWarehouseCreate  Operation = "warehouse.create"
	OpWarehouseUpdate  Operation = "warehouse.update"
	OpWarehouseDelete  Operation = "warehouse.delete"
	OpWarehouseView    Operation = "warehouse.view"
	OpStockAdd         Operation = "stock.add"
	OpStockRemove      Operation = "stock.remove"
	OpStockTransfer    Operation = "stock.transfer"
	OpStockReport      Operation = "stock.report"
	OpUsersManage      Operation = "users.manage"
	OpUsersAssignRole  Operation = "users.assign_role"
	OpLogsView         Operation = "logs.view"
	OpBarcodesManage   Operation = "barcodes.manage"
)

// allowLists is the single source of truth for which roles may invoke each
// operation. The sets are fixed configuration, deliberately not derived from
// the rank hierarchy: furniture deletion stays admin-only even though
// moderators hold catalog-write rights.
var allowLists = map[Operation][]enums.Role{
	OpFurnitureCreate:  {enums.RoleAdmin, enums.RoleModerator},
	OpFurnitureUpdate:  {enums.RoleAdmin, enums.RoleModerator},
	OpFurnitureDelete:  {enums.RoleAdmin},
	OpFurnitureSell:    {enums.RoleAdmin, enums.RoleManager, enums.RoleModerator},
	OpFurnitureArrival: {enums.RoleAdmin, enums.RoleModerator},
	OpWarehouseCreate:  {enums.RoleAdmin},
	OpWarehouseUpdate:  {enums.RoleAdmin},
	OpWarehouseDelete:  {enums.RoleAdmin},
	OpWarehouseView:    {enums.RoleAdmin, enums.RoleManager, enums.RoleModerator},
	OpStockAdd:         {enums.RoleAdmin, enums.RoleModerator},
	OpStockRemove:      {enums.RoleAdmin, enums.RoleModerator},
	OpStockTransfer:    {enums.RoleAdmin, enums.RoleModerator},
	OpStockReport:      {enums.RoleAdmin, enums.RoleManager, enums.RoleModerator},
	OpUsersManage:      {enums.RoleAdmin, enums.RoleManager},
	OpUsersAssignRole:  {enums.RoleAdmin},
	OpLogsView:         {enums.RoleAdmin, enums.RoleManager},
	OpBarcodesManage:   {enums.RoleAdmin, enums.RoleModerator},
}

// Allowed reports whether role may invoke op.
func Allowed(op Operation, role enums.Role) bool {
	for _, candidate := range allowLists[op] {
		if candidate == role {
			return true
		}
	}
	return false
}

// CanPerformAction is the rank-based capability check: it holds when the
// actor's role ranks at or above the required role.
func CanPerformAction(actor, required enums.Role) bool {
	return actor.AtLeast(required)
}

// Operations returns every registered operation, for policy tests.
func Operations() []Operation {
	ops := make([]Operation, 0, len(allowLists))
	for op := range allowLists {
		ops = append(ops, op)
	}
	return ops
}
