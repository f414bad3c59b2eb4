package enums

import "fmt"

// LogAction tags an audit log entry with the action that produced it.
type LogAction string

const (
	LogActionUserLogin        LogAction = "user_login"
	LogActionUserLogout       LogAction = "user_logout"
	LogActionUserCreated      LogAction = "user_created"
	LogActionUserUpdated      LogAction = "user_updated"
	LogActionUserDeleted      LogAction = "user_deleted"
	LogActionRoleAssigned     LogAction = "role_assigned"
	LogActionFurnitureAdded   LogAction = "furniture_added"
	LogActionFurnitureUpdated LogAction = "furniture_updated"
	LogActionFurnitureDeleted LogAction = "furniture_deleted"
	LogActionFurnitureSold    LogAction = "furniture_sold"
	LogActionFurnitureArrival LogAction = "furniture_arrival"
	LogActionWarehouseCreated LogAction = "warehouse_created"
	LogActionWarehouseUpdated LogAction = "warehouse_updated"
	LogActionWarehouseDeleted LogAction = "warehouse_deleted"
	LogActionStockTransfer    LogAction = "stock_transfer"
	LogActionBarcodeGenerated LogAction = "barcode_generated"
	LogActionBarcodeDeleted   LogAction = "barcode_deleted"
)

var validLogActions = []LogAction{
	LogActionUserLogin,
	LogActionUserLogout,
	LogActionUserCreated,
	LogActionUserUpdated,
	LogActionUserDeleted,
	LogActionRoleAssigned,
	LogActionFurnitureAdded,
	LogActionFurnitureUpdated,
	LogActionFurnitureDeleted,
	LogActionFurnitureSold,
	LogActionFurnitureArrival,
	LogActionWarehouseCreated,
	LogActionWarehouseUpdated,
	LogActionWarehouseDeleted,
	LogActionStockTransfer,
	LogActionBarcodeGenerated,
	LogActionBarcodeDeleted,
}

// String implements fmt.Stringer.
func (a LogAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known LogAction.
func (a LogAction) IsValid() bool {
	for _, candidate := range validLogActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseLogAction converts raw input into a LogAction.
func ParseLogAction(value string) (LogAction, error) {
	for _, candidate := range validLogActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid log action %q", value)
}
