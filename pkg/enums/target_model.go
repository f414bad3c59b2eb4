package enums

// TargetModel names the entity an audit log entry refers to.
type TargetModel string

const (
	TargetModelUser      TargetModel = "User"
	TargetModelFurniture TargetModel = "Furniture"
	TargetModelWarehouse TargetModel = "Warehouse"
	TargetModelBarcode   TargetModel = "Barcode"
)

// String implements fmt.Stringer.
func (t TargetModel) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TargetModel.
func (t TargetModel) IsValid() bool {
	switch t {
	case TargetModelUser, TargetModelFurniture, TargetModelWarehouse, TargetModelBarcode:
		return true
	}
	return false
}
