package table

type TableType string

const (
	TypeStandard TableType = "standard"
	TypeBooth    TableType = "booth"
	TypeBar      TableType = "bar"
	TypePatio    TableType = "patio"
	// TypeShared is a communal table whose seats are allocated per booking
	// instead of exclusively.
	TypeShared TableType = "shared"
)

func (t TableType) String() string {
	return string(t)
}

func (t TableType) IsValid() bool {
	switch t {
	case TypeStandard, TypeBooth, TypeBar, TypePatio, TypeShared:
		return true
	default:
		return false
	}
}

func (t TableType) IsShared() bool {
	return t == TypeShared
}
