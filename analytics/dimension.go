package analytics

import "strings"

const (
	DataDimension                = "dx"
	PeriodDimension              = "pe"
	OrgUnitDimension             = "ou"
	CategoryOptionComboDimension = "co"
)

// Dimension builds a dimension string "<id>:<item1>;<item2>". Without items
// the bare id is returned.
func Dimension(id string, items ...string) string {
	if len(items) == 0 {
		return id
	}
	return id + ":" + strings.Join(items, ";")
}
