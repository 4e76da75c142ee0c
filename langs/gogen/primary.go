package gogen

import (
	"fmt"

	"github.com/shibukawa/baserowgen/pull"
)

// ResolvePrimary returns the single primary field of table.
func ResolvePrimary(table pull.Table) (pull.TableField, error) {
	if !table.HasFields() {
		return pull.TableField{}, ErrMissingFieldSchema
	}

	var primaries []pull.TableField
	for _, f := range table.Fields {
		if f.Primary {
			primaries = append(primaries, f)
		}
	}

	if len(primaries) != 1 {
		return pull.TableField{}, fmt.Errorf("%w: found %d", ErrPrimaryFieldCardinality, len(primaries))
	}
	return primaries[0], nil
}
