package manager

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// NextID returns one more than the highest id in records, or 1 when records
// is empty. It keeps no state: the result depends only on the records given,
// so gaps left by deletions are never refilled. When the highest id is
// math.MaxInt there is no next id and ErrValidation is returned.
func NextID(records []types.Record) (int, error) {
	maxID := 0
	for _, r := range records {
		maxID = max(maxID, r.ID)
	}
	if maxID == math.MaxInt {
		return 0, fmt.Errorf("%w: id space exhausted", types.ErrValidation)
	}
	return maxID + 1, nil
}
