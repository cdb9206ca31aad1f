package partition

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
)

// Label template tokens.
const (
	TokenNumber  = "{number}"
	TokenPercent = "{percent}"
	TokenLogic   = "{logic}"
)

// DefaultFormat renders the item count of each region.
const DefaultFormat = TokenNumber

// Labels renders a label for every non-zero membership code of p.
// {number} is replaced by the region's item count, {percent} by the count as a
// percentage of all distinct items with one decimal, and {logic} by the code as a
// zero-padded binary string. An empty format uses DefaultFormat.
func Labels(p models.GroupPartition, format string) map[uint]string {
	if format == "" {
		format = DefaultFormat
	}

	n := p.SetCount()
	labels := make(map[uint]string, p.Regions())
	for code := uint(1); code < 1<<uint(n); code++ {
		count := p.Counts[code]
		r := strings.NewReplacer(
			TokenNumber, strconv.Itoa(count),
			TokenPercent, percent(count, p.TotalItems),
			TokenLogic, Logic(code, n),
		)
		labels[code] = r.Replace(format)
	}
	return labels
}

func percent(count, total int) string {
	if total == 0 {
		return "0.0"
	}
	// Halves round away from zero.
	v := math.Round(float64(count)/float64(total)*100*10) / 10
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Logic returns code as a binary string zero-padded to n digits.
func Logic(code uint, n int) string {
	return fmt.Sprintf("%0*b", n, code)
}
