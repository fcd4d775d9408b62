package relgen

import (
	"strings"

	"github.com/josephgoksu/planwing/internal/task"
)

type reasonRule struct {
	needles []string
	code    task.ReasonCode
}

// reasonRules are checked in order; the first match wins.
var reasonRules = []reasonRule{
	{needles: []string{"project"}, code: task.ReasonCrossProject},
	{needles: []string{"circular"}, code: task.ReasonCircular},
	{needles: []string{"duplicate"}, code: task.ReasonDuplicate},
	{needles: []string{"hierarchy", "self"}, code: task.ReasonInvalid},
}

// ClassifyLinkError maps a link-creation failure message to a reason code.
func ClassifyLinkError(message string) task.ReasonCode {
	lower := strings.ToLower(message)
	for _, rule := range reasonRules {
		for _, needle := range rule.needles {
			if strings.Contains(lower, needle) {
				return rule.code
			}
		}
	}
	return task.ReasonUnknown
}
