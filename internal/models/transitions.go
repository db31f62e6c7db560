package models

// transitionMap lists which statuses each queue action may start from.
var transitionMap = map[string][]string{
	"call":     {StatusWaiting},
	"complete": {StatusServing},
	"skip":     {StatusServing},
	"recall":   {StatusCompleted, StatusSkipped},
	"requeue":  {StatusSkipped},
	"cancel":   {StatusWaiting},
	"no_show":  {StatusServing},
	"transfer": {StatusServing},
}

func ValidTransition(action, fromStatus string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}
