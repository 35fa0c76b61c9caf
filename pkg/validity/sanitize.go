package validity

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// sanitizeMessage strips anything but harmless inline markup from a rendered
// custom message. Messages come from configuration, which can be supplied by
// less-trusted schema layers, and they end up inside the host page.
func sanitizeMessage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(messageSanitizer().Sanitize(trimmed))
}

func messageSanitizer() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "small")
		messagePolicy = policy
	})
	return messagePolicy
}
