package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var topicRegex = regexp.MustCompile(`^[a-z0-9-]{2,24}$`)

var reservedTopics = map[string]struct{}{
	"admin":   {},
	"api":     {},
	"all":     {},
	"metrics": {},
	"swagger": {},
}

// ValidateTopic validates post topic tag format and reserved names.
func ValidateTopic(topic string) error {
	if !topicRegex.MatchString(topic) {
		return fmt.Errorf("topic must be 2-24 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(topic, "-") || strings.HasSuffix(topic, "-") {
		return fmt.Errorf("topic cannot start or end with a hyphen")
	}

	if _, exists := reservedTopics[topic]; exists {
		return fmt.Errorf("topic is reserved")
	}

	return nil
}
