package internal

import (
	"fmt"
	"strings"
)

func pluralize(count int, singular string) string {
	if count != 1 {
		if strings.HasSuffix(singular, "y") {
			singular = strings.TrimSuffix(singular, "y") + "ies"
		} else if strings.HasSuffix(singular, "ch") {
			singular = singular + "es"
		} else {
			singular = singular + "s"
		}
	}
	return fmt.Sprintf("%d %s", count, singular)
}
