package widgets

import (
	"fmt"
	"strings"
)

// RenderKeyHelp formats key bindings on one line: "enter generar · tab instrumento"
func RenderKeyHelp(keys []KeyBinding) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k.Key, k.Desc))
	}
	return strings.Join(parts, " · ")
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
