// Package prompt owns the system instruction template. The action
// catalog is interpolated live on every build so the prompt never
// drifts from the registry.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

//go:embed template/system.txt
var systemRaw string

// System renders the system instructions with the catalog interpolated
// as one "- name: description" line per action, in catalog order.
func System(infos []*schema.ToolInfo) string {
	lines := make([]string, 0, len(infos))
	for _, info := range infos {
		lines = append(lines, fmt.Sprintf("- %s: %s", info.Name, info.Desc))
	}
	return strings.ReplaceAll(strings.TrimSpace(systemRaw), "{tools}", strings.Join(lines, "\n"))
}
