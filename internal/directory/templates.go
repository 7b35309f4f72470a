package directory

import (
	_ "embed"
	"sort"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

//go:embed res/ldapTemplates.yaml
var templatesRaw []byte

// templateTable holds the bundled attribute templates, keyed by template name.
// A broken resource degrades to an empty table instead of failing startup.
var templateTable = loadTemplates() //nolint:gochecknoglobals

func loadTemplates() map[string]AttributeMap {
	table := map[string]AttributeMap{}
	if err := yaml.Unmarshal(templatesRaw, &table); err != nil {
		log.Warn().Err(err).Msg("could not load bundled ldap templates - templates disabled")
		return map[string]AttributeMap{}
	}

	return table
}

// KnownTemplates lists the names of the bundled attribute templates.
func KnownTemplates() []string {
	names := make([]string, 0, len(templateTable))
	for name := range templateTable {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
