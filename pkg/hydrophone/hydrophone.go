package hydrophone

import (
	"fmt"
	"sort"
	"strings"
)

// Hydrophone identifies a single monitored hydrophone. The set of known
// hydrophones is closed; raw selector strings are resolved once at the CLI
// boundary and only resolved values circulate through the rest of the program.
type Hydrophone struct {
	// ID is the stable identifier used in storage paths and checkpoint files
	ID string
	// Node is the feed node name the analysis pipeline reads raw audio from
	Node string
	// Name is the human-readable location name
	Name string
}

var (
	BushPoint    = Hydrophone{ID: "bush_point", Node: "rpi_bush_point", Name: "Bush Point"}
	OrcasoundLab = Hydrophone{ID: "orcasound_lab", Node: "rpi_orcasound_lab", Name: "Orcasound Lab"}
	PortTownsend = Hydrophone{ID: "port_townsend", Node: "rpi_port_townsend", Name: "Port Townsend"}
	SunsetBay    = Hydrophone{ID: "sunset_bay", Node: "rpi_sunset_bay", Name: "Sunset Bay"}
)

var known = map[string]Hydrophone{
	BushPoint.ID:    BushPoint,
	OrcasoundLab.ID: OrcasoundLab,
	PortTownsend.ID: PortTownsend,
	SunsetBay.ID:    SunsetBay,
}

// Parse resolves a selector string to a known hydrophone. Matching is
// case-insensitive and tolerates dashes in place of underscores.
func Parse(selector string) (Hydrophone, error) {
	normalized := strings.ToLower(strings.TrimSpace(selector))
	normalized = strings.ReplaceAll(normalized, "-", "_")

	h, ok := known[normalized]
	if !ok {
		return Hydrophone{}, fmt.Errorf("unknown hydrophone %q (known: %s)", selector, strings.Join(IDs(), ", "))
	}
	return h, nil
}

// IDs returns the identifiers of all known hydrophones in sorted order
func IDs() []string {
	ids := make([]string, 0, len(known))
	for id := range known {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (h Hydrophone) String() string {
	return h.ID
}
