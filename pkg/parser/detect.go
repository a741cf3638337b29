package parser

import "sort"

// Detect selects a parser for an unlabeled message, considering both the
// factory's native parsers and any scripted parsers held by the registry.
// Candidates from both sources share one tier ranking, so a scripted
// parser for a Cisco device family competes in the Cisco tier while one
// for a custom device still outranks the generic syslog fallback. Ties
// within a tier break by registration order, native parsers first.
// Returns nil when no parser claims the message.
func Detect(factory *Factory, registry *Registry, raw string) Parser {
	type candidate struct {
		parser Parser
		tier   int
	}

	var candidates []candidate

	if factory != nil {
		for _, dt := range factory.SupportedDeviceTypes() {
			p := factory.CreateParser(dt)
			if p != nil && p.CanParse(raw) {
				candidates = append(candidates, candidate{parser: p, tier: deviceTier(dt)})
			}
		}
	}

	if registry != nil {
		for _, name := range registry.Names() {
			p, err := registry.Get(name)
			if err != nil || !p.CanParse(raw) {
				continue
			}
			candidates = append(candidates, candidate{parser: p, tier: deviceTier(p.DeviceType())})
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].tier > candidates[j].tier
	})

	return candidates[0].parser
}
