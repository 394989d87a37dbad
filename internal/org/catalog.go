package org

// seed is one (topic, weight) entry of the default catalog
type seed struct {
	topic  string
	weight float64
}

// DefaultTopicsForOrgType returns the bootstrap interest topics for a new
// organization of the given type. Unknown types yield an empty list.
// The returned slice is a fresh copy and may be modified by the caller.
func DefaultTopicsForOrgType(t OrgType) []InterestTopic {
	seeds := catalogSeeds(t)

	topics := make([]InterestTopic, 0, len(seeds))
	for _, s := range seeds {
		topics = append(topics, InterestTopic{
			Topic:  s.topic,
			Weight: s.weight,
			Source: SourceSelfDeclared,
		})
	}
	return topics
}

// catalogSeeds holds the hand-curated table, one case per OrgType
func catalogSeeds(t OrgType) []seed {
	switch t {
	case TypeForeignPolicy:
		return []seed{
			{"foreign policy", 1.0},
			{"diplomacy", 0.9},
			{"sanctions", 0.8},
			{"national security", 0.8},
			{"military aid", 0.7},
			{"united nations", 0.6},
			{"arms control", 0.6},
			{"refugees", 0.5},
		}
	case TypeHumanRights:
		return []seed{
			{"human rights", 1.0},
			{"civil liberties", 0.9},
			{"asylum", 0.8},
			{"refugees", 0.8},
			{"detention", 0.7},
			{"discrimination", 0.7},
			{"free speech", 0.6},
			{"humanitarian aid", 0.6},
		}
	case TypeCandidate:
		return []seed{
			{"election", 1.0},
			{"polling", 0.9},
			{"campaign finance", 0.8},
			{"endorsement", 0.8},
			{"debate", 0.7},
			{"fundraising", 0.7},
			{"voter turnout", 0.7},
			{"ballot", 0.6},
		}
	case TypeLabor:
		return []seed{
			{"labor union", 1.0},
			{"minimum wage", 0.9},
			{"strike", 0.9},
			{"collective bargaining", 0.8},
			{"right to work", 0.7},
			{"worker safety", 0.7},
			{"unemployment", 0.6},
			{"pensions", 0.5},
		}
	case TypeClimate:
		return []seed{
			{"climate change", 1.0},
			{"clean energy", 0.9},
			{"emissions", 0.9},
			{"fossil fuels", 0.8},
			{"renewable energy", 0.8},
			{"extreme weather", 0.7},
			{"epa", 0.7},
			{"carbon tax", 0.6},
		}
	case TypeCivilRights:
		return []seed{
			{"civil rights", 1.0},
			{"voting rights", 1.0},
			{"police reform", 0.9},
			{"criminal justice", 0.8},
			{"discrimination", 0.8},
			{"affirmative action", 0.7},
			{"hate crimes", 0.7},
			{"redistricting", 0.6},
		}
	default:
		return nil
	}
}
