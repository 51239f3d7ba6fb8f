package catalog

var therapyDefinitions = []Definition{
	{ID: "self", Name: "Self", Color: "#3B82F6", Description: "The person doing the constellation", Category: CategorySelf},
	{ID: "father", Name: "Father", Color: "#1E3A8A", Description: "Father or father figure", Category: CategoryFather},
	{ID: "mother", Name: "Mother", Color: "#BE185D", Description: "Mother or mother figure", Category: CategoryMother},
	{ID: "grandfather", Name: "Grandfather", Color: "#475569", Description: "Paternal or maternal grandfather", Category: CategoryGrandfather},
	{ID: "grandmother", Name: "Grandmother", Color: "#9D174D", Description: "Paternal or maternal grandmother", Category: CategoryGrandmother},
	{ID: "partner", Name: "Partner", Color: "#7C3AED", Description: "Current or former partner", Category: CategoryPartner},
	{ID: "son", Name: "Son", Color: "#0EA5E9", Description: "Son", Category: CategoryChild},
	{ID: "daughter", Name: "Daughter", Color: "#F472B6", Description: "Daughter", Category: CategoryChild},
	{ID: "baby", Name: "Baby", Color: "#FDE68A", Description: "Baby or unborn child", Category: CategoryChild},
	{ID: "brother", Name: "Brother", Color: "#0F766E", Description: "Brother", Category: CategorySibling},
	{ID: "sister", Name: "Sister", Color: "#DB2777", Description: "Sister", Category: CategorySibling},
	{ID: "deceased", Name: "Deceased", Color: "#111827", Description: "A family member who has died", Category: CategoryDeceased},
	{ID: "concept-work", Name: "Work", Color: "#64748B", Description: "Work, career or profession", Category: CategoryOther},
	{ID: "concept-money", Name: "Money", Color: "#CA8A04", Description: "Money and material security", Category: CategoryOther},
	{ID: "concept-illness", Name: "Illness", Color: "#65A30D", Description: "An illness or symptom", Category: CategoryOther},
	{ID: "concept-secret", Name: "Secret", Color: "#6B21A8", Description: "Something the family does not talk about", Category: CategoryOther},
	{ID: "concept-homeland", Name: "Homeland", Color: "#C2410C", Description: "Country or place of origin", Category: CategoryOther},
}

var settlementDefinitions = []Definition{
	{ID: "mud-hut", Name: "Mud Hut", Color: "#8B4513", Description: "Basic sustainable housing using local materials", Category: CategoryHousing,
		ResourceCost: map[string]int{"wood": 2, "clay": 3}, PopulationCapacity: 4, SustainabilityBonus: 3},
	{ID: "stone-house", Name: "Stone House", Color: "#708090", Description: "Durable stone construction with good insulation", Category: CategoryHousing,
		ResourceCost: map[string]int{"stone": 4, "wood": 2}, PopulationCapacity: 6, SustainabilityBonus: 2},
	{ID: "timber-frame", Name: "Timber Frame", Color: "#DEB887", Description: "Efficient wood construction with renewable materials", Category: CategoryHousing,
		ResourceCost: map[string]int{"wood": 5, "clay": 1}, PopulationCapacity: 8, SustainabilityBonus: 4},

	{ID: "farm-plot", Name: "Farm Plot", Color: "#228B22", Description: "Sustainable agriculture producing food", Category: CategoryProduction,
		ResourceCost: map[string]int{"wood": 1}, ResourceProduction: map[string]int{"food": 3}, SustainabilityBonus: 5},
	{ID: "lumber-mill", Name: "Lumber Mill", Color: "#654321", Description: "Processes wood while managing forest resources", Category: CategoryProduction,
		ResourceCost: map[string]int{"stone": 3, "wood": 2}, ResourceProduction: map[string]int{"wood": 2}, SustainabilityBonus: 2},
	{ID: "quarry", Name: "Stone Quarry", Color: "#A9A9A9", Description: "Extracts stone with minimal environmental impact", Category: CategoryProduction,
		ResourceCost: map[string]int{"wood": 2}, ResourceProduction: map[string]int{"stone": 2}, SustainabilityBonus: 1},
	{ID: "pottery-kiln", Name: "Pottery Kiln", Color: "#CD853F", Description: "Creates clay goods using efficient firing techniques", Category: CategoryProduction,
		ResourceCost: map[string]int{"stone": 2, "wood": 1}, ResourceProduction: map[string]int{"clay": 2}, SustainabilityBonus: 3},

	{ID: "well", Name: "Community Well", Color: "#4682B4", Description: "Provides clean water access for the community", Category: CategoryInfrastructure,
		ResourceCost: map[string]int{"stone": 3}, ResourceProduction: map[string]int{"water": 4}, SustainabilityBonus: 4},
	{ID: "granary", Name: "Granary", Color: "#DAA520", Description: "Stores food with pest-resistant design", Category: CategoryInfrastructure,
		ResourceCost: map[string]int{"wood": 4, "stone": 2}, SustainabilityBonus: 3},
	{ID: "windmill", Name: "Windmill", Color: "#F5DEB3", Description: "Harnesses wind power for grain processing", Category: CategoryInfrastructure,
		ResourceCost: map[string]int{"wood": 6, "stone": 2}, ResourceProduction: map[string]int{"flour": 2}, SustainabilityBonus: 5},

	{ID: "temple", Name: "Sacred Temple", Color: "#9370DB", Description: "Community gathering place with natural materials", Category: CategoryCulture,
		ResourceCost: map[string]int{"stone": 8, "wood": 4}, SustainabilityBonus: 4},
	{ID: "school", Name: "Learning Hall", Color: "#FF6347", Description: "Education center teaching sustainable practices", Category: CategoryCulture,
		ResourceCost: map[string]int{"wood": 5, "stone": 3}, SustainabilityBonus: 5},
}

var settlementEras = []Era{
	{
		ID:                   "neolithic",
		Name:                 "Neolithic Settlement",
		Description:          "Build the first agricultural communities using sustainable farming and natural materials",
		Category:             "prehistoric",
		AvailableBuildings:   []string{"mud-hut", "farm-plot", "well", "pottery-kiln"},
		ChallengeDescription: "Establish a self-sufficient village with renewable resources",
		SustainabilityGoals:  []string{"Use only renewable materials", "Maintain soil fertility", "Conserve water sources"},
	},
	{
		ID:                   "bronze-age",
		Name:                 "Bronze Age Town",
		Description:          "Develop trade networks while managing resource extraction responsibly",
		Category:             "ancient",
		AvailableBuildings:   []string{"stone-house", "lumber-mill", "quarry", "granary", "temple"},
		ChallengeDescription: "Balance economic growth with environmental stewardship",
		SustainabilityGoals:  []string{"Implement crop rotation", "Prevent deforestation", "Build lasting infrastructure"},
	},
	{
		ID:                   "medieval",
		Name:                 "Medieval Village",
		Description:          "Create a thriving community using traditional ecological knowledge",
		Category:             "medieval",
		AvailableBuildings:   []string{"timber-frame", "windmill", "school", "granary", "well"},
		ChallengeDescription: "Develop renewable energy and education systems",
		SustainabilityGoals:  []string{"Harness wind power", "Educate about sustainability", "Preserve local ecosystems"},
	},
	{
		ID:                   "indigenous",
		Name:                 "Indigenous Community",
		Description:          "Build using traditional practices that work in harmony with nature",
		Category:             "traditional",
		AvailableBuildings:   []string{"mud-hut", "farm-plot", "well", "temple", "school"},
		ChallengeDescription: "Demonstrate time-tested sustainable living practices",
		SustainabilityGoals:  []string{"Live within ecological limits", "Share resources equitably", "Preserve cultural knowledge"},
	},
	{
		ID:                   "eco-village",
		Name:                 "Modern Eco-Village",
		Description:          "Apply historical wisdom to create a model sustainable community",
		Category:             "modern",
		AvailableBuildings:   []string{"timber-frame", "farm-plot", "windmill", "school", "well", "granary"},
		ChallengeDescription: "Combine ancient knowledge with modern efficiency",
		SustainabilityGoals:  []string{"Achieve carbon neutrality", "Maximize biodiversity", "Create circular economy"},
	},
}

// StartingResources is the settlement stock before any building is placed.
func StartingResources() map[string]int {
	return map[string]int{"wood": 10, "stone": 8, "clay": 6, "food": 5, "water": 10, "flour": 0}
}

// Therapy returns the family constellation catalog.
func Therapy() *Catalog {
	return MustNew("therapy", therapyDefinitions, nil)
}

// Settlement returns the historical settlement catalog with its eras.
func Settlement() *Catalog {
	return MustNew("settlement", settlementDefinitions, settlementEras)
}
