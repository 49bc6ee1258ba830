package taxonomy

// Category couples a taxonomy key with the keywords that select it. A category
// with no keywords is never matched directly; it can only serve as fallback.
type Category struct {
	Key      string   `yaml:"key"`
	Keywords []string `yaml:"keywords"`
}

// Taxonomy is the category table shared across every channel, plus the global
// blacklist and the fallback bucket. It is configuration data, immutable once
// handed to a classifier; declaration order is the matching priority order.
type Taxonomy struct {
	Categories []Category `yaml:"categories"`
	Blacklist  []string   `yaml:"blacklist"`
	Fallback   string     `yaml:"fallback"`
}

// Default returns the staple-goods taxonomy every channel is classified into.
func Default() Taxonomy {
	return Taxonomy{
		Categories: []Category{
			{Key: "alimentaire_pain", Keywords: []string{"pain", "baguette", "boulangerie"}},
			{Key: "alimentaire_riz", Keywords: []string{"riz"}},
			{Key: "alimentaire_pates", Keywords: []string{"pate", "pâtes", "pates", "spaghetti", "penne", "coquillettes", "macaroni", "tagliatelle"}},
			{Key: "alimentaire_oeufs", Keywords: []string{"oeuf", "oeufs", "œuf", "œufs"}},
			// fallback bucket for fresh produce; matched only when nothing else is
			{Key: "alimentaire_fruits_legumes"},
			{Key: "alimentaire_conserves_simples", Keywords: []string{
				"conserve", "conserves", "boite", "boîte", "bocal", "bocaux",
				"thon", "sardine", "maïs", "mais", "haricot", "lentille", "pois chiche",
			}},
			{Key: "alimentaire_huile", Keywords: []string{"huile"}},
			{Key: "alimentaire_sucre", Keywords: []string{"sucre"}},
			{Key: "alimentaire_farine", Keywords: []string{"farine"}},
			{Key: "hygiene_savon", Keywords: []string{"savon", "gel douche", "gel-douche"}},
			{Key: "hygiene_dentifrice", Keywords: []string{"dentifrice"}},
			{Key: "hygiene_brosse_a_dents", Keywords: []string{"brosse a dents", "brosse à dents", "brosses a dents", "brosses à dents", "brosse", "brosses"}},
			{Key: "hygiene_protections_feminines", Keywords: []string{"serviette", "serviettes", "tampon", "tampons", "protection", "protections"}},
			{Key: "hygiene_shampooing", Keywords: []string{"shampooing", "shampoing"}},
			{Key: "entretien_liquide_vaisselle", Keywords: []string{"liquide vaisselle", "vaisselle"}},
			{Key: "entretien_lessive_linge", Keywords: []string{"lessive"}},
			{Key: "entretien_eau_de_javel", Keywords: []string{"javel", "eau de javel"}},
		},
		Blacklist: []string{
			"jus", "smoothie", "nectar",
			"soupe", "veloute", "velouté",
			"compote", "confiture",
			"bonbon", "confiserie",
			"gateau", "gâteau", "dessert", "patisserie", "pâtisserie", "chocolat",
			"aperitif", "apéro", "snack", "chips",
			"parfum", "maquillage", "mascara", "vernis",
			"bougie", "maison", "textile",
		},
		Fallback: "alimentaire_fruits_legumes",
	}
}
