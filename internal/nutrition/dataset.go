package nutrition

import "github.com/dmitrijs2005/aura/internal/models"

// DatasetVersion identifies the revision of the built-in food table.
const DatasetVersion = "1.1"

func v(x float64) *float64 { return &x }

func per100(kcal, carb, prot, fat, fiber, sodium float64) models.Per100g {
	return models.Per100g{
		Kcal:     kcal,
		CarbG:    v(carb),
		ProtG:    v(prot),
		FatG:     v(fat),
		FiberG:   v(fiber),
		SodiumMg: v(sodium),
	}
}

func serving(unit string, grams float64) models.ServingSize {
	return models.ServingSize{Unit: unit, Grams: grams}
}

// foods is the reference table (TACO / TBCA), grouped by category.
var foods = []models.DatabaseFood{
	// cereais e massas
	{
		ID: "taco-c1-01", Name: "Arroz branco cozido", Category: "Cereais", State: "cozido",
		Synonyms:     []string{"arroz", "arroz comum"},
		Per100g:      per100(128, 28.1, 2.5, 0.2, 1.6, 1),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("colher de sopa", 25), serving("escumadeira", 120), serving("g", 1)},
	},
	{
		ID: "taco-c1-02", Name: "Arroz integral cozido", Category: "Cereais", State: "cozido",
		Synonyms:     []string{"arroz preto", "arroz integral"},
		Per100g:      per100(124, 25.8, 2.6, 1.0, 2.7, 1),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("colher de sopa", 25), serving("g", 1)},
	},
	{
		ID: "taco-c1-03", Name: "Pão francês", Category: "Cereais", State: "natural",
		Synonyms:     []string{"pãozinho", "pão de sal"},
		Per100g:      per100(300, 58.6, 8.0, 3.1, 2.3, 648),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("unidade", 50), serving("g", 1)},
	},
	{
		ID: "taco-c1-04", Name: "Aveia em flocos", Category: "Cereais", State: "natural",
		Synonyms:     []string{"aveia"},
		Per100g:      per100(394, 66.6, 13.9, 8.5, 9.1, 5),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("colher de sopa", 15), serving("g", 1)},
	},

	// tubérculos e raízes
	{
		ID: "taco-t2-01", Name: "Batata inglesa cozida", Category: "Tubérculos", State: "cozido",
		Synonyms:     []string{"batata", "batatinha"},
		Per100g:      per100(52, 11.9, 1.2, 0, 1.3, 2),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("unidade média", 100), serving("colher de sopa (picada)", 30), serving("g", 1)},
	},
	{
		ID: "taco-t2-02", Name: "Mandioca cozida", Category: "Tubérculos", State: "cozido",
		Synonyms:     []string{"aipim", "macaxeira"},
		Per100g:      per100(125, 30.1, 0.6, 0.3, 1.6, 2),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("pedaço médio", 100), serving("g", 1)},
	},

	// leguminosas
	{
		ID: "taco-l3-01", Name: "Feijão carioca cozido", Category: "Leguminosas", State: "cozido",
		Synonyms:     []string{"feijão"},
		Per100g:      per100(76, 13.6, 4.8, 0.5, 8.5, 2),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("concha média", 130), serving("colher de sopa", 20), serving("g", 1)},
	},
	{
		ID: "taco-l3-02", Name: "Grão-de-bico cozido", Category: "Leguminosas", State: "cozido",
		Synonyms:     []string{"grão de bico"},
		Per100g:      per100(164, 27.4, 8.9, 2.6, 7.6, 5),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("colher de sopa", 25), serving("g", 1)},
	},

	// carnes e aves
	{
		ID: "taco-m4-01", Name: "Frango peito grelhado", Category: "Aves", State: "grelhado",
		Synonyms:     []string{"frango", "peito de frango"},
		Per100g:      per100(159, 0, 32.0, 2.5, 0, 50),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("filé médio", 100), serving("g", 1)},
	},
	{
		ID: "taco-m4-02", Name: "Carne bovina patinho grelhado", Category: "Carnes", State: "grelhado",
		Synonyms:     []string{"patinho", "carne magra"},
		Per100g:      per100(219, 0, 35.9, 7.3, 0, 60),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("bife médio", 100), serving("g", 1)},
	},

	// ovos e laticínios
	{
		ID: "taco-e5-01", Name: "Ovo de galinha cozido", Category: "Ovos", State: "cozido",
		Synonyms:     []string{"ovo"},
		Per100g:      per100(146, 0.6, 13.3, 9.5, 0, 146),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("unidade", 50), serving("g", 1)},
	},
	{
		ID: "tbca-d5-01", Name: "Iogurte natural integral", Category: "Laticínios", State: "natural",
		Synonyms:     []string{"iogurte"},
		Per100g:      per100(61, 4.7, 3.5, 3.3, 0, 46),
		Source:       models.SourceTBCA,
		ServingSizes: []models.ServingSize{serving("pote", 170), serving("copo", 200), serving("g", 1)},
	},

	// frutas
	{
		ID: "taco-f6-01", Name: "Banana prata madura", Category: "Frutas", State: "natural",
		Synonyms:     []string{"banana"},
		Per100g:      per100(98, 26.0, 1.3, 0.1, 2.0, 1),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("unidade média", 70), serving("g", 1)},
	},
	{
		ID: "taco-f6-02", Name: "Maçã fugi com casca", Category: "Frutas", State: "natural",
		Synonyms:     []string{"maçã"},
		Per100g:      per100(56, 15.2, 0.3, 0, 1.3, 0),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("unidade pequena", 110), serving("unidade média", 150), serving("g", 1)},
	},

	// verduras e legumes
	{
		ID: "taco-v7-01", Name: "Brócolis cozido", Category: "Legumes", State: "cozido",
		Synonyms:     []string{"brócolis"},
		Per100g:      per100(25, 4.4, 2.1, 0.5, 3.4, 3),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("ramo médio", 40), serving("colher de sopa", 20), serving("g", 1)},
	},
	{
		ID: "taco-v7-02", Name: "Alface americana crua", Category: "Verduras", State: "natural",
		Synonyms:     []string{"alface"},
		Per100g:      per100(9, 1.7, 0.6, 0.1, 1.0, 4),
		Source:       models.SourceTACO,
		ServingSizes: []models.ServingSize{serving("folha média", 15), serving("g", 1)},
	},
}
