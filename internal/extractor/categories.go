package extractor

import "strings"

// Category is the closed set of resource categories.
type Category string

// Resource categories. The set is closed; headings that match no keyword
// classify as CategoryOther rather than minting new categories.
const (
	CategoryInProcessing   Category = "in-processing"
	CategoryHousing        Category = "housing"
	CategoryCommissary     Category = "commissary"
	CategoryExchange       Category = "exchange"
	CategoryMedical        Category = "medical"
	CategoryDental         Category = "dental"
	CategoryChildcare      Category = "childcare"
	CategorySchools        Category = "schools"
	CategoryLegal          Category = "legal"
	CategoryFinance        Category = "finance"
	CategoryChapel         Category = "chapel"
	CategoryMWR            Category = "mwr"
	CategoryFitness        Category = "fitness"
	CategoryDining         Category = "dining"
	CategoryTransportation Category = "transportation"
	CategoryVeterinary     Category = "veterinary"
	CategoryFamilySupport  Category = "family-support"
	CategoryEmployment     Category = "employment"
	CategoryOther          Category = "other"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryInProcessing, CategoryHousing, CategoryCommissary,
		CategoryExchange, CategoryMedical, CategoryDental,
		CategoryChildcare, CategorySchools, CategoryLegal,
		CategoryFinance, CategoryChapel, CategoryMWR, CategoryFitness,
		CategoryDining, CategoryTransportation, CategoryVeterinary,
		CategoryFamilySupport, CategoryEmployment, CategoryOther,
	}
}

// Valid reports whether c is one of the closed category values.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryRule maps a heading keyword to a category. Rules are evaluated
// in slice order and the first keyword substring match wins, so more
// specific keywords must come before general ones ("dental" before the
// medical rules that claim "clinic").
type CategoryRule struct {
	Keyword  string   `yaml:"keyword"`
	Category Category `yaml:"category"`
}

// DefaultCategoryRules is the built-in heading keyword table. Adding a row
// here (or in the rules file) is all it takes to teach the classifier a
// new heading; the matching logic never changes.
var DefaultCategoryRules = []CategoryRule{
	{"in-processing", CategoryInProcessing},
	{"inprocessing", CategoryInProcessing},
	{"in processing", CategoryInProcessing},
	{"check-in", CategoryInProcessing},
	{"reporting", CategoryInProcessing},
	{"welcome center", CategoryInProcessing},
	{"arrival", CategoryInProcessing},

	{"housing", CategoryHousing},
	{"lodging", CategoryHousing},
	{"billeting", CategoryHousing},
	{"barracks", CategoryHousing},
	{"dormitor", CategoryHousing},

	{"commissary", CategoryCommissary},
	{"grocery", CategoryCommissary},

	{"exchange", CategoryExchange},
	{"aafes", CategoryExchange},
	{"shoppette", CategoryExchange},

	{"dental", CategoryDental},
	{"dentist", CategoryDental},

	{"veterinary", CategoryVeterinary},
	{"vet clinic", CategoryVeterinary},

	{"medical", CategoryMedical},
	{"hospital", CategoryMedical},
	{"clinic", CategoryMedical},
	{"tricare", CategoryMedical},
	{"pharmacy", CategoryMedical},
	{"health", CategoryMedical},

	{"child", CategoryChildcare},
	{"cdc", CategoryChildcare},
	{"daycare", CategoryChildcare},
	{"youth", CategoryChildcare},

	{"school", CategorySchools},
	{"education", CategorySchools},
	{"college", CategorySchools},
	{"library", CategorySchools},

	{"legal", CategoryLegal},
	{"jag", CategoryLegal},
	{"attorney", CategoryLegal},

	{"finance", CategoryFinance},
	{"bank", CategoryFinance},
	{"credit union", CategoryFinance},
	{"tax center", CategoryFinance},

	{"chapel", CategoryChapel},
	{"religious", CategoryChapel},
	{"church", CategoryChapel},
	{"worship", CategoryChapel},

	{"fitness", CategoryFitness},
	{"gym", CategoryFitness},
	{"sports", CategoryFitness},

	{"mwr", CategoryMWR},
	{"recreation", CategoryMWR},
	{"morale", CategoryMWR},
	{"tickets", CategoryMWR},
	{"leisure", CategoryMWR},
	{"golf", CategoryMWR},
	{"bowling", CategoryMWR},

	{"dining", CategoryDining},
	{"restaurant", CategoryDining},
	{"dfac", CategoryDining},
	{"mess hall", CategoryDining},
	{"food court", CategoryDining},

	{"transportation", CategoryTransportation},
	{"shuttle", CategoryTransportation},
	{"taxi", CategoryTransportation},
	{"vehicle registration", CategoryTransportation},

	{"family", CategoryFamilySupport},
	{"acs", CategoryFamilySupport},
	{"relocation", CategoryFamilySupport},
	{"spouse", CategoryFamilySupport},
	{"support center", CategoryFamilySupport},

	{"employment", CategoryEmployment},
	{"job", CategoryEmployment},
	{"career", CategoryEmployment},
}

// classify lowercases a heading and returns the category of the first
// matching keyword rule, falling back to CategoryOther.
func classify(heading string, rules []CategoryRule) Category {
	lower := strings.ToLower(heading)
	for _, rule := range rules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Category
		}
	}
	return CategoryOther
}
