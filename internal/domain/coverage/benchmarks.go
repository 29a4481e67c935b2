package coverage

import "sync"

// Built-in benchmark data.  Limits are indicative market figures per region;
// deployments override them with a catalog file (see LoadCatalogFile).

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the built-in catalog.  It is constructed once.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = MustNewCatalog(DefaultSpec())
	})
	return defaultCatalog
}

func entry(name string, tier Tier, limit, cost string) BenchmarkEntry {
	return BenchmarkEntry{CoverageName: name, Tier: tier, RequiredLimit: limit, EstimatedCost: cost}
}

// DefaultSpec returns a fresh copy of the built-in catalog spec.
func DefaultSpec() CatalogSpec {
	return CatalogSpec{
		Benchmarks: map[string]map[string][]BenchmarkEntry{
			string(RegionUK): {
				string(CategoryCar): {
					entry("Third-party liability", TierCritical, "£20,000,000 property damage, unlimited injury", "Included in base premium"),
					entry("Fire and theft", TierCritical, "Market value of vehicle", "£80 - £150 per year"),
					entry("Accidental damage", TierModerate, "Market value of vehicle", "£150 - £400 per year"),
					entry("Personal injury", TierModerate, "£5,000 - £10,000", "£20 - £40 per year"),
					entry("Breakdown cover", TierModerate, "National recovery", "£40 - £120 per year"),
					entry("Courtesy car", TierOptional, "Like-for-like for 14 days", "£20 - £50 per year"),
					entry("Legal expenses", TierOptional, "£100,000", "£20 - £30 per year"),
					entry("Windscreen cover", TierOptional, "Full replacement", "£15 - £30 per year"),
				},
				string(CategoryHome): {
					entry("Buildings cover", TierCritical, "Full rebuild cost", "£120 - £300 per year"),
					entry("Contents cover", TierCritical, "£50,000", "£60 - £150 per year"),
					entry("Escape of water", TierModerate, "Included in buildings limit", "Included"),
					entry("Accidental damage", TierModerate, "Buildings and contents limits", "£30 - £80 per year"),
					entry("Personal possessions", TierOptional, "£2,000 single item", "£30 - £70 per year"),
					entry("Home emergency", TierOptional, "£1,000 per claim", "£25 - £60 per year"),
					entry("Legal expenses", TierOptional, "£100,000", "£20 - £30 per year"),
				},
				string(CategoryBusiness): {
					entry("Public liability", TierCritical, "£2,000,000 - £5,000,000", "£100 - £500 per year"),
					entry("Employers' liability", TierCritical, "£10,000,000 (legal minimum £5,000,000)", "£150 - £1,000 per year"),
					entry("Professional indemnity", TierModerate, "£1,000,000", "£200 - £1,500 per year"),
					entry("Business interruption", TierModerate, "12 - 24 months gross profit", "£150 - £800 per year"),
					entry("Commercial property", TierModerate, "Reinstatement value", "£200 - £1,200 per year"),
					entry("Cyber insurance", TierOptional, "£250,000", "£300 - £1,200 per year"),
					entry("Directors and officers", TierOptional, "£1,000,000", "£400 - £2,000 per year"),
				},
				string(CategoryLife): {
					entry("Death benefit", TierCritical, "10x annual salary", "£10 - £40 per month"),
					entry("Terminal illness benefit", TierModerate, "Full sum assured", "Included"),
					entry("Critical illness cover", TierModerate, "£50,000 - £100,000", "£15 - £60 per month"),
					entry("Income protection", TierOptional, "50% - 70% of gross income", "£20 - £80 per month"),
					entry("Waiver of premium", TierOptional, "All premiums during incapacity", "£2 - £5 per month"),
				},
			},
			string(RegionUS): {
				string(CategoryCar): {
					entry("Bodily injury liability", TierCritical, "$100,000 per person / $300,000 per accident", "$300 - $700 per year"),
					entry("Property damage liability", TierCritical, "$100,000 per accident", "$150 - $400 per year"),
					entry("Uninsured motorist", TierCritical, "$100,000 per person / $300,000 per accident", "$100 - $250 per year"),
					entry("Collision coverage", TierModerate, "Actual cash value", "$300 - $800 per year"),
					entry("Comprehensive coverage", TierModerate, "Actual cash value", "$100 - $300 per year"),
					entry("Personal injury protection", TierModerate, "$10,000", "$100 - $300 per year"),
					entry("Roadside assistance", TierOptional, "Towing up to 100 miles", "$15 - $60 per year"),
					entry("Rental reimbursement", TierOptional, "$40 per day / 30 days", "$30 - $80 per year"),
				},
				string(CategoryHome): {
					entry("Dwelling coverage", TierCritical, "Full replacement cost", "$800 - $2,000 per year"),
					entry("Personal property coverage", TierCritical, "50% - 70% of dwelling limit", "Included"),
					entry("Personal liability", TierCritical, "$300,000 - $500,000", "Included"),
					entry("Loss of use", TierModerate, "20% of dwelling limit", "Included"),
					entry("Medical payments", TierModerate, "$5,000", "Included"),
					entry("Flood insurance", TierOptional, "$250,000 building / $100,000 contents", "$400 - $1,500 per year"),
					entry("Scheduled personal property", TierOptional, "Appraised value", "$1 - $2 per $100 insured"),
				},
				string(CategoryBusiness): {
					entry("General liability", TierCritical, "$1,000,000 per occurrence / $2,000,000 aggregate", "$500 - $1,500 per year"),
					entry("Workers' compensation", TierCritical, "Statutory limits", "$0.75 - $2.75 per $100 payroll"),
					entry("Commercial property", TierModerate, "Replacement cost", "$500 - $3,000 per year"),
					entry("Professional liability", TierModerate, "$1,000,000", "$500 - $3,000 per year"),
					entry("Business interruption", TierModerate, "12 months income", "$500 - $2,500 per year"),
					entry("Commercial auto", TierOptional, "$1,000,000 combined single limit", "$1,200 - $2,400 per vehicle"),
					entry("Cyber liability", TierOptional, "$1,000,000", "$1,000 - $7,500 per year"),
				},
				string(CategoryLife): {
					entry("Death benefit", TierCritical, "10x - 12x annual income", "$20 - $60 per month"),
					entry("Accelerated death benefit", TierModerate, "Up to 50% of face amount", "Included"),
					entry("Waiver of premium", TierModerate, "All premiums during disability", "$3 - $10 per month"),
					entry("Guaranteed insurability", TierOptional, "Additional purchase options", "$2 - $8 per month"),
					entry("Child term rider", TierOptional, "$10,000 - $25,000 per child", "$5 - $10 per month"),
				},
			},
			string(RegionIndia): {
				string(CategoryCar): {
					entry("Third-party liability", TierCritical, "Unlimited injury / ₹7,50,000 property damage", "As per IRDAI tariff"),
					entry("Own damage", TierCritical, "Insured declared value", "₹3,000 - ₹15,000 per year"),
					entry("Personal accident cover", TierCritical, "₹15,00,000 owner-driver", "₹750 per year"),
					entry("Zero depreciation", TierModerate, "Full parts cost", "15% - 20% of own damage premium"),
					entry("Engine protection", TierModerate, "Engine repair cost", "₹500 - ₹2,000 per year"),
					entry("Roadside assistance", TierOptional, "24x7 towing and repairs", "₹200 - ₹500 per year"),
					entry("Return to invoice", TierOptional, "Invoice value", "₹1,000 - ₹3,000 per year"),
				},
				string(CategoryHome): {
					entry("Structure cover", TierCritical, "Reconstruction cost", "₹1,000 - ₹4,000 per year"),
					entry("Home contents", TierCritical, "₹5,00,000 - ₹10,00,000", "₹800 - ₹3,000 per year"),
					entry("Fire and allied perils", TierCritical, "Sum insured", "Included"),
					entry("Burglary and theft", TierModerate, "Contents sum insured", "₹300 - ₹1,000 per year"),
					entry("Natural calamities", TierModerate, "Sum insured", "Included"),
					entry("Public liability", TierOptional, "₹10,00,000", "₹200 - ₹600 per year"),
				},
				string(CategoryBusiness): {
					entry("Fire and special perils", TierCritical, "Reinstatement value", "₹5,000 - ₹50,000 per year"),
					entry("Public liability", TierCritical, "₹25,00,000 - ₹1,00,00,000", "₹5,000 - ₹25,000 per year"),
					entry("Workmen's compensation", TierCritical, "As per Employees' Compensation Act", "0.5% - 3% of wages"),
					entry("Burglary insurance", TierModerate, "Stock and asset value", "₹2,000 - ₹10,000 per year"),
					entry("Business interruption", TierModerate, "12 months gross profit", "₹5,000 - ₹30,000 per year"),
					entry("Marine cargo", TierOptional, "Invoice value + 10%", "0.1% - 0.5% of cargo value"),
					entry("Cyber insurance", TierOptional, "₹1,00,00,000", "₹25,000 - ₹1,00,000 per year"),
				},
				string(CategoryLife): {
					entry("Sum assured", TierCritical, "10x - 15x annual income", "₹8,000 - ₹20,000 per year"),
					entry("Accidental death benefit", TierModerate, "Equal to sum assured", "₹500 - ₹1,500 per year"),
					entry("Critical illness rider", TierModerate, "₹10,00,000 - ₹25,00,000", "₹1,500 - ₹5,000 per year"),
					entry("Waiver of premium", TierOptional, "All future premiums", "₹300 - ₹1,000 per year"),
				},
			},
			string(RegionEurope): {
				string(CategoryCar): {
					entry("Third-party liability", TierCritical, "€6,450,000 per accident injury / €1,300,000 property", "Included in base premium"),
					entry("Collision damage", TierModerate, "Market value of vehicle", "€200 - €600 per year"),
					entry("Fire and theft", TierModerate, "Market value of vehicle", "€80 - €200 per year"),
					entry("Cross-border cover", TierModerate, "EU/EEA and Green Card countries", "Included"),
					entry("Breakdown assistance", TierOptional, "Europe-wide recovery", "€40 - €120 per year"),
					entry("Legal protection", TierOptional, "€50,000", "€30 - €80 per year"),
				},
				string(CategoryHome): {
					entry("Buildings insurance", TierCritical, "Full rebuild value", "€150 - €500 per year"),
					entry("Contents insurance", TierCritical, "€40,000", "€80 - €250 per year"),
					entry("Personal liability", TierCritical, "€1,000,000 - €5,000,000", "€50 - €100 per year"),
					entry("Natural hazards", TierModerate, "Sum insured", "€30 - €150 per year"),
					entry("Glass breakage", TierOptional, "Full replacement", "€20 - €50 per year"),
					entry("Legal protection", TierOptional, "€50,000", "€60 - €200 per year"),
				},
				string(CategoryBusiness): {
					entry("General liability", TierCritical, "€2,000,000 - €5,000,000", "€300 - €1,500 per year"),
					entry("Property insurance", TierCritical, "Replacement value", "€400 - €3,000 per year"),
					entry("Employers' liability", TierModerate, "€5,000,000", "€200 - €1,000 per year"),
					entry("Professional indemnity", TierModerate, "€1,000,000", "€400 - €2,500 per year"),
					entry("Business interruption", TierModerate, "12 months gross profit", "€300 - €2,000 per year"),
					entry("Cyber insurance", TierOptional, "€500,000", "€500 - €3,000 per year"),
				},
				string(CategoryLife): {
					entry("Death benefit", TierCritical, "5x - 10x annual income", "€15 - €50 per month"),
					entry("Disability cover", TierModerate, "60% of gross income", "€20 - €80 per month"),
					entry("Critical illness cover", TierModerate, "€50,000 - €150,000", "€15 - €60 per month"),
					entry("Waiver of premium", TierOptional, "All premiums during incapacity", "€2 - €6 per month"),
				},
			},
		},
		RegionAliases: map[string]string{
			"GB":             string(RegionUK),
			"United Kingdom": string(RegionUK),
			"USA":            string(RegionUS),
			"United States":  string(RegionUS),
			"IN":             string(RegionIndia),
			"EU":             string(RegionEurope),
		},
		Synonyms: map[string][]string{
			// UK / Europe motor
			"third-party liability":  {"third party liability", "third-party cover", "third party cover", "liability to third parties"},
			"fire and theft":         {"fire & theft", "theft protection", "fire damage to the vehicle"},
			"accidental damage":      {"own damage", "accidental loss or damage", "collision cover"},
			"personal injury":        {"personal accident", "injury cover"},
			"breakdown cover":        {"roadside assistance", "breakdown assistance", "recovery service"},
			"courtesy car":           {"replacement vehicle", "hire car", "substitute vehicle"},
			"legal expenses":         {"legal expenses cover", "legal costs", "legal protection"},
			"windscreen cover":       {"glass cover", "windscreen repair", "windscreen replacement"},
			"collision damage":       {"collision cover", "own damage", "accidental damage"},
			"cross-border cover":     {"green card", "european cover", "driving abroad"},
			"breakdown assistance":   {"breakdown cover", "roadside assistance", "recovery service"},
			"legal protection":       {"legal expenses", "legal costs", "legal assistance"},
			// US motor
			"bodily injury liability":    {"bodily injury", "bi liability"},
			"property damage liability":  {"property damage", "pd liability"},
			"uninsured motorist":         {"underinsured motorist", "uninsured/underinsured", "um/uim"},
			"collision coverage":         {"collision"},
			"comprehensive coverage":     {"comprehensive", "other than collision"},
			"personal injury protection": {"pip", "no-fault"},
			"roadside assistance":        {"towing", "breakdown cover", "emergency road service"},
			"rental reimbursement":       {"rental car", "car rental coverage", "transportation expense"},
			// India motor
			"own damage":              {"od cover", "damage to own vehicle", "own vehicle damage"},
			"personal accident cover": {"personal accident", "pa cover", "compulsory pa"},
			"zero depreciation":       {"nil depreciation", "zero dep", "bumper to bumper"},
			"engine protection":       {"engine protect", "engine secure", "hydrostatic lock"},
			"return to invoice":       {"invoice cover", "rti"},
			// Home
			"buildings cover":             {"buildings insurance", "building cover", "structure of your home"},
			"contents cover":              {"contents insurance", "home contents", "household contents"},
			"escape of water":             {"burst pipes", "water damage", "leaking water"},
			"personal possessions":        {"personal belongings", "possessions away from home", "all risks"},
			"home emergency":              {"emergency assistance", "home assistance", "emergency repairs"},
			"dwelling coverage":           {"dwelling", "coverage a"},
			"personal property coverage":  {"personal property", "coverage c", "belongings"},
			"personal liability":          {"liability coverage", "coverage e", "family liability"},
			"loss of use":                 {"additional living expenses", "coverage d", "alternative accommodation"},
			"medical payments":            {"medical payments to others", "coverage f", "med pay"},
			"flood insurance":             {"flood cover", "flood damage", "nfip"},
			"scheduled personal property": {"scheduled property", "valuables rider", "jewelry floater"},
			"structure cover":             {"building structure", "structure insurance", "dwelling structure"},
			"home contents":               {"contents cover", "household contents", "contents insurance"},
			"fire and allied perils":      {"fire insurance", "allied perils", "fire and lightning"},
			"burglary and theft":          {"burglary", "housebreaking", "theft cover"},
			"natural calamities":          {"earthquake", "flood and storm", "natural disaster"},
			"buildings insurance":         {"buildings cover", "building insurance", "structure"},
			"contents insurance":          {"contents cover", "household contents", "home contents"},
			"natural hazards":             {"natural disaster", "storm and flood", "elemental damage"},
			"glass breakage":              {"glass cover", "broken glass", "window breakage"},
			// Business
			"public liability":         {"public liability insurance", "third party liability", "general liability"},
			"employers' liability":     {"employers liability", "employer's liability", "employer liability"},
			"professional indemnity":   {"professional liability", "errors and omissions", "e&o"},
			"business interruption":    {"loss of income", "business income", "loss of profits"},
			"commercial property":      {"business property", "property insurance", "buildings and contents"},
			"cyber insurance":          {"cyber liability", "cyber cover", "data breach"},
			"directors and officers":   {"d&o", "directors' and officers'", "management liability"},
			"general liability":        {"public liability", "commercial general liability", "cgl"},
			"workers' compensation":    {"workers compensation", "workers comp", "employers liability"},
			"professional liability":   {"professional indemnity", "errors and omissions", "e&o"},
			"commercial auto":          {"business auto", "commercial vehicle", "fleet insurance"},
			"cyber liability":          {"cyber insurance", "cyber cover", "data breach"},
			"fire and special perils":  {"sfsp", "standard fire", "fire insurance"},
			"workmen's compensation":   {"workmen compensation", "employees' compensation", "employee compensation"},
			"burglary insurance":       {"burglary", "housebreaking", "theft cover"},
			"marine cargo":             {"marine insurance", "transit insurance", "goods in transit"},
			"property insurance":       {"commercial property", "buildings and contents", "property damage"},
			// Life
			"death benefit":             {"life cover", "sum assured", "face amount", "lump sum on death"},
			"terminal illness benefit":  {"terminal illness", "diagnosed with a terminal"},
			"critical illness cover":    {"critical illness", "serious illness cover", "dread disease"},
			"income protection":         {"income replacement", "disability income", "salary protection"},
			"waiver of premium":         {"premium waiver", "premiums waived", "waiver benefit"},
			"accelerated death benefit": {"accelerated benefit", "living benefit", "terminal illness rider"},
			"guaranteed insurability":   {"guaranteed purchase option", "future purchase option", "increase cover without medical"},
			"child term rider":          {"child rider", "children's term", "child life cover"},
			"sum assured":               {"sum insured", "death benefit", "life cover"},
			"accidental death benefit":  {"accidental death", "adb rider", "double indemnity"},
			"critical illness rider":    {"critical illness", "ci rider", "dread disease"},
			"disability cover":          {"disability benefit", "incapacity cover", "invalidity"},
			// Generic fallback terms
			"liability protection": {"liability cover", "liability insurance", "public liability"},
			"property damage":      {"damage to property", "property loss"},
			"theft coverage":       {"theft cover", "theft protection", "burglary"},
		},
		CategoryKeywords: map[string][]string{
			string(CategoryCar):      {"car", "vehicle", "motor", "auto", "driver", "driving", "windscreen", "collision"},
			string(CategoryHome):     {"home", "house", "dwelling", "household", "buildings", "contents", "residential", "homeowner"},
			string(CategoryBusiness): {"business", "commercial", "company", "employer", "employees", "professional", "trade", "enterprise"},
			string(CategoryLife):     {"life", "death", "beneficiary", "sum assured", "term assurance", "mortality", "survivor", "funeral"},
		},
		GenericTerms: []string{
			"liability protection",
			"property damage",
			"theft coverage",
			"accidental damage",
			"legal expenses",
		},
		LimitPhrases: []string{"limit", "maximum", "up to", "cover", "coverage"},
	}
}

//Personal.AI order the ending
