package locale

import "strings"

type Category struct {
	ID    string
	Label string
}

// VisibleCategoryCount is how many categories are offered before "more".
const VisibleCategoryCount = 10

var categories = []Category{
	{ID: "all", Label: "All"},
	{ID: "news", Label: "News"},
	{ID: "flash", Label: "Flash News"},
	{ID: "entertainment", Label: "Entertainment News"},
	{ID: "politics", Label: "Politics"},
	{ID: "viral", Label: "Viral"},
	{ID: "sports", Label: "Sports"},
	{ID: "crime", Label: "Crime"},
	{ID: "daily", Label: "Daily"},
	{ID: "government", Label: "Government"},
	{ID: "global", Label: "Global"},
	{ID: "state", Label: "State"},
	{ID: "national", Label: "National"},
	{ID: "local", Label: "Local"},
	{ID: "election", Label: "Election"},
	{ID: "international", Label: "International"},
	{ID: "foreign-affairs", Label: "Foreign Affairs"},
	{ID: "local-metro", Label: "Local Metro"},
	{ID: "education", Label: "Education"},
	{ID: "religion", Label: "Religion"},
	{ID: "business", Label: "Business"},
	{ID: "economy", Label: "Economy"},
	{ID: "crime-justice", Label: "Crime & Justice"},
	{ID: "science-tech", Label: "Science & Tech"},
	{ID: "health-wellness", Label: "Health & Wellness"},
	{ID: "social-issues", Label: "Social Issues"},
	{ID: "lifestyle-beauty", Label: "Lifestyle & Beauty"},
	{ID: "traffic-weather", Label: "Traffic & Weather"},
	{ID: "environment", Label: "Environment"},
	{ID: "technology", Label: "Technology"},
	{ID: "culture-heritage", Label: "Culture & Heritage"},
	{ID: "finance", Label: "Finance"},
}

var districts = map[string][]string{
	"Andhra Pradesh": {
		"Alluri Sitarama Raju", "Anakapalli", "Anantapur", "Annamayya", "Bapatla", "Chittoor",
		"Dr. B. R. Ambedkar Konaseema", "East Godavari", "Eluru", "Guntur", "Kakinada", "Krishna",
		"Kurnool", "Nandyal", "NTR", "Palnadu", "Parvathipuram Manyam", "Prakasam",
		"Sri Potti Sriramulu Nellore", "Sri Sathya Sai", "Srikakulam", "Tirupati", "Visakhapatnam",
		"Vizianagaram", "West Godavari", "YSR Kadapa",
	},
	"Telangana": {
		"Adilabad", "Bhadradri Kothagudem", "Hanumakonda", "Hyderabad", "Jagtial", "Jangaon",
		"Jayashankar Bhupalpally", "Jogulamba Gadwal", "Kamareddy", "Karimnagar", "Khammam",
		"Kumuram Bheem Asifabad", "Mahabubabad", "Mahabubnagar", "Mancherial", "Medak",
		"Medchal-Malkajgiri", "Mulugu", "Nagarkurnool", "Nalgonda", "Narayanpet", "Nirmal",
		"Nizamabad", "Peddapalli", "Rajanna Sircilla", "Rangareddy", "Sangareddy", "Siddipet",
		"Suryapet", "Vikarabad", "Wanaparthy", "Warangal", "Yadadri Bhuvanagiri",
	},
}

func Categories() []Category {
	return append([]Category(nil), categories...)
}

func VisibleCategories() []Category {
	return Categories()[:VisibleCategoryCount]
}

func MoreCategories() []Category {
	return Categories()[VisibleCategoryCount:]
}

// LookupCategory finds a category by id, case-insensitively.
func LookupCategory(id string) (Category, bool) {
	for _, c := range categories {
		if strings.EqualFold(c.ID, id) {
			return c, true
		}
	}
	return Category{}, false
}

func States() []string {
	return []string{"Andhra Pradesh", "Telangana"}
}

// Districts returns the districts of state, or nil for an unknown state.
func Districts(state string) []string {
	return append([]string(nil), districts[state]...)
}

// CanonicalState resolves a user supplied state name to its catalog spelling.
func CanonicalState(name string) (string, bool) {
	for state := range districts {
		if strings.EqualFold(state, strings.TrimSpace(name)) {
			return state, true
		}
	}
	return "", false
}

// CanonicalDistrict resolves a district name within state.
func CanonicalDistrict(state, name string) (string, bool) {
	for _, d := range districts[state] {
		if strings.EqualFold(d, strings.TrimSpace(name)) {
			return d, true
		}
	}
	return "", false
}
