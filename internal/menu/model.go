package menu

type Category string

const (
	CategoryMeat      Category = "肉类"
	CategoryVegetable Category = "蔬菜"
	CategoryStaple    Category = "主食"
	CategorySoup      Category = "汤品"
	CategoryDessert   Category = "甜点/饮品"
	CategoryOther     Category = "其他"
)

var Categories = []Category{
	CategoryMeat,
	CategoryVegetable,
	CategoryStaple,
	CategorySoup,
	CategoryDessert,
	CategoryOther,
}

type RestaurantStatus string

const (
	StatusWantToGo RestaurantStatus = "want_to_go"
	StatusVisited  RestaurantStatus = "visited"
)

type Ingredient struct {
	Item   string `json:"item" validate:"required"`
	Amount string `json:"amount"`
}

type Recipe struct {
	Ingredients []Ingredient `json:"ingredients" validate:"dive"`
	Steps       []string     `json:"steps"`
	Tips        []string     `json:"tips"`
}

type Recommendation struct {
	Id          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required,max=256"`
	Description string   `json:"description"`
	Reason      string   `json:"reason"`
	Tags        []string `json:"tags"`
	Calories    string   `json:"calories"`
	FunFact     string   `json:"funFact"`
	ImageUrl    string   `json:"imageUrl,omitempty"`
	Category    Category `json:"category,omitempty" validate:"omitempty,oneof=肉类 蔬菜 主食 汤品 甜点/饮品 其他"`
	Recipe      *Recipe  `json:"recipe,omitempty"`
	IsCustom    bool     `json:"isCustom,omitempty"`
	PrepTime    string   `json:"prepTime,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty" validate:"omitempty,oneof=简单 中等 困难"`
}

type DishRating struct {
	Name     string  `json:"name" validate:"required"`
	Rating   float64 `json:"rating" validate:"gte=0,lte=5"`
	Comment  string  `json:"comment,omitempty"`
	ImageUrl string  `json:"imageUrl,omitempty"`
}

type DishToTry struct {
	Name     string `json:"name" validate:"required"`
	ImageUrl string `json:"imageUrl,omitempty"`
}

type Restaurant struct {
	Id            string           `json:"id" validate:"required"`
	Name          string           `json:"name" validate:"required,max=256"`
	Cuisine       string           `json:"cuisine"`
	Location      string           `json:"location"`
	Address       string           `json:"address,omitempty"`
	Distance      *float64         `json:"distance,omitempty" validate:"omitempty,gte=0"`
	AvgPrice      float64          `json:"avgPrice" validate:"gte=0"`
	Status        RestaurantStatus `json:"status" validate:"required,oneof=want_to_go visited"`
	OverallRating *float64         `json:"overallRating,omitempty" validate:"omitempty,gte=0,lte=5"`
	DishRatings   []DishRating     `json:"dishRatings,omitempty" validate:"dive"`
	DishesToTry   []DishToTry      `json:"dishesToTry,omitempty" validate:"dive"`
	Notes         string           `json:"notes,omitempty"`
	ImageUrl      string           `json:"imageUrl,omitempty"`
	VisitCount    int              `json:"visitCount,omitempty" validate:"gte=0"`
	VisitHistory  []string         `json:"visitHistory,omitempty" validate:"dive,datetime=2006-01-02T15:04:05Z07:00"`
}

// Snapshot is everything a chef shares with guests. A nil list means the key
// was absent, which is different from an empty list.
type Snapshot struct {
	SavedRecipes []Recommendation `json:"savedRecipes" validate:"dive"`
	Restaurants  []Restaurant     `json:"restaurants" validate:"dive"`
}

// Merge overlays the lists present in remote onto local.
func (s Snapshot) Merge(remote Snapshot) Snapshot {
	merged := s
	if remote.SavedRecipes != nil {
		merged.SavedRecipes = remote.SavedRecipes
	}
	if remote.Restaurants != nil {
		merged.Restaurants = remote.Restaurants
	}

	return merged
}
