package ticket

const (
	CourseAppetizers = 1
	CourseEntrees    = 2
	CourseDesserts   = 3
)

var courseByCategory = map[string]int{
	"Appetizers":  CourseAppetizers,
	"Salads":      CourseAppetizers,
	"Soft Drinks": CourseAppetizers,
	"Coffee":      CourseAppetizers,
	"Juice":       CourseAppetizers,
	"Alcohol":     CourseAppetizers,
	"Entrees":     CourseEntrees,
	"Sides":       CourseEntrees,
	"Add Ons":     CourseEntrees,
	"Desserts":    CourseDesserts,
}

// CourseFor derives the serving course from a menu category.
// Unknown categories go out with the first course.
func CourseFor(category string) int {
	if course, ok := courseByCategory[category]; ok {
		return course
	}
	return CourseAppetizers
}
