package config

// DefaultQuestionPool is the built-in prompt rotation, used when the config
// file does not supply its own pool.
var DefaultQuestionPool = []string{
	"best fast food menu items",
	"The worst buzzwords heard at an office",
	"Movies you have never seen",
	"Sports mascots",
	"Stadium Food",
	"Places to pull over on a road trip",
	"Things you'd find in a teenager's room",
	"Worst first date stories",
	"Things that are overrated",
	"Best comfort foods",
	"Things that make you feel old",
	"Worst fashion trends",
	"Things you'd bring to a desert island",
	"Best pizza toppings",
	"Things that are underrated",
	"Things that make you say \"hell yea, it's summer\"",
	"Best movie sequels",
	"Worst superhero movies",
	"Things you'd find in a college dorm",
	"Best breakfast foods",
	"Things that are surprisingly expensive",
	"Best road trip snacks",
	"Things that make you feel nostalgic",
	"Best late night foods",
	"Things that are overpriced",
}
